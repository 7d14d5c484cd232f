package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Employee roles
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type Employee struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string // "admin" or "employee"
	Active       bool
	TOTPSecret   *string // Set once MFA is enrolled
	HiredAt      time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenClaims are the JWT claims carried by portal access and refresh tokens.
type TokenClaims struct {
	Type       string `json:"type"` // "access" or "refresh"
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
