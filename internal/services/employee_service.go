package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pylink-dev/portal/internal/models"
	pkgauth "github.com/pylink-dev/portal/pkg/auth"
)

// EmployeeRepository defines the interface for employee data operations
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	List(ctx context.Context) ([]*models.Employee, error)
	Create(ctx context.Context, emp *models.Employee) (*models.Employee, error)
	Update(ctx context.Context, id string, emp *models.Employee) (*models.Employee, error)
	SetTOTPSecret(ctx context.Context, id, secret string) error
	Deactivate(ctx context.Context, id string) error
}

// EmployeeService handles employee management business logic
type EmployeeService struct {
	repo   EmployeeRepository
	logger *slog.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(repo EmployeeRepository, logger *slog.Logger) *EmployeeService {
	return &EmployeeService{
		repo:   repo,
		logger: logger,
	}
}

// EmployeeResponse represents an employee in HTTP responses
type EmployeeResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	Active     bool   `json:"active"`
	MFAEnabled bool   `json:"mfa_enabled"`
	HiredAt    string `json:"hired_at"`
	CreatedAt  string `json:"created_at"`
}

func employeeModelToResponse(emp *models.Employee) *EmployeeResponse {
	return &EmployeeResponse{
		ID:         emp.ID,
		Email:      emp.Email,
		FirstName:  emp.FirstName,
		LastName:   emp.LastName,
		Role:       emp.Role,
		Active:     emp.Active,
		MFAEnabled: emp.TOTPSecret != nil,
		HiredAt:    emp.HiredAt.Format("2006-01-02"),
		CreatedAt:  emp.CreatedAt.Format(time.RFC3339),
	}
}

// CreateEmployeeInput holds the fields for creating an employee
type CreateEmployeeInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	HiredAt   time.Time
}

// Create provisions a new employee account
func (s *EmployeeService) Create(ctx context.Context, input CreateEmployeeInput) (*EmployeeResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", models.ErrBadRequest)
	}

	role := input.Role
	if role == "" {
		role = models.RoleEmployee
	}
	if role != models.RoleEmployee && role != models.RoleAdmin {
		return nil, fmt.Errorf("invalid role %q: %w", role, models.ErrBadRequest)
	}

	if err := pkgauth.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		s.logger.Info("employee creation failed: email already in use")
		return nil, models.ErrConflict
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check for existing employee", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	hash, err := pkgauth.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	hiredAt := input.HiredAt
	if hiredAt.IsZero() {
		hiredAt = time.Now().UTC()
	}

	emp, err := s.repo.Create(ctx, &models.Employee{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         role,
		Active:       true,
		HiredAt:      hiredAt,
	})
	if err != nil {
		s.logger.Error("failed to create employee", slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("employee created", slog.String("employee_id", emp.ID))
	return employeeModelToResponse(emp), nil
}

// GetByID returns a single employee
func (s *EmployeeService) GetByID(ctx context.Context, id string) (*EmployeeResponse, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return employeeModelToResponse(emp), nil
}

// List returns all employees
func (s *EmployeeService) List(ctx context.Context) ([]*EmployeeResponse, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employeeModelToResponse(emp))
	}
	return responses, nil
}

// UpdateEmployeeInput holds the mutable employee fields
type UpdateEmployeeInput struct {
	FirstName *string
	LastName  *string
	Role      *string
}

// Update applies the provided fields to an employee
func (s *EmployeeService) Update(ctx context.Context, id string, input UpdateEmployeeInput) (*EmployeeResponse, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		emp.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		emp.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Role != nil {
		if *input.Role != models.RoleEmployee && *input.Role != models.RoleAdmin {
			return nil, fmt.Errorf("invalid role %q: %w", *input.Role, models.ErrBadRequest)
		}
		emp.Role = *input.Role
	}

	updated, err := s.repo.Update(ctx, id, emp)
	if err != nil {
		s.logger.Error("failed to update employee", slog.String("employee_id", id), slog.Any("error", err))
		return nil, err
	}

	return employeeModelToResponse(updated), nil
}

// Deactivate disables an employee account
func (s *EmployeeService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("employee deactivated", slog.String("employee_id", id))
	return nil
}
