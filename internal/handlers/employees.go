package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pylink-dev/portal/internal/auth"
	"github.com/pylink-dev/portal/internal/services"
	pkghttp "github.com/pylink-dev/portal/pkg/http"
)

// EmployeeServiceInterface defines the interface for employee management
type EmployeeServiceInterface interface {
	Create(ctx context.Context, input services.CreateEmployeeInput) (*services.EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (*services.EmployeeResponse, error)
	List(ctx context.Context) ([]*services.EmployeeResponse, error)
	Update(ctx context.Context, id string, input services.UpdateEmployeeInput) (*services.EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) error
}

// EmployeeHandler handles employee management HTTP requests
type EmployeeHandler struct {
	service EmployeeServiceInterface
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(service EmployeeServiceInterface) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// CreateEmployeeRequest represents the request body for creating an employee
type CreateEmployeeRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Role      string `json:"role" validate:"omitempty,oneof=admin employee"`
	HiredAt   string `json:"hired_at" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateEmployeeRequest represents the request body for updating an employee
type UpdateEmployeeRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin employee"`
}

// Create provisions a new employee account
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	var hiredAt time.Time
	if req.HiredAt != "" {
		hiredAt, _ = time.Parse("2006-01-02", req.HiredAt)
	}

	emp, err := h.service.Create(r.Context(), services.CreateEmployeeInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		HiredAt:   hiredAt,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, emp)
}

// List returns all employees
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, employees)
}

// Get returns a single employee
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	emp, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, emp)
}

// Me returns the authenticated employee's own record
func (h *EmployeeHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	emp, err := h.service.GetByID(r.Context(), claims.EmployeeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, emp)
}

// Update applies changes to an employee
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	emp, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), services.UpdateEmployeeInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, emp)
}

// Deactivate disables an employee account
func (h *EmployeeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
