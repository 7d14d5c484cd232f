package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pylink-dev/portal/internal/models"
	pkghttp "github.com/pylink-dev/portal/pkg/http"
)

// ContactServiceInterface defines the interface for contact submissions
type ContactServiceInterface interface {
	Submit(ctx context.Context, name, email, company, message string) (*models.Contact, error)
	List(ctx context.Context) ([]*models.Contact, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// ContactHandler handles contact form HTTP requests
type ContactHandler struct {
	service ContactServiceInterface
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(service ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// SubmitContactRequest represents the public contact form payload
type SubmitContactRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company" validate:"max=200"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

// UpdateContactStatusRequest represents a review workflow transition
type UpdateContactStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed responded"`
}

// Submit accepts a public contact form submission
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	contact, err := h.service.Submit(r.Context(), req.Name, req.Email, req.Company, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]string{
		"id":     contact.ID,
		"status": contact.Status,
	})
}

// List returns all contact submissions
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, contacts)
}

// UpdateStatus moves a submission through the review workflow
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateContactStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
