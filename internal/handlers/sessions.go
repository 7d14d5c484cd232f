package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pylink-dev/portal/internal/auth"
	"github.com/pylink-dev/portal/internal/models"
	pkghttp "github.com/pylink-dev/portal/pkg/http"
)

// SessionServiceInterface defines the interface for work session tracking
type SessionServiceInterface interface {
	Start(ctx context.Context, employeeID string, projectID *string) (*models.WorkSession, error)
	End(ctx context.Context, employeeID string) (*models.TimeEntry, error)
	SetDescription(employeeID, description string) bool
	Active(employeeID string) (*models.WorkSession, bool)
}

// SessionHandler handles work session HTTP requests
type SessionHandler struct {
	service SessionServiceInterface
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(service SessionServiceInterface) *SessionHandler {
	return &SessionHandler{service: service}
}

// StartSessionRequest represents the request body for starting a session
type StartSessionRequest struct {
	ProjectID *string `json:"project_id,omitempty"`
}

// SetDescriptionRequest represents the request body for tagging the
// active session
type SetDescriptionRequest struct {
	Description string `json:"description" validate:"required,max=500"`
}

// Start opens a work session for the authenticated employee
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req StartSessionRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			pkghttp.WriteBadRequest(w, "Invalid request body")
			return
		}
	}

	session, err := h.service.Start(r.Context(), claims.EmployeeID, req.ProjectID)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyWorking) {
			pkghttp.WriteError(w, http.StatusConflict, "already_working",
				"A work session is already in progress")
			return
		}
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, session)
}

// End closes the active session and returns the persisted time entry
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	entry, err := h.service.End(r.Context(), claims.EmployeeID)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveSession) {
			pkghttp.WriteError(w, http.StatusConflict, "no_active_session",
				"No work session is in progress")
			return
		}
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, entry)
}

// SetDescription tags the active session with a description. Tagging
// while idle is not an error; the response reports whether anything
// was updated.
func (h *SessionHandler) SetDescription(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req SetDescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	updated := h.service.SetDescription(claims.EmployeeID, req.Description)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

// Active returns the authenticated employee's open session, if any
func (h *SessionHandler) Active(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	session, ok := h.service.Active(claims.EmployeeID)
	if !ok {
		pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"active":  true,
		"session": session,
	})
}
