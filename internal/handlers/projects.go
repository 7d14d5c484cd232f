package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pylink-dev/portal/internal/models"
	"github.com/pylink-dev/portal/internal/services"
	pkghttp "github.com/pylink-dev/portal/pkg/http"
)

// ProjectServiceInterface defines the interface for project management
type ProjectServiceInterface interface {
	Create(ctx context.Context, input services.CreateProjectInput) (*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	Update(ctx context.Context, id string, input services.UpdateProjectInput) (*models.Project, error)
}

// ProjectHandler handles project management HTTP requests
type ProjectHandler struct {
	service ProjectServiceInterface
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(service ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// CreateProjectRequest represents the request body for creating a project
type CreateProjectRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	Description  string   `json:"description" validate:"max=2000"`
	Client       string   `json:"client" validate:"max=200"`
	Budget       float64  `json:"budget" validate:"gte=0"`
	Technologies []string `json:"technologies"`
	StartDate    string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateProjectRequest represents the request body for updating a project
type UpdateProjectRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=2000"`
	Client       *string  `json:"client" validate:"omitempty,max=200"`
	Budget       *float64 `json:"budget" validate:"omitempty,gte=0"`
	Status       *string  `json:"status" validate:"omitempty,oneof=active completed paused cancelled"`
	Technologies []string `json:"technologies"`
}

// Create registers a new project
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	var startDate time.Time
	if req.StartDate != "" {
		startDate, _ = time.Parse("2006-01-02", req.StartDate)
	}

	project, err := h.service.Create(r.Context(), services.CreateProjectInput{
		Name:         req.Name,
		Description:  req.Description,
		Client:       req.Client,
		Budget:       req.Budget,
		Technologies: req.Technologies,
		StartDate:    startDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, project)
}

// List returns all projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, projects)
}

// Get returns a single project
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, project)
}

// Update applies changes to a project
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	project, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), services.UpdateProjectInput{
		Name:         req.Name,
		Description:  req.Description,
		Client:       req.Client,
		Budget:       req.Budget,
		Status:       req.Status,
		Technologies: req.Technologies,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, project)
}
