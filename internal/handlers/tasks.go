package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pylink-dev/portal/internal/models"
	"github.com/pylink-dev/portal/internal/repositories"
	"github.com/pylink-dev/portal/internal/services"
	pkghttp "github.com/pylink-dev/portal/pkg/http"
)

// TaskServiceInterface defines the interface for task management
type TaskServiceInterface interface {
	Create(ctx context.Context, input services.CreateTaskInput) (*models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Task, error)
}

// TaskHandler handles task management HTTP requests
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	Title      string `json:"title" validate:"required,min=1,max=300"`
	ProjectID  string `json:"project_id" validate:"required"`
	EmployeeID string `json:"employee_id" validate:"required"`
	Priority   string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate    string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTaskStatusRequest represents the request body for a status change
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}

// Create registers a new task
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, _ := time.Parse("2006-01-02", req.DueDate)
		dueDate = &parsed
	}

	task, err := h.service.Create(r.Context(), services.CreateTaskInput{
		Title:      req.Title,
		ProjectID:  req.ProjectID,
		EmployeeID: req.EmployeeID,
		Priority:   req.Priority,
		DueDate:    dueDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, task)
}

// List returns tasks, optionally filtered by project or employee
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.TaskFilter{
		ProjectID:  r.URL.Query().Get("project_id"),
		EmployeeID: r.URL.Query().Get("employee_id"),
	}

	tasks, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, tasks)
}

// Get returns a single task
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, task)
}

// UpdateStatus moves a task through its workflow
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateTaskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	task, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, task)
}
