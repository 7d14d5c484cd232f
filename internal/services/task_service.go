package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pylink-dev/portal/internal/models"
	"github.com/pylink-dev/portal/internal/repositories"
)

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, error)
	Create(ctx context.Context, t *models.Task) (*models.Task, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Task, error)
}

// TaskService handles task management business logic
type TaskService struct {
	repo     TaskRepository
	projects ProjectRepository
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(repo TaskRepository, projects ProjectRepository, logger *slog.Logger) *TaskService {
	return &TaskService{
		repo:     repo,
		projects: projects,
		logger:   logger,
	}
}

func validTaskStatus(status string) bool {
	switch status {
	case models.TaskStatusPending, models.TaskStatusInProgress,
		models.TaskStatusCompleted, models.TaskStatusCancelled:
		return true
	}
	return false
}

func validTaskPriority(priority string) bool {
	switch priority {
	case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh:
		return true
	}
	return false
}

// CreateTaskInput holds the fields for creating a task
type CreateTaskInput struct {
	Title      string
	ProjectID  string
	EmployeeID string
	Priority   string
	DueDate    *time.Time
}

// Create registers a new task against an existing project
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("task title is required: %w", models.ErrBadRequest)
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !validTaskPriority(priority) {
		return nil, fmt.Errorf("invalid task priority %q: %w", priority, models.ErrBadRequest)
	}

	if _, err := s.projects.GetByID(ctx, input.ProjectID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("project %s not found: %w", input.ProjectID, models.ErrBadRequest)
		}
		return nil, err
	}

	task, err := s.repo.Create(ctx, &models.Task{
		Title:      title,
		ProjectID:  input.ProjectID,
		EmployeeID: input.EmployeeID,
		Priority:   priority,
		Status:     models.TaskStatusPending,
		DueDate:    input.DueDate,
	})
	if err != nil {
		s.logger.Error("failed to create task", slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("task created",
		slog.String("task_id", task.ID),
		slog.String("project_id", task.ProjectID))
	return task, nil
}

// GetByID returns a single task
func (s *TaskService) GetByID(ctx context.Context, id string) (*models.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns tasks matching the filter
func (s *TaskService) List(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, error) {
	return s.repo.List(ctx, filter)
}

// UpdateStatus moves a task through its workflow
func (s *TaskService) UpdateStatus(ctx context.Context, id, status string) (*models.Task, error) {
	if !validTaskStatus(status) {
		return nil, fmt.Errorf("invalid task status %q: %w", status, models.ErrBadRequest)
	}

	task, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("task status updated",
		slog.String("task_id", id),
		slog.String("status", status))
	return task, nil
}
