package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pylink-dev/portal/internal/models"
)

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, id string, p *models.Project) (*models.Project, error)
}

// ProjectService handles project management business logic
type ProjectService struct {
	repo   ProjectRepository
	logger *slog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(repo ProjectRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		repo:   repo,
		logger: logger,
	}
}

func validProjectStatus(status string) bool {
	switch status {
	case models.ProjectStatusActive, models.ProjectStatusCompleted,
		models.ProjectStatusPaused, models.ProjectStatusCancelled:
		return true
	}
	return false
}

// CreateProjectInput holds the fields for creating a project
type CreateProjectInput struct {
	Name         string
	Description  string
	Client       string
	Budget       float64
	Technologies []string
	StartDate    time.Time
}

// Create registers a new project
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("project name is required: %w", models.ErrBadRequest)
	}
	if input.Budget < 0 {
		return nil, fmt.Errorf("budget cannot be negative: %w", models.ErrBadRequest)
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = time.Now().UTC()
	}

	project, err := s.repo.Create(ctx, &models.Project{
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		Client:       strings.TrimSpace(input.Client),
		Budget:       input.Budget,
		Status:       models.ProjectStatusActive,
		Technologies: input.Technologies,
		StartDate:    startDate,
	})
	if err != nil {
		s.logger.Error("failed to create project", slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("project created", slog.String("project_id", project.ID))
	return project, nil
}

// GetByID returns a single project
func (s *ProjectService) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all projects
func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	return s.repo.List(ctx)
}

// UpdateProjectInput holds the mutable project fields
type UpdateProjectInput struct {
	Name         *string
	Description  *string
	Client       *string
	Budget       *float64
	Status       *string
	Technologies []string
}

// Update applies the provided fields to a project
func (s *ProjectService) Update(ctx context.Context, id string, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, fmt.Errorf("project name cannot be empty: %w", models.ErrBadRequest)
		}
		project.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}
	if input.Client != nil {
		project.Client = strings.TrimSpace(*input.Client)
	}
	if input.Budget != nil {
		if *input.Budget < 0 {
			return nil, fmt.Errorf("budget cannot be negative: %w", models.ErrBadRequest)
		}
		project.Budget = *input.Budget
	}
	if input.Status != nil {
		if !validProjectStatus(*input.Status) {
			return nil, fmt.Errorf("invalid project status %q: %w", *input.Status, models.ErrBadRequest)
		}
		project.Status = *input.Status
	}
	if input.Technologies != nil {
		project.Technologies = input.Technologies
	}

	updated, err := s.repo.Update(ctx, id, project)
	if err != nil {
		s.logger.Error("failed to update project", slog.String("project_id", id), slog.Any("error", err))
		return nil, err
	}
	return updated, nil
}
