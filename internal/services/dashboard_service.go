package services

import (
	"context"
	"log/slog"

	"github.com/pylink-dev/portal/internal/models"
	"github.com/pylink-dev/portal/internal/repositories"
)

// TimeEntryReader lists persisted time entries
type TimeEntryReader interface {
	ListAll(ctx context.Context) ([]*models.TimeEntry, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*models.TimeEntry, error)
}

// DashboardService fetches a consistent snapshot of portal data and
// feeds it through the analytics aggregator.
type DashboardService struct {
	entries   TimeEntryReader
	tasks     TaskRepository
	projects  ProjectRepository
	employees EmployeeRepository
	analytics *AnalyticsService
	logger    *slog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	entries TimeEntryReader,
	tasks TaskRepository,
	projects ProjectRepository,
	employees EmployeeRepository,
	analytics *AnalyticsService,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		entries:   entries,
		tasks:     tasks,
		projects:  projects,
		employees: employees,
		analytics: analytics,
		logger:    logger,
	}
}

// Build fetches all portal data and returns the aggregated dashboard
func (s *DashboardService) Build(ctx context.Context) (*models.Dashboard, error) {
	entries, err := s.entries.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list time entries", slog.Any("error", err))
		return nil, err
	}

	tasks, err := s.tasks.List(ctx, repositories.TaskFilter{})
	if err != nil {
		s.logger.Error("failed to list tasks", slog.Any("error", err))
		return nil, err
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		s.logger.Error("failed to list projects", slog.Any("error", err))
		return nil, err
	}

	employees, err := s.employees.List(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", slog.Any("error", err))
		return nil, err
	}

	return s.analytics.BuildDashboard(entries, tasks, projects, employees), nil
}

// EmployeeTimesheet returns the persisted entries and aggregate time
// stats for a single employee.
func (s *DashboardService) EmployeeTimesheet(ctx context.Context, employeeID string) ([]*models.TimeEntry, models.TimeStats, error) {
	entries, err := s.entries.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to list time entries",
			slog.String("employee_id", employeeID),
			slog.Any("error", err))
		return nil, models.TimeStats{}, err
	}
	return entries, s.analytics.TimeStats(entries), nil
}
