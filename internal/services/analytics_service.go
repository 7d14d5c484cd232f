package services

import (
	"fmt"
	"math"
	"time"

	"github.com/pylink-dev/portal/internal/models"
)

// Daily hours above this threshold count as overtime
const overtimeDailyThreshold = 8.0

// AnalyticsService derives dashboard statistics from snapshots of time
// entries, tasks, projects and employees. Every method is a pure function of
// its inputs: nothing is mutated, empty collections produce zero-valued
// results, and every ratio guards against division by zero. Callers are
// expected to fetch one consistent snapshot and run one aggregation pass
// over it.
type AnalyticsService struct {
	now func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{now: time.Now}
}

// TimeStats summarizes worked hours across time entries
func (s *AnalyticsService) TimeStats(entries []*models.TimeEntry) models.TimeStats {
	if len(entries) == 0 {
		return models.TimeStats{}
	}

	totalHours := 0.0
	dailyHours := make(map[string]float64)
	for _, e := range entries {
		totalHours += e.DurationHours
		dailyHours[dateKey(e.Date)] += e.DurationHours
	}

	daysWorked := len(dailyHours)
	avgHours := 0.0
	if daysWorked > 0 {
		avgHours = totalHours / float64(daysWorked)
	}

	overtime := 0.0
	for _, daily := range dailyHours {
		if daily > overtimeDailyThreshold {
			overtime += daily - overtimeDailyThreshold
		}
	}

	return models.TimeStats{
		TotalHours:     round2(totalHours),
		DaysWorked:     daysWorked,
		AvgHoursPerDay: round2(avgHours),
		OvertimeHours:  round2(overtime),
	}
}

// ProjectStats summarizes project counts and budget
func (s *AnalyticsService) ProjectStats(projects []*models.Project) models.ProjectStats {
	if len(projects) == 0 {
		return models.ProjectStats{}
	}

	stats := models.ProjectStats{TotalProjects: len(projects)}
	for _, p := range projects {
		switch p.Status {
		case models.ProjectStatusActive:
			stats.ActiveProjects++
		case models.ProjectStatusCompleted:
			stats.CompletedProjects++
		}
		stats.TotalBudget += p.Budget
	}

	stats.AvgProjectValue = round2(stats.TotalBudget / float64(stats.TotalProjects))
	return stats
}

// TaskStats summarizes task counts by status
func (s *AnalyticsService) TaskStats(tasks []*models.Task) models.TaskStats {
	if len(tasks) == 0 {
		return models.TaskStats{}
	}

	stats := models.TaskStats{TotalTasks: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskStatusCompleted:
			stats.CompletedTasks++
		case models.TaskStatusPending:
			stats.PendingTasks++
		case models.TaskStatusInProgress:
			stats.InProgressTasks++
		}
	}

	stats.CompletionRate = round2(float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100)
	return stats
}

// EmployeeStats summarizes headcount and hours per active employee.
// "New this month" means the hire date falls in the current calendar month,
// not a rolling 30-day window.
func (s *AnalyticsService) EmployeeStats(employees []*models.Employee, entries []*models.TimeEntry) models.EmployeeStats {
	if len(employees) == 0 {
		return models.EmployeeStats{}
	}

	now := s.now()
	stats := models.EmployeeStats{TotalEmployees: len(employees)}
	for _, emp := range employees {
		if emp.Active {
			stats.ActiveEmployees++
		}
		if emp.HiredAt.Month() == now.Month() && emp.HiredAt.Year() == now.Year() {
			stats.NewThisMonth++
		}
	}

	if stats.ActiveEmployees > 0 {
		totalHours := 0.0
		for _, e := range entries {
			totalHours += e.DurationHours
		}
		stats.AvgHoursPerEmployee = round2(totalHours / float64(stats.ActiveEmployees))
	}

	return stats
}

// ProductivityReport derives the heuristic 0-100 productivity score from
// completed tasks per worked hour. The band thresholds and multipliers are a
// product calibration and are kept exactly as shipped.
func (s *AnalyticsService) ProductivityReport(entries []*models.TimeEntry, tasks []*models.Task) models.ProductivityReport {
	if len(entries) == 0 {
		return models.ProductivityReport{Rating: models.RatingNeedsImprovement}
	}

	totalHours := 0.0
	for _, e := range entries {
		totalHours += e.DurationHours
	}

	completedTasks := 0
	for _, t := range tasks {
		if t.Status == models.TaskStatusCompleted {
			completedTasks++
		}
	}

	tasksPerHour := 0.0
	if totalHours > 0 {
		tasksPerHour = float64(completedTasks) / totalHours
	}

	var score float64
	var rating string
	switch {
	case tasksPerHour > 1.5:
		score = math.Min(100, tasksPerHour*40)
		rating = models.RatingExcellent
	case tasksPerHour > 1.0:
		score = tasksPerHour * 50
		rating = models.RatingGood
	case tasksPerHour > 0.5:
		score = tasksPerHour * 60
		rating = models.RatingNormal
	default:
		score = tasksPerHour * 80
		rating = models.RatingNeedsImprovement
	}

	return models.ProductivityReport{
		Score:        round2(score),
		TasksPerHour: round2(tasksPerHour),
		Rating:       rating,
	}
}

// WeeklyTrend buckets worked hours into the 4 weeks preceding now, oldest
// first. It always returns exactly 4 buckets, zero-filled when no entries
// fall inside a week.
func (s *AnalyticsService) WeeklyTrend(entries []*models.TimeEntry) []models.WeeklyTrend {
	now := s.now()

	trend := make([]models.WeeklyTrend, 0, 4)
	for week := 1; week <= 4; week++ {
		weekStart := now.AddDate(0, 0, -7*(5-week))
		weekEnd := weekStart.AddDate(0, 0, 7)

		hours := 0.0
		for _, e := range entries {
			if !e.Date.Before(weekStart) && e.Date.Before(weekEnd) {
				hours += e.DurationHours
			}
		}

		trend = append(trend, models.WeeklyTrend{
			Week:      fmt.Sprintf("Week %d", week),
			Hours:     round2(hours),
			StartDate: dateKey(weekStart),
			EndDate:   dateKey(weekEnd.AddDate(0, 0, -1)),
		})
	}

	return trend
}

// ProjectProgress reports completion per project. Projects without any
// associated task are omitted entirely.
func (s *AnalyticsService) ProjectProgress(projects []*models.Project, tasks []*models.Task) []models.ProjectProgress {
	tasksByProject := make(map[string][]*models.Task)
	for _, t := range tasks {
		tasksByProject[t.ProjectID] = append(tasksByProject[t.ProjectID], t)
	}

	progress := make([]models.ProjectProgress, 0, len(projects))
	for _, p := range projects {
		projectTasks := tasksByProject[p.ID]
		if len(projectTasks) == 0 {
			continue
		}

		completed := 0
		for _, t := range projectTasks {
			if t.Status == models.TaskStatusCompleted {
				completed++
			}
		}

		progress = append(progress, models.ProjectProgress{
			ProjectID:      p.ID,
			ProjectName:    p.Name,
			TotalTasks:     len(projectTasks),
			CompletedTasks: completed,
			ProgressPct:    round2(float64(completed) / float64(len(projectTasks)) * 100),
			Status:         p.Status,
			Budget:         p.Budget,
		})
	}

	return progress
}

// BuildDashboard assembles every aggregate from a single snapshot
func (s *AnalyticsService) BuildDashboard(
	entries []*models.TimeEntry,
	tasks []*models.Task,
	projects []*models.Project,
	employees []*models.Employee,
) *models.Dashboard {
	return &models.Dashboard{
		Time:         s.TimeStats(entries),
		Projects:     s.ProjectStats(projects),
		Tasks:        s.TaskStats(tasks),
		Employees:    s.EmployeeStats(employees, entries),
		Productivity: s.ProductivityReport(entries, tasks),
		WeeklyTrend:  s.WeeklyTrend(entries),
		Progress:     s.ProjectProgress(projects, tasks),
	}
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// round2 rounds to 2 decimals for display; intermediate math keeps full
// precision so chained aggregations do not compound rounding error.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
