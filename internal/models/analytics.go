package models

// Derived dashboard aggregates. All of these are recomputed on demand from
// snapshots of time entries, tasks, projects and employees; none are
// persisted. Percentages and averages are rounded to 2 decimals for display,
// totals keep whatever precision the inputs carried.

type TimeStats struct {
	TotalHours     float64 `json:"total_hours"`
	DaysWorked     int     `json:"days_worked"`
	AvgHoursPerDay float64 `json:"avg_hours_per_day"`
	OvertimeHours  float64 `json:"overtime_hours"`
}

type ProjectStats struct {
	TotalProjects     int     `json:"total_projects"`
	ActiveProjects    int     `json:"active_projects"`
	CompletedProjects int     `json:"completed_projects"`
	TotalBudget       float64 `json:"total_budget"`
	AvgProjectValue   float64 `json:"avg_project_value"`
}

type TaskStats struct {
	TotalTasks      int     `json:"total_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	PendingTasks    int     `json:"pending_tasks"`
	InProgressTasks int     `json:"in_progress_tasks"`
	CompletionRate  float64 `json:"completion_rate"`
}

type EmployeeStats struct {
	TotalEmployees      int     `json:"total_employees"`
	ActiveEmployees     int     `json:"active_employees"`
	NewThisMonth        int     `json:"new_this_month"`
	AvgHoursPerEmployee float64 `json:"avg_hours_per_employee"`
}

// Productivity ratings, from best to worst.
const (
	RatingExcellent        = "Excellent"
	RatingGood             = "Good"
	RatingNormal           = "Normal"
	RatingNeedsImprovement = "Needs Improvement"
)

type ProductivityReport struct {
	Score        float64 `json:"productivity_score"`
	TasksPerHour float64 `json:"tasks_per_hour"`
	Rating       string  `json:"efficiency_rating"`
}

type WeeklyTrend struct {
	Week      string  `json:"week"`
	Hours     float64 `json:"hours"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

type ProjectProgress struct {
	ProjectID      string  `json:"project_id"`
	ProjectName    string  `json:"project_name"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	ProgressPct    float64 `json:"progress_percentage"`
	Status         string  `json:"status"`
	Budget         float64 `json:"budget"`
}

// Dashboard bundles every aggregate the admin dashboard renders, computed
// from a single consistent snapshot.
type Dashboard struct {
	Time         TimeStats          `json:"time_stats"`
	Projects     ProjectStats       `json:"project_stats"`
	Tasks        TaskStats          `json:"task_stats"`
	Employees    EmployeeStats      `json:"employee_stats"`
	Productivity ProductivityReport `json:"productivity"`
	WeeklyTrend  []WeeklyTrend      `json:"weekly_trend"`
	Progress     []ProjectProgress  `json:"project_progress"`
}
