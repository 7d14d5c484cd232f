package models

import "time"

// WorkSession is the transient, in-memory state of an employee who is
// currently clocked in. At most one exists per employee at a time. It is
// never persisted; ending a session produces a TimeEntry.
type WorkSession struct {
	EmployeeID  string    `json:"employee_id"`
	ProjectID   *string   `json:"project_id,omitempty"`
	StartTime   time.Time `json:"start_time"`
	Description string    `json:"description"`
}

// TimeEntry is the immutable record produced when a work session ends.
// DurationHours keeps full float precision; rounding happens only when the
// value is rendered.
type TimeEntry struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employee_id"`
	ProjectID     *string   `json:"project_id,omitempty"`
	Date          time.Time `json:"date"` // calendar day of StartTime
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DurationHours float64   `json:"duration_hours"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}
