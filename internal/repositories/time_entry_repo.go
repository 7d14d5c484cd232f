package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pylink-dev/portal/internal/database"
	"github.com/pylink-dev/portal/internal/models"
)

type TimeEntryRepository struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

const timeEntryColumns = `id, employee_id, project_id, date, start_time, end_time, duration_hours, description, created_at`

func scanTimeEntryRow(scanner rowScanner) (*models.TimeEntry, error) {
	var e models.TimeEntry

	err := scanner.Scan(
		&e.ID, &e.EmployeeID, &e.ProjectID, &e.Date, &e.StartTime, &e.EndTime,
		&e.DurationHours, &e.Description, &e.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &e, nil
}

// Insert persists the record produced when a work session ends
func (r *TimeEntryRepository) Insert(ctx context.Context, entry *models.TimeEntry) (*models.TimeEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO time_entries (id, employee_id, project_id, date, start_time, end_time, duration_hours, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + timeEntryColumns

	return scanTimeEntryRow(r.db.Pool.QueryRow(ctx, query,
		entry.ID, entry.EmployeeID, entry.ProjectID, entry.Date,
		entry.StartTime, entry.EndTime, entry.DurationHours, entry.Description,
	))
}

// ListByEmployee returns an employee's entries, most recent first
func (r *TimeEntryRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE employee_id = $1 ORDER BY start_time DESC`
	return r.queryEntries(ctx, query, employeeID)
}

// ListAll returns every entry, used for dashboard aggregation
func (r *TimeEntryRepository) ListAll(ctx context.Context) ([]*models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries ORDER BY start_time DESC`
	return r.queryEntries(ctx, query)
}

func (r *TimeEntryRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]*models.TimeEntry, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	entries := make([]*models.TimeEntry, 0)
	for rows.Next() {
		e, err := scanTimeEntryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return entries, nil
}
