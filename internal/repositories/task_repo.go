package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pylink-dev/portal/internal/database"
	"github.com/pylink-dev/portal/internal/models"
)

type TaskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskFilter narrows List results; zero values mean "no filter"
type TaskFilter struct {
	ProjectID  string
	EmployeeID string
}

const taskColumns = `id, title, project_id, employee_id, priority, status, due_date, created_at, updated_at`

func scanTaskRow(scanner rowScanner) (*models.Task, error) {
	var t models.Task

	err := scanner.Scan(
		&t.ID, &t.Title, &t.ProjectID, &t.EmployeeID,
		&t.Priority, &t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &t, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTaskRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	args := make([]interface{}, 0, 2)

	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = models.TaskStatusPending
	}
	if t.Priority == "" {
		t.Priority = models.TaskPriorityMedium
	}

	query := `
		INSERT INTO tasks (id, title, project_id, employee_id, priority, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + taskColumns

	return scanTaskRow(r.db.Pool.QueryRow(ctx, query,
		t.ID, t.Title, t.ProjectID, t.EmployeeID, t.Priority, t.Status, t.DueDate,
	))
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + taskColumns

	return scanTaskRow(r.db.Pool.QueryRow(ctx, query, id, status))
}
