package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pylink-dev/portal/internal/database"
	"github.com/pylink-dev/portal/internal/models"
)

type EmployeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `id, email, password_hash, first_name, last_name, role, active, totp_secret, hired_at, created_at, updated_at`

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployeeRow(scanner rowScanner) (*models.Employee, error) {
	var emp models.Employee
	var passwordHash *string

	err := scanner.Scan(
		&emp.ID, &emp.Email, &passwordHash, &emp.FirstName, &emp.LastName,
		&emp.Role, &emp.Active, &emp.TOTPSecret,
		&emp.HiredAt, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if passwordHash != nil {
		emp.PasswordHash = *passwordHash
	}

	return &emp, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	return scanEmployeeRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1`
	return scanEmployeeRow(r.db.Pool.QueryRow(ctx, query, email))
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	employees := make([]*models.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployeeRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return employees, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, emp *models.Employee) (*models.Employee, error) {
	if emp.ID == "" {
		emp.ID = uuid.New().String()
	}

	query := `
		INSERT INTO employees (id, email, password_hash, first_name, last_name, role, active, hired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + employeeColumns

	return scanEmployeeRow(r.db.Pool.QueryRow(ctx, query,
		emp.ID, emp.Email, emp.PasswordHash, emp.FirstName, emp.LastName,
		emp.Role, emp.Active, emp.HiredAt,
	))
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, emp *models.Employee) (*models.Employee, error) {
	query := `
		UPDATE employees
		SET first_name = $2, last_name = $3, role = $4, active = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + employeeColumns

	return scanEmployeeRow(r.db.Pool.QueryRow(ctx, query,
		id, emp.FirstName, emp.LastName, emp.Role, emp.Active,
	))
}

// SetTOTPSecret stores the MFA secret once enrollment is confirmed
func (r *EmployeeRepository) SetTOTPSecret(ctx context.Context, id, secret string) error {
	query := `UPDATE employees SET totp_secret = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, id, secret)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Deactivate disables the account and cancels the employee's open tasks
// in the same transaction, so no work stays assigned to a disabled account.
func (r *EmployeeRepository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE employees SET active = false, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		_, err = tx.Exec(ctx,
			`UPDATE tasks SET status = $2, updated_at = CURRENT_TIMESTAMP
			 WHERE employee_id = $1 AND status IN ($3, $4)`,
			id, models.TaskStatusCancelled, models.TaskStatusPending, models.TaskStatusInProgress)
		if err != nil {
			return database.MapPostgresError(err)
		}
		return nil
	})
}
