package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pylink-dev/portal/internal/database"
	"github.com/pylink-dev/portal/internal/models"
)

type ProjectRepository struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, name, description, client, budget, status, technologies, start_date, created_at, updated_at`

func scanProjectRow(scanner rowScanner) (*models.Project, error) {
	var p models.Project

	err := scanner.Scan(
		&p.ID, &p.Name, &p.Description, &p.Client, &p.Budget, &p.Status,
		pq.Array(&p.Technologies), &p.StartDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &p, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProjectRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *ProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanProjectRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return projects, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = models.ProjectStatusActive
	}

	query := `
		INSERT INTO projects (id, name, description, client, budget, status, technologies, start_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + projectColumns

	return scanProjectRow(r.db.Pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Client, p.Budget, p.Status,
		pq.Array(p.Technologies), p.StartDate,
	))
}

func (r *ProjectRepository) Update(ctx context.Context, id string, p *models.Project) (*models.Project, error) {
	query := `
		UPDATE projects
		SET name = $2, description = $3, client = $4, budget = $5, status = $6,
		    technologies = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + projectColumns

	return scanProjectRow(r.db.Pool.QueryRow(ctx, query,
		id, p.Name, p.Description, p.Client, p.Budget, p.Status,
		pq.Array(p.Technologies),
	))
}
