package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pylink-dev/portal/internal/database"
	"github.com/pylink-dev/portal/internal/models"
)

type ContactRepository struct {
	db *database.DB
}

func NewContactRepository(db *database.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `id, name, email, company, message, status, created_at`

func scanContactRow(scanner rowScanner) (*models.Contact, error) {
	var c models.Contact

	err := scanner.Scan(
		&c.ID, &c.Name, &c.Email, &c.Company, &c.Message, &c.Status, &c.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &c, nil
}

func (r *ContactRepository) Insert(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = models.ContactStatusPending
	}

	query := `
		INSERT INTO contacts (id, name, email, company, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + contactColumns

	return scanContactRow(r.db.Pool.QueryRow(ctx, query,
		c.ID, c.Name, c.Email, c.Company, c.Message, c.Status,
	))
}

func (r *ContactRepository) List(ctx context.Context) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	contacts := make([]*models.Contact, 0)
	for rows.Next() {
		c, err := scanContactRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return contacts, nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE contacts SET status = $2 WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, id, status)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
