package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pylink-dev/portal/internal/models"
)

// ContactRepository defines the interface for contact submission storage
type ContactRepository interface {
	Insert(ctx context.Context, c *models.Contact) (*models.Contact, error)
	List(ctx context.Context) ([]*models.Contact, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// ContactService handles public contact form submissions
type ContactService struct {
	repo   ContactRepository
	email  EmailService
	logger *slog.Logger
}

// NewContactService creates a new ContactService. email may be nil when
// outbound notifications are disabled.
func NewContactService(repo ContactRepository, email EmailService, logger *slog.Logger) *ContactService {
	return &ContactService{
		repo:   repo,
		email:  email,
		logger: logger,
	}
}

// Submit stores a contact form submission and notifies the site team.
// A notification failure is logged but does not fail the submission.
func (s *ContactService) Submit(ctx context.Context, name, email, company, message string) (*models.Contact, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	message = strings.TrimSpace(message)

	if name == "" || email == "" || message == "" {
		return nil, fmt.Errorf("name, email and message are required: %w", models.ErrBadRequest)
	}

	contact, err := s.repo.Insert(ctx, &models.Contact{
		Name:    name,
		Email:   email,
		Company: strings.TrimSpace(company),
		Message: message,
		Status:  models.ContactStatusPending,
	})
	if err != nil {
		s.logger.Error("failed to store contact submission", slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("contact submission received", slog.String("contact_id", contact.ID))

	if s.email != nil {
		if err := s.email.SendContactNotification(ctx, contact); err != nil {
			s.logger.Warn("contact notification failed",
				slog.String("contact_id", contact.ID),
				slog.Any("error", err))
		}
	}

	return contact, nil
}

// List returns all contact submissions, newest first
func (s *ContactService) List(ctx context.Context) ([]*models.Contact, error) {
	return s.repo.List(ctx)
}

// UpdateStatus moves a submission through the review workflow
func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) error {
	switch status {
	case models.ContactStatusPending, models.ContactStatusReviewed, models.ContactStatusResponded:
	default:
		return fmt.Errorf("invalid contact status %q: %w", status, models.ErrBadRequest)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
