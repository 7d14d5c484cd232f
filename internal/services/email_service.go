package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/pylink-dev/portal/internal/models"
)

// EmailService defines the interface for sending emails
type EmailService interface {
	SendContactNotification(ctx context.Context, contact *models.Contact) error
}

// AWSSESEmailService sends emails using AWS SES
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	recipient   string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service
func NewAWSSESEmailService(region, fromAddress, recipient string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		recipient:   recipient,
		logger:      logger,
	}, nil
}

// SendContactNotification notifies the site team about a new contact
// form submission
func (s *AWSSESEmailService) SendContactNotification(ctx context.Context, contact *models.Contact) error {
	subject := fmt.Sprintf("New contact form submission from %s", contact.Name)

	textBody := fmt.Sprintf(`A new contact form submission arrived.

Name: %s
Email: %s
Company: %s

Message:
%s

Submitted at: %s
`, contact.Name, contact.Email, contact.Company, contact.Message, contact.CreatedAt.Format("2006-01-02 15:04 MST"))

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{s.recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send contact notification via SES",
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("contact notification sent",
		slog.String("message_id", *result.MessageId))

	return nil
}
