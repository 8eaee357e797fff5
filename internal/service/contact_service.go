package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nr6/internal/domain"
	"nr6/internal/port"
	"nr6/internal/sanitize"
)

// ContactInput is the DTO for the public contact form.
type ContactInput struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email,max=254"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// ContactService stores contact-form messages.
type ContactService interface {
	Submit(ctx context.Context, input ContactInput) (*domain.ContactSubmission, error)
}

type contactService struct {
	contacts     port.ContactRepository
	notifier     port.Notifier
	feed         port.ChangeFeed
	adminAddress string
	log          *zap.Logger
}

// NewContactService creates a new ContactService implementation.
func NewContactService(
	contacts port.ContactRepository,
	notifier port.Notifier,
	feed port.ChangeFeed,
	adminAddress string,
	log *zap.Logger,
) ContactService {
	return &contactService{
		contacts:     contacts,
		notifier:     notifier,
		feed:         feed,
		adminAddress: adminAddress,
		log:          log,
	}
}

func (s *contactService) Submit(ctx context.Context, input ContactInput) (*domain.ContactSubmission, error) {
	c := &domain.ContactSubmission{
		Name:    sanitize.Text(input.Name),
		Email:   sanitize.Text(input.Email),
		Subject: sanitize.Text(input.Subject),
		Message: sanitize.Text(input.Message),
		Status:  domain.ContactStatusNew,
	}
	if c.Name == "" || c.Subject == "" || c.Message == "" {
		return nil, fmt.Errorf("%w: contact fields are empty after sanitizing", domain.ErrInvalidInput)
	}

	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("contact.Submit: %w", err)
	}

	publish(ctx, s.feed, s.log, domain.TopicContacts, c.ID)
	notify(ctx, s.notifier, s.log, domain.Notification{
		Kind: domain.NotificationContactReceived,
		To:   s.adminAddress,
		Data: domain.NotificationData{
			CustomerName: c.Name,
			Email:        c.Email,
			Subject:      c.Subject,
			Message:      c.Message,
		},
	})
	return c, nil
}
