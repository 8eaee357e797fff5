package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nr6/internal/admin"
	"nr6/internal/domain"
	"nr6/internal/port"
	"nr6/internal/sanitize"
)

// StatusInput is the DTO for status changes.
type StatusInput struct {
	Status string `json:"status" binding:"required"`
}

// NotesInput is the DTO for internal note edits.
type NotesInput struct {
	Notes string `json:"notes" binding:"max=10000"`
}

// DashboardStats are the per-status counters shown above the admin tables.
type DashboardStats struct {
	Filings     map[domain.FilingStatus]int  `json:"filings"`
	Contacts    map[domain.ContactStatus]int `json:"contacts"`
	NewContacts int                          `json:"new_contacts"`
	TotalPaid   int                          `json:"total_paid"`
}

// AdminService is the back-office contract. It is also the admin.View backend.
type AdminService interface {
	admin.Backend
	GetFiling(ctx context.Context, id uuid.UUID) (*domain.Filing, error)
	GetContact(ctx context.Context, id uuid.UUID) (*domain.ContactSubmission, error)
	AttachmentURL(ctx context.Context, id uuid.UUID) (string, error)
	Stats(ctx context.Context) (*DashboardStats, error)
}

type adminService struct {
	filings  port.FilingRepository
	contacts port.ContactRepository
	storage  port.ObjectStorage
	notifier port.Notifier
	feed     port.ChangeFeed
	log      *zap.Logger
}

// NewAdminService creates a new AdminService implementation.
func NewAdminService(
	filings port.FilingRepository,
	contacts port.ContactRepository,
	storage port.ObjectStorage,
	notifier port.Notifier,
	feed port.ChangeFeed,
	log *zap.Logger,
) AdminService {
	return &adminService{
		filings:  filings,
		contacts: contacts,
		storage:  storage,
		notifier: notifier,
		feed:     feed,
		log:      log,
	}
}

func (s *adminService) ListFilings(ctx context.Context) ([]domain.Filing, error) {
	return s.filings.ListAll(ctx)
}

func (s *adminService) ListContacts(ctx context.Context) ([]domain.ContactSubmission, error) {
	return s.contacts.ListAll(ctx)
}

func (s *adminService) GetFiling(ctx context.Context, id uuid.UUID) (*domain.Filing, error) {
	return s.filings.GetByID(ctx, id)
}

func (s *adminService) GetContact(ctx context.Context, id uuid.UUID) (*domain.ContactSubmission, error) {
	return s.contacts.GetByID(ctx, id)
}

// UpdateFilingStatus stores the new status and tells the customer about it.
func (s *adminService) UpdateFilingStatus(ctx context.Context, id uuid.UUID, status domain.FilingStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	f, err := s.filings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.filings.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("admin.UpdateFilingStatus: %w", err)
	}
	publish(ctx, s.feed, s.log, domain.TopicFilings, id)

	if f.Status != status {
		notify(ctx, s.notifier, s.log, domain.Notification{
			Kind: domain.NotificationStatusUpdate,
			To:   f.Email,
			Data: domain.NotificationData{
				OrderID:         domain.OrderNumber(f.ID.String()),
				CustomerName:    f.FullName,
				PropertyAddress: f.PropertyAddress,
				Status:          string(status),
			},
		})
	}
	return nil
}

func (s *adminService) UpdateFilingNotes(ctx context.Context, id uuid.UUID, notes string) error {
	if err := s.filings.UpdateNotes(ctx, id, sanitize.Text(notes)); err != nil {
		return err
	}
	publish(ctx, s.feed, s.log, domain.TopicFilings, id)
	return nil
}

// UpdateContactStatus derives the replied flag: anything past new counts as replied.
func (s *adminService) UpdateContactStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	if err := s.contacts.UpdateStatus(ctx, id, status, status != domain.ContactStatusNew); err != nil {
		return err
	}
	publish(ctx, s.feed, s.log, domain.TopicContacts, id)
	return nil
}

func (s *adminService) UpdateContactNotes(ctx context.Context, id uuid.UUID, notes string) error {
	if err := s.contacts.UpdateNotes(ctx, id, sanitize.Text(notes)); err != nil {
		return err
	}
	publish(ctx, s.feed, s.log, domain.TopicContacts, id)
	return nil
}

// AttachmentURL returns a short-lived download link for the filing's document.
func (s *adminService) AttachmentURL(ctx context.Context, id uuid.UUID) (string, error) {
	f, err := s.filings.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if f.FileKey == nil || *f.FileKey == "" {
		return "", fmt.Errorf("%w: filing has no attachment", domain.ErrNotFound)
	}
	return s.storage.PresignGet(ctx, *f.FileKey)
}

func (s *adminService) Stats(ctx context.Context) (*DashboardStats, error) {
	filings, err := s.filings.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	contacts, err := s.contacts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	st := &DashboardStats{
		Filings:  make(map[domain.FilingStatus]int, len(domain.ValidFilingStatuses)),
		Contacts: map[domain.ContactStatus]int{},
	}
	for _, fs := range domain.ValidFilingStatuses {
		st.Filings[fs] = 0
	}
	for _, cs := range []domain.ContactStatus{domain.ContactStatusNew, domain.ContactStatusReplied, domain.ContactStatusResolved} {
		st.Contacts[cs] = 0
	}
	for i := range filings {
		st.Filings[filings[i].Status]++
		if filings[i].Paid {
			st.TotalPaid++
		}
	}
	for i := range contacts {
		st.Contacts[contacts[i].Status]++
	}
	st.NewContacts = st.Contacts[domain.ContactStatusNew]
	return st, nil
}
