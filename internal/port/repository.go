package port

import (
	"context"

	"github.com/google/uuid"

	"nr6/internal/domain"
)

// FilingRepository defines the contract for filing persistence.
// Create assigns the ID and timestamps; list results are ordered by created_at DESC.
type FilingRepository interface {
	Create(ctx context.Context, filing *domain.Filing) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Filing, error)
	ListAll(ctx context.Context) ([]domain.Filing, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FilingStatus) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) error
}

// ContactRepository defines the contract for contact-form persistence.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.ContactSubmission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactSubmission, error)
	ListAll(ctx context.Context) ([]domain.ContactSubmission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus, replied bool) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
}

// AdminUserRepository defines the contract for back-office account persistence.
type AdminUserRepository interface {
	Create(ctx context.Context, user *domain.AdminUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
}
