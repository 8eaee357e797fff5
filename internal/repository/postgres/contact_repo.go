package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"nr6/internal/domain"
	"nr6/internal/port"
)

type contactRepo struct {
	db *sqlx.DB
}

// NewContactRepo creates a new PostgreSQL-backed ContactRepository.
func NewContactRepo(db *sqlx.DB) port.ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, c *domain.ContactSubmission) error {
	c.ID = uuid.New()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `INSERT INTO contact_submissions (id, name, email, subject, message, status, replied, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Subject, c.Message, c.Status, c.Replied, c.Notes, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("contactRepo.Create: %w", err)
	}
	return nil
}

func (r *contactRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactSubmission, error) {
	var c domain.ContactSubmission
	err := r.db.GetContext(ctx, &c, "SELECT * FROM contact_submissions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("contactRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *contactRepo) ListAll(ctx context.Context) ([]domain.ContactSubmission, error) {
	contacts := []domain.ContactSubmission{}
	err := r.db.SelectContext(ctx, &contacts, "SELECT * FROM contact_submissions ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("contactRepo.ListAll: %w", err)
	}
	return contacts, nil
}

func (r *contactRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus, replied bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE contact_submissions SET status = $1, replied = $2, updated_at = $3 WHERE id = $4",
		status, replied, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("contactRepo.UpdateStatus: %w", err)
	}
	return expectRow(result, domain.ErrContactNotFound)
}

func (r *contactRepo) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE contact_submissions SET notes = $1, updated_at = $2 WHERE id = $3",
		notes, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("contactRepo.UpdateNotes: %w", err)
	}
	return expectRow(result, domain.ErrContactNotFound)
}
