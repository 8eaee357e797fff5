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

type filingRepo struct {
	db *sqlx.DB
}

// NewFilingRepo creates a new PostgreSQL-backed FilingRepository.
func NewFilingRepo(db *sqlx.DB) port.FilingRepository {
	return &filingRepo{db: db}
}

func (r *filingRepo) Create(ctx context.Context, f *domain.Filing) error {
	f.ID = uuid.New()
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	query := `INSERT INTO filings (id,
		property_address, ownership_percentage, rental_type, first_rental_year,
		monthly_rent, months_rented, property_manager_fee,
		mortgage_interest, property_tax, condo_fees, repairs, insurance, other_expenses,
		full_name, email, phone, country_of_residence, checkbox_confirm,
		gross, expenses_total, net, withholding_default, withholding_reduced, estimated_savings,
		status, stripe_payment_id, paid, notes, file_url, file_key, created_at, updated_at)
		VALUES (:id,
		:property_address, :ownership_percentage, :rental_type, :first_rental_year,
		:monthly_rent, :months_rented, :property_manager_fee,
		:mortgage_interest, :property_tax, :condo_fees, :repairs, :insurance, :other_expenses,
		:full_name, :email, :phone, :country_of_residence, :checkbox_confirm,
		:gross, :expenses_total, :net, :withholding_default, :withholding_reduced, :estimated_savings,
		:status, :stripe_payment_id, :paid, :notes, :file_url, :file_key, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("filingRepo.Create: %w", err)
	}
	return nil
}

func (r *filingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Filing, error) {
	var f domain.Filing
	err := r.db.GetContext(ctx, &f, "SELECT * FROM filings WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFilingNotFound
		}
		return nil, fmt.Errorf("filingRepo.GetByID: %w", err)
	}
	return &f, nil
}

func (r *filingRepo) ListAll(ctx context.Context) ([]domain.Filing, error) {
	filings := []domain.Filing{}
	err := r.db.SelectContext(ctx, &filings, "SELECT * FROM filings ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("filingRepo.ListAll: %w", err)
	}
	return filings, nil
}

func (r *filingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FilingStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE filings SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("filingRepo.UpdateStatus: %w", err)
	}
	return expectRow(result, domain.ErrFilingNotFound)
}

func (r *filingRepo) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE filings SET notes = $1, updated_at = $2 WHERE id = $3",
		notes, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("filingRepo.UpdateNotes: %w", err)
	}
	return expectRow(result, domain.ErrFilingNotFound)
}

// MarkPaid records a completed payment. A filing that has already moved past
// "new" keeps its workflow status.
func (r *filingRepo) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE filings SET paid = TRUE, stripe_payment_id = $1,
			status = CASE WHEN status = 'new' THEN 'paid' ELSE status END,
			updated_at = $2
		WHERE id = $3`,
		paymentRef, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("filingRepo.MarkPaid: %w", err)
	}
	return expectRow(result, domain.ErrFilingNotFound)
}

func expectRow(result sql.Result, notFound error) error {
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound
	}
	return nil
}
