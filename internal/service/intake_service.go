package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nr6/internal/calculator"
	"nr6/internal/domain"
	"nr6/internal/port"
	"nr6/internal/wizard"
)

// SubmitResult is returned once an intake record has been stored.
type SubmitResult struct {
	FilingID    uuid.UUID      `json:"filing_id"`
	OrderNumber string         `json:"order_number"`
	CheckoutURL string         `json:"checkout_url"`
	Savings     domain.Savings `json:"savings"`
}

// OrderInfo is the confirmation page view of a checkout reference.
type OrderInfo struct {
	Reference   string              `json:"reference"`
	OrderNumber string              `json:"order_number"`
	Status      domain.FilingStatus `json:"status,omitempty"`
	Paid        bool                `json:"paid"`
}

// IntakeService turns a completed wizard into a stored filing and a checkout.
type IntakeService interface {
	Submit(ctx context.Context, sessionID string) (*SubmitResult, error)
	Checkout(ctx context.Context, filingID uuid.UUID) (*SubmitResult, error)
	Order(ctx context.Context, reference string) (*OrderInfo, error)
}

type intakeService struct {
	wizards      WizardService
	filings      port.FilingRepository
	storage      port.ObjectStorage
	payments     port.PaymentProvider
	notifier     port.Notifier
	feed         port.ChangeFeed
	adminAddress string
	log          *zap.Logger
}

// NewIntakeService creates a new IntakeService implementation.
func NewIntakeService(
	wizards WizardService,
	filings port.FilingRepository,
	storage port.ObjectStorage,
	payments port.PaymentProvider,
	notifier port.Notifier,
	feed port.ChangeFeed,
	adminAddress string,
	log *zap.Logger,
) IntakeService {
	return &intakeService{
		wizards:      wizards,
		filings:      filings,
		storage:      storage,
		payments:     payments,
		notifier:     notifier,
		feed:         feed,
		adminAddress: adminAddress,
		log:          log,
	}
}

// Submit stores the session's record. Any storage failure leaves the wizard
// and its draft in place and returns ErrSubmissionFailed so the user can
// retry. A failed checkout does not fail the submission.
func (s *intakeService) Submit(ctx context.Context, sessionID string) (*SubmitResult, error) {
	var filing *domain.Filing
	err := s.wizards.With(ctx, sessionID, func(w *wizard.Wizard) error {
		if w.Step() != wizard.StepPayment {
			return domain.ErrWizardIncomplete
		}
		rec := w.Record()
		if !rec.CheckboxConfirm {
			return domain.ErrAcknowledgementRequired
		}

		savings := calculator.Calculate(rec)
		if err := calculator.CheckInvariant(savings); err != nil {
			return fmt.Errorf("intake.Submit: %w", err)
		}

		f := &domain.Filing{
			FilingData: rec,
			Savings:    savings,
			Status:     domain.FilingStatusNew,
		}
		if a := w.Attachment(); a != nil {
			obj, err := s.upload(ctx, a)
			if err != nil {
				s.log.Error("attachment upload failed", zap.String("session_id", sessionID), zap.Error(err))
				return fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
			}
			f.FileURL = &obj.URL
			f.FileKey = &obj.Key
		}

		if err := s.filings.Create(ctx, f); err != nil {
			s.log.Error("storing filing failed", zap.String("session_id", sessionID), zap.Error(err))
			if f.FileKey != nil {
				if derr := s.storage.Delete(ctx, *f.FileKey); derr != nil {
					s.log.Warn("removing orphaned attachment failed", zap.String("key", *f.FileKey), zap.Error(derr))
				}
			}
			return fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
		}

		if err := w.Reset(ctx); err != nil {
			s.log.Warn("clearing wizard draft failed", zap.String("session_id", sessionID), zap.Error(err))
		}
		filing = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wizards.Drop(sessionID)
	publish(ctx, s.feed, s.log, domain.TopicFilings, filing.ID)
	s.log.Info("filing submitted", zap.String("filing_id", filing.ID.String()))

	res := s.checkout(ctx, filing)
	if !s.payments.Live() {
		notify(ctx, s.notifier, s.log, paidNotices(filing, filing.ID.String(), s.adminAddress)...)
	}
	return res, nil
}

// Checkout requests a fresh checkout session for an unpaid filing.
func (s *intakeService) Checkout(ctx context.Context, filingID uuid.UUID) (*SubmitResult, error) {
	f, err := s.filings.GetByID(ctx, filingID)
	if err != nil {
		return nil, err
	}
	if f.Paid {
		return nil, domain.ErrFilingAlreadyPaid
	}
	res := s.checkout(ctx, f)
	if res.CheckoutURL == "" {
		return nil, domain.ErrPaymentUnavailable
	}
	return res, nil
}

func (s *intakeService) Order(ctx context.Context, reference string) (*OrderInfo, error) {
	info := &OrderInfo{Reference: reference, OrderNumber: domain.OrderNumber(reference)}
	id, err := uuid.Parse(reference)
	if err != nil {
		return info, nil
	}
	f, err := s.filings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrFilingNotFound) {
			return info, nil
		}
		return nil, err
	}
	info.Status = f.Status
	info.Paid = f.Paid
	return info, nil
}

func (s *intakeService) checkout(ctx context.Context, f *domain.Filing) *SubmitResult {
	res := &SubmitResult{
		FilingID:    f.ID,
		OrderNumber: domain.OrderNumber(f.ID.String()),
		Savings:     f.Savings,
	}

	sess, err := s.payments.CreateCheckoutSession(ctx, port.CheckoutRequest{
		FilingID:           f.ID,
		PropertyAddress:    f.PropertyAddress,
		FullName:           f.FullName,
		Email:              f.Email,
		Phone:              f.Phone,
		CountryOfResidence: f.CountryOfResidence,
		Gross:              f.Gross,
		ExpensesTotal:      f.ExpensesTotal,
		EstimatedSavings:   f.EstimatedSavings,
	})
	if err != nil {
		s.log.Warn("creating checkout session failed", zap.String("filing_id", f.ID.String()), zap.Error(err))
		return res
	}
	res.CheckoutURL = sess.URL
	res.OrderNumber = domain.OrderNumber(sess.ID)
	return res
}

func (s *intakeService) upload(ctx context.Context, a *wizard.Attachment) (*port.StoredObject, error) {
	key := fmt.Sprintf("filings/%s/%s", uuid.New(), a.Filename)
	obj, err := s.storage.Upload(ctx, key, a.ContentType, bytes.NewReader(a.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	return obj, nil
}
