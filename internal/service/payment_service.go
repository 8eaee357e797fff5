package service

import (
	"context"

	"go.uber.org/zap"

	"nr6/internal/domain"
	"nr6/internal/port"
)

// PaymentService handles verified payment provider callbacks.
type PaymentService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	provider     port.PaymentProvider
	filings      port.FilingRepository
	notifier     port.Notifier
	feed         port.ChangeFeed
	adminAddress string
	log          *zap.Logger
}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService(
	provider port.PaymentProvider,
	filings port.FilingRepository,
	notifier port.Notifier,
	feed port.ChangeFeed,
	adminAddress string,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		provider:     provider,
		filings:      filings,
		notifier:     notifier,
		feed:         feed,
		adminAddress: adminAddress,
		log:          log,
	}
}

// HandleWebhook marks the referenced filing paid. Redelivered events for an
// already paid filing are acknowledged without sending notifications again.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	if ev == nil {
		return nil
	}

	f, err := s.filings.GetByID(ctx, ev.FilingID)
	if err != nil {
		return err
	}
	if f.Paid {
		s.log.Info("payment already recorded", zap.String("filing_id", f.ID.String()), zap.String("session_id", ev.SessionID))
		return nil
	}

	if err := s.filings.MarkPaid(ctx, f.ID, ev.PaymentRef); err != nil {
		return err
	}
	s.log.Info("payment recorded", zap.String("filing_id", f.ID.String()), zap.String("payment_ref", ev.PaymentRef))

	publish(ctx, s.feed, s.log, domain.TopicFilings, f.ID)
	notify(ctx, s.notifier, s.log, paidNotices(f, ev.SessionID, s.adminAddress)...)
	return nil
}
