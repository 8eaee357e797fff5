package noop

import (
	"context"

	"go.uber.org/zap"

	"nr6/internal/domain"
	"nr6/internal/email"
	"nr6/internal/port"
)

type noopSender struct {
	log         *zap.Logger
	frontendURL string
}

// NewNoopSender creates a Notifier that only logs what it would have sent.
func NewNoopSender(log *zap.Logger, frontendURL string) port.Notifier {
	return &noopSender{log: log, frontendURL: frontendURL}
}

func (s *noopSender) Send(_ context.Context, n domain.Notification) error {
	msg, err := email.Render(n, s.frontendURL)
	if err != nil {
		return err
	}
	s.log.Info("noop email",
		zap.String("kind", string(n.Kind)),
		zap.String("to", n.To),
		zap.String("subject", msg.Subject),
		zap.String("order_id", n.Data.OrderID),
	)
	return nil
}
