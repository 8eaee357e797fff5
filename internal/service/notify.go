package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nr6/internal/domain"
	"nr6/internal/port"
)

// notify sends each notification and logs failures. Delivery problems never
// fail the operation that triggered them.
func notify(ctx context.Context, n port.Notifier, log *zap.Logger, msgs ...domain.Notification) {
	if n == nil {
		return
	}
	for _, m := range msgs {
		if m.To == "" {
			continue
		}
		if err := n.Send(ctx, m); err != nil {
			log.Warn("notification failed",
				zap.String("kind", string(m.Kind)),
				zap.String("to", m.To),
				zap.Error(err),
			)
		}
	}
}

// paidNotices are sent once a filing is paid for: a confirmation to the
// customer and an alert to the back office.
func paidNotices(f *domain.Filing, reference, adminAddress string) []domain.Notification {
	savings := f.EstimatedSavings
	data := domain.NotificationData{
		OrderID:          domain.OrderNumber(reference),
		CustomerName:     f.FullName,
		PropertyAddress:  f.PropertyAddress,
		EstimatedSavings: &savings,
	}
	return []domain.Notification{
		{Kind: domain.NotificationCustomerConfirmation, To: f.Email, Data: data},
		{Kind: domain.NotificationAdminNotification, To: adminAddress, Data: data},
	}
}

func publish(ctx context.Context, feed port.ChangeFeed, log *zap.Logger, topic domain.Topic, id uuid.UUID) {
	if feed == nil {
		return
	}
	if err := feed.Publish(ctx, domain.Event{Topic: topic, ID: id}); err != nil {
		log.Warn("publishing change failed", zap.String("topic", string(topic)), zap.Error(err))
	}
}
