package port

import (
	"context"

	"nr6/internal/domain"
)

// Notifier delivers outbound customer and back-office notifications.
type Notifier interface {
	Send(ctx context.Context, n domain.Notification) error
}
