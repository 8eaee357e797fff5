package port

import (
	"context"

	"nr6/internal/domain"
)

// Disposer releases a subscription. Calling it more than once is a no-op.
type Disposer func()

// ChangeFeed fans out collection change events to live subscribers.
type ChangeFeed interface {
	Publish(ctx context.Context, event domain.Event) error
	Subscribe(topic domain.Topic) (<-chan domain.Event, Disposer, error)
}
