package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"nr6/internal/domain"
	"nr6/internal/port"
)

// RedisBridge relays change events between instances over Redis pub/sub.
// Publish goes to Redis only; every instance, including the publisher,
// delivers to its local hub when the message comes back on the channel.
type RedisBridge struct {
	hub     *Hub
	client  *redis.Client
	channel string
	log     *zap.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub
	done   chan struct{}
}

// NewRedisBridge wraps hub with a Redis relay on channel.
func NewRedisBridge(hub *Hub, client *redis.Client, channel string, log *zap.Logger) *RedisBridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisBridge{hub: hub, client: client, channel: channel, log: log}
}

var _ port.ChangeFeed = (*RedisBridge)(nil)

// Start subscribes to the channel and relays messages until ctx is done or
// Close is called. It returns once the subscription is confirmed.
func (b *RedisBridge) Start(ctx context.Context) error {
	ps := b.client.Subscribe(ctx, b.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return fmt.Errorf("subscribing to %s: %w", b.channel, err)
	}

	b.mu.Lock()
	b.pubsub = ps
	b.done = make(chan struct{})
	b.mu.Unlock()

	go b.relay(ctx, ps)
	return nil
}

func (b *RedisBridge) relay(ctx context.Context, ps *redis.PubSub) {
	defer close(b.done)
	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn("dropping malformed change event", zap.String("payload", msg.Payload), zap.Error(err))
				continue
			}
			b.hub.deliver(ev)
		}
	}
}

// Publish sends event to every instance. If Redis is unreachable the event is
// still delivered locally and the error is returned.
func (b *RedisBridge) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.hub.deliver(event)
		return fmt.Errorf("publishing change event: %w", err)
	}
	return nil
}

// Subscribe registers a local subscriber.
func (b *RedisBridge) Subscribe(topic domain.Topic) (<-chan domain.Event, port.Disposer, error) {
	return b.hub.Subscribe(topic)
}

// Close stops the relay and waits for it to exit.
func (b *RedisBridge) Close() error {
	b.mu.Lock()
	ps, done := b.pubsub, b.done
	b.pubsub = nil
	b.mu.Unlock()
	if ps == nil {
		return nil
	}
	err := ps.Close()
	<-done
	return err
}
