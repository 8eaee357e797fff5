// Package feed fans collection change signals out to live admin views.
package feed

import (
	"context"
	"sync"

	"nr6/internal/domain"
	"nr6/internal/port"
)

// Hub is the in-process ChangeFeed. Each subscriber channel holds at most one
// pending event; further events for a subscriber that has not caught up are
// coalesced into the pending one, since subscribers reload the whole
// collection on every signal.
type Hub struct {
	mu   sync.Mutex
	subs map[domain.Topic]map[*subscription]struct{}
}

type subscription struct {
	ch   chan domain.Event
	once sync.Once
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[domain.Topic]map[*subscription]struct{})}
}

var _ port.ChangeFeed = (*Hub)(nil)

// Publish delivers event to every current subscriber of its topic.
func (h *Hub) Publish(_ context.Context, event domain.Event) error {
	h.deliver(event)
	return nil
}

func (h *Hub) deliver(event domain.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[event.Topic] {
		select {
		case s.ch <- event:
		default:
		}
	}
}

// Subscribe registers a subscriber for topic. The channel is closed by the
// disposer; nothing is sent on it afterwards.
func (h *Hub) Subscribe(topic domain.Topic) (<-chan domain.Event, port.Disposer, error) {
	s := &subscription{ch: make(chan domain.Event, 1)}

	h.mu.Lock()
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*subscription]struct{})
	}
	h.subs[topic][s] = struct{}{}
	h.mu.Unlock()

	dispose := func() {
		s.once.Do(func() {
			h.mu.Lock()
			delete(h.subs[topic], s)
			if len(h.subs[topic]) == 0 {
				delete(h.subs, topic)
			}
			close(s.ch)
			h.mu.Unlock()
		})
	}
	return s.ch, dispose, nil
}

// Subscribers returns the number of live subscriptions on topic.
func (h *Hub) Subscribers(topic domain.Topic) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[topic])
}
