package draft

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"nr6/internal/domain"
	"nr6/internal/port"
)

type memoryStore struct {
	c   *cache.Cache
	ttl time.Duration
}

// NewMemoryStore returns an in-process DraftStore whose slots expire after ttl
// of inactivity.
func NewMemoryStore(ttl time.Duration) port.DraftStore {
	return &memoryStore{
		c:   cache.New(ttl, ttl/2+time.Minute),
		ttl: ttl,
	}
}

func (s *memoryStore) Load(_ context.Context, key string) ([]byte, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	data := v.([]byte)
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *memoryStore) Save(_ context.Context, key string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	s.c.Set(key, buf, s.ttl)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}
