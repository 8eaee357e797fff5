package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nr6/internal/domain"
	"nr6/internal/port"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a DraftStore backed by Redis string keys with a TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) port.DraftStore {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Load(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("loading draft: %w", err)
	}
	return raw, nil
}

func (s *redisStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	return nil
}
