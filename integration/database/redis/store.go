package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/dispatch/core/session"
)

// Store keeps sessions in Redis as JSON values with a TTL. It satisfies
// session.Store and is safe for concurrent use.
type Store[Data any] struct {
	client redis.UniversalClient
	prefix string
}

var _ session.Store[struct{}] = (*Store[struct{}])(nil)

// NewStore creates a Store. An empty prefix defaults to "session:".
func NewStore[Data any](client redis.UniversalClient, prefix string) *Store[Data] {
	if prefix == "" {
		prefix = "session:"
	}
	return &Store[Data]{client: client, prefix: prefix}
}

// Key returns the Redis key holding the session id.
func (s *Store[Data]) Key(id string) string { return s.prefix + id }

func (s *Store[Data]) Get(ctx context.Context, id string) (Data, bool, error) {
	var data Data
	raw, err := s.client.Get(ctx, s.Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return data, false, nil
	}
	if err != nil {
		return data, false, err
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, false, errors.Join(ErrDecodeSession, err)
	}
	return data, true, nil
}

func (s *Store[Data]) Set(ctx context.Context, id string, data Data, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Join(ErrEncodeSession, err)
	}
	return s.client.Set(ctx, s.Key(id), raw, ttl).Err()
}

func (s *Store[Data]) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.Key(id)).Err()
}

func (s *Store[Data]) GenerateID() string        { return session.GenerateID() }
func (s *Store[Data]) ValidateID(id string) bool { return session.ValidateID(id) }
