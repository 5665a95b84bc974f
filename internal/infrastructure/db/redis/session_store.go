package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userhub/user-management/internal/core/domain"
)

// SessionStore tracks issued token ids in Redis.
// Key format: session:<jti> -> user id, expiring with the token TTL so
// stale sessions clean themselves up.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, jti string, userID int64, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(jti), userID, ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, jti string) (int64, error) {
	val, err := s.client.Get(ctx, s.key(jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrSessionNotFound
		}
		return 0, fmt.Errorf("session get: %w", err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("session get: corrupt value %q", val)
	}
	return userID, nil
}

func (s *SessionStore) Revoke(ctx context.Context, jti string) error {
	n, err := s.client.Del(ctx, s.key(jti)).Result()
	if err != nil {
		return fmt.Errorf("session revoke: %w", err)
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) key(jti string) string {
	return "session:" + jti
}
