package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/layer-3/catalog/core"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of ports.RevocationStore.
// Entries carry a TTL matching the token expiry, so Redis evicts them itself.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a new Redis store
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "catalog:revoked:",
		now:    time.Now,
	}
}

// Revoke marks a token as revoked in Redis
func (s *RedisStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := s.Claim(ctx, tokenID, expiresAt)
	return err
}

// Claim sets the key with NX, a nil reply means another caller revoked it first.
// An already expired token cannot be claimed.
func (s *RedisStore) Claim(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error) {
	if tokenID == "" {
		return false, fmt.Errorf("revoke token: %w", core.ErrInvalidArgument)
	}

	if !expiresAt.After(s.now()) {
		return false, nil
	}

	err := s.client.SetArgs(ctx, s.prefix+tokenID, "1", redis.SetArgs{
		Mode:     "NX",
		ExpireAt: expiresAt,
	}).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to revoke token: %w", err)
	}

	return true, nil
}

// IsRevoked checks if a token is revoked in Redis
func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	val, err := s.client.Exists(ctx, s.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}

	return val > 0, nil
}

// SweepExpired is a no-op, expiry is handled by key TTLs
func (s *RedisStore) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}
