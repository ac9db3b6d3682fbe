package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/layer-3/catalog/core"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, mappedPort.Port())})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisStore(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	s := NewRedisStore(client)

	exp := time.Now().Add(time.Hour)
	require.NoError(t, s.Revoke(ctx, "j1", exp))

	revoked, err := s.IsRevoked(ctx, "j1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.IsRevoked(ctx, "j2")
	require.NoError(t, err)
	assert.False(t, revoked)

	t.Run("ttl follows expiry", func(t *testing.T) {
		ttl, err := client.TTL(ctx, "catalog:revoked:j1").Result()
		require.NoError(t, err)
		assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)
	})

	t.Run("first revocation wins", func(t *testing.T) {
		require.NoError(t, s.Revoke(ctx, "j1", exp.Add(24*time.Hour)))
		ttl, err := client.TTL(ctx, "catalog:revoked:j1").Result()
		require.NoError(t, err)
		assert.Less(t, ttl, 2*time.Hour)
	})

	t.Run("expired token is not stored", func(t *testing.T) {
		require.NoError(t, s.Revoke(ctx, "j-old", time.Now().Add(-time.Minute)))
		n, err := client.Exists(ctx, "catalog:revoked:j-old").Result()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("empty id", func(t *testing.T) {
		require.ErrorIs(t, s.Revoke(ctx, "", exp), core.ErrInvalidArgument)
	})

	t.Run("claim succeeds once", func(t *testing.T) {
		claimed, err := s.Claim(ctx, "r1", exp)
		require.NoError(t, err)
		assert.True(t, claimed)

		claimed, err = s.Claim(ctx, "r1", exp)
		require.NoError(t, err)
		assert.False(t, claimed)

		claimed, err = s.Claim(ctx, "j1", exp)
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("sweep is a no-op", func(t *testing.T) {
		removed, err := s.SweepExpired(ctx, time.Now().Add(48*time.Hour))
		require.NoError(t, err)
		assert.Zero(t, removed)
	})
}

func TestRedisStore_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()
	s := NewRedisStore(client)

	_, err := s.IsRevoked(context.Background(), "j1")
	require.Error(t, err)

	err = s.Revoke(context.Background(), "j1", time.Now().Add(time.Hour))
	require.Error(t, err)

	_, err = s.Claim(context.Background(), "j1", time.Now().Add(time.Hour))
	require.Error(t, err)
}
