package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/layer-3/catalog/adapters/credentials"
	"github.com/layer-3/catalog/adapters/store"
	"github.com/layer-3/catalog/adapters/tokenizer"
	"github.com/layer-3/catalog/core"
	"github.com/layer-3/catalog/ports"
)

const (
	testIssuer   = "catalog"
	testAudience = "catalog-users"
)

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	testParams = credentials.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishRevocation(ctx context.Context, subject string, tokenID string, expiresAt time.Time) error {
	args := m.Called(ctx, subject, tokenID, expiresAt)
	return args.Error(0)
}

type mockCredentials struct {
	mock.Mock
}

func (m *mockCredentials) Authenticate(ctx context.Context, username string, password string) (core.Role, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(core.Role), args.Error(1)
}

func (m *mockCredentials) Role(ctx context.Context, username string) (core.Role, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(core.Role), args.Error(1)
}

type testEnv struct {
	clock   *fakeClock
	codec   *tokenizer.JWTTokenizer
	store   *store.MemoryStore
	service *AuthService
}

func newTestEnv(t *testing.T, cfg Config, creds ports.CredentialStore, pub *mockPublisher) *testEnv {
	t.Helper()

	clock := newFakeClock()
	codec := tokenizer.NewJWTTokenizer(testSecret, tokenizer.WithClock(clock.Now))
	revocations := store.NewMemoryStore()

	if creds == nil {
		memCreds, err := credentials.NewMemoryStore(credentials.DefaultUsers, testParams)
		require.NoError(t, err)
		creds = memCreds
	}

	cfg.Issuer = testIssuer
	cfg.Audience = testAudience
	cfg.Now = clock.Now

	deps := Dependencies{
		Codec:       codec,
		Revocations: revocations,
		Credentials: creds,
		Logger:      zap.NewNop(),
	}
	if pub != nil {
		deps.Events = pub
	}

	return &testEnv{
		clock:   clock,
		codec:   codec,
		store:   revocations,
		service: NewAuthService(deps, cfg),
	}
}
