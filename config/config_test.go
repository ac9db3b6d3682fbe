package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr string
		check   func(*testing.T, *Config)
	}{
		{
			name:    "default configuration",
			envVars: map[string]string{"JWT_SECRET": testSecret},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":9000", cfg.Server.Addr)
				assert.Equal(t, "catalog", cfg.Auth.Issuer)
				assert.Equal(t, "catalog-users", cfg.Auth.Audience)
				assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
				assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL)
				assert.False(t, cfg.Auth.RotateRefreshTokens)
				assert.Equal(t, time.Hour, cfg.Auth.SweepInterval)
				assert.Equal(t, "memory", cfg.Redis.RevocationBackend)
				assert.Equal(t, "none", cfg.Redis.EventsBackend)
				assert.False(t, cfg.UsesRedis())
				assert.Equal(t, 5, cfg.RateLimit.Requests)
				assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
				assert.Nil(t, cfg.Server.TrustedProxies)
			},
		},
		{
			name: "overrides",
			envVars: map[string]string{
				"JWT_SECRET":                 testSecret,
				"ACCESS_TOKEN_TTL":           "5m",
				"AUTH_ROTATE_REFRESH_TOKENS": "true",
				"REVOCATION_BACKEND":         "Redis",
				"EVENTS_BACKEND":             "redis",
				"TRUSTED_PROXIES":            "10.0.0.0/8, 192.168.0.1",
				"ENVIRONMENT":                "production",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
				assert.True(t, cfg.Auth.RotateRefreshTokens)
				assert.Equal(t, "redis", cfg.Redis.RevocationBackend)
				assert.True(t, cfg.UsesRedis())
				assert.True(t, cfg.IsProduction())
				assert.Equal(t, []string{"10.0.0.0/8", "192.168.0.1"}, cfg.Server.TrustedProxies)
			},
		},
		{
			name:    "missing secret",
			envVars: map[string]string{},
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "short secret",
			envVars: map[string]string{"JWT_SECRET": "too-short"},
			wantErr: "at least 32 bytes",
		},
		{
			name:    "refresh shorter than access",
			envVars: map[string]string{"JWT_SECRET": testSecret, "REFRESH_TOKEN_TTL": "1m"},
			wantErr: "REFRESH_TOKEN_TTL",
		},
		{
			name:    "unknown backend",
			envVars: map[string]string{"JWT_SECRET": testSecret, "REVOCATION_BACKEND": "postgres"},
			wantErr: "REVOCATION_BACKEND",
		},
		{
			name:    "unknown events backend",
			envVars: map[string]string{"JWT_SECRET": testSecret, "EVENTS_BACKEND": "kafka"},
			wantErr: "EVENTS_BACKEND",
		},
		{
			name:    "invalid duration falls back to default",
			envVars: map[string]string{"JWT_SECRET": testSecret, "SWEEP_INTERVAL": "soon"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, time.Hour, cfg.Auth.SweepInterval)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{
				"JWT_SECRET", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "AUTH_ROTATE_REFRESH_TOKENS",
				"REVOCATION_BACKEND", "EVENTS_BACKEND", "TRUSTED_PROXIES", "ENVIRONMENT", "SWEEP_INTERVAL",
			} {
				t.Setenv(key, "")
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestConfigErrorDoesNotLeakSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("REVOCATION_BACKEND", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testSecret)
}

func TestListensForRevocations(t *testing.T) {
	tests := []struct {
		revocations string
		events      string
		want        bool
	}{
		{"memory", "redis", true},
		{"redis", "redis", false},
		{"memory", "none", false},
		{"redis", "none", false},
	}

	for _, tt := range tests {
		cfg := &Config{Redis: RedisConfig{RevocationBackend: tt.revocations, EventsBackend: tt.events}}
		assert.Equal(t, tt.want, cfg.ListensForRevocations(), "%s/%s", tt.revocations, tt.events)
	}
}
