package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSecretLength = 32

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Auth          AuthConfig
	Redis         RedisConfig
	RateLimit     RateLimitConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedProxies  []string
}

// AuthConfig holds token settings. Secret must never be logged.
type AuthConfig struct {
	Secret              []byte
	Issuer              string
	Audience            string
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	RotateRefreshTokens bool
	SweepInterval       time.Duration
}

// RedisConfig selects the revocation and event backends
type RedisConfig struct {
	URL               string
	RevocationBackend string // memory or redis
	EventsBackend     string // none or redis
}

// RateLimitConfig limits login and refresh attempts per client IP
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Burst    int
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// Load reads the configuration from the environment, after loading .env when present
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Addr:            getEnv("SERVER_ADDR", ":9000"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			TrustedProxies:  getEnvAsList("TRUSTED_PROXIES"),
		},
		Auth: AuthConfig{
			Secret:              []byte(os.Getenv("JWT_SECRET")),
			Issuer:              getEnv("JWT_ISSUER", "catalog"),
			Audience:            getEnv("JWT_AUDIENCE", "catalog-users"),
			AccessTokenTTL:      getEnvAsDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTokenTTL:     getEnvAsDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
			RotateRefreshTokens: getEnvAsBool("AUTH_ROTATE_REFRESH_TOKENS", false),
			SweepInterval:       getEnvAsDuration("SWEEP_INTERVAL", time.Hour),
		},
		Redis: RedisConfig{
			URL:               getEnv("REDIS_URL", "redis://localhost:6379/0"),
			RevocationBackend: strings.ToLower(getEnv("REVOCATION_BACKEND", "memory")),
			EventsBackend:     strings.ToLower(getEnv("EVENTS_BACKEND", "none")),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvAsInt("LOGIN_RATE_LIMIT_REQUESTS", 5),
			Window:   getEnvAsDuration("LOGIN_RATE_LIMIT_WINDOW", time.Minute),
			Burst:    getEnvAsInt("LOGIN_RATE_LIMIT_BURST", 5),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if len(c.Auth.Secret) == 0 {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.Auth.Secret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.Auth.Issuer == "" || c.Auth.Audience == "" {
		return errors.New("JWT_ISSUER and JWT_AUDIENCE must not be empty")
	}
	if c.Auth.AccessTokenTTL < time.Second {
		return errors.New("ACCESS_TOKEN_TTL must be at least one second")
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		return errors.New("REFRESH_TOKEN_TTL must be longer than ACCESS_TOKEN_TTL")
	}

	switch c.Redis.RevocationBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown REVOCATION_BACKEND %q", c.Redis.RevocationBackend)
	}
	switch c.Redis.EventsBackend {
	case "none", "redis":
	default:
		return fmt.Errorf("unknown EVENTS_BACKEND %q", c.Redis.EventsBackend)
	}
	if c.UsesRedis() && c.Redis.URL == "" {
		return errors.New("REDIS_URL is required by the redis backends")
	}

	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("login rate limit must allow at least one request per window")
	}

	if c.Observability.LogLevel == "" {
		return errors.New("log level is required")
	}

	return nil
}

// UsesRedis reports whether any backend needs a Redis connection
func (c *Config) UsesRedis() bool {
	return c.Redis.RevocationBackend == "redis" || c.Redis.EventsBackend == "redis"
}

// ListensForRevocations reports whether this instance must apply revocation
// events from peers. A shared Redis registry already holds them.
func (c *Config) ListensForRevocations() bool {
	return c.Redis.EventsBackend == "redis" && c.Redis.RevocationBackend == "memory"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
