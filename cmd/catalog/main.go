package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/layer-3/catalog/adapters/credentials"
	"github.com/layer-3/catalog/adapters/events"
	"github.com/layer-3/catalog/adapters/store"
	"github.com/layer-3/catalog/adapters/tokenizer"
	"github.com/layer-3/catalog/config"
	"github.com/layer-3/catalog/metrics"
	"github.com/layer-3/catalog/ports"
	"github.com/layer-3/catalog/service"
	"github.com/layer-3/catalog/transport/http"
)

// nackResendSleep throttles redelivery of revocation events the local store failed to apply
const nackResendSleep = time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Observability)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("catalog stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	var redisClient *redis.Client
	if cfg.UsesRedis() {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to reach Redis: %w", err)
		}
	}

	localRevocations := store.NewMemoryStore()
	var revocations ports.RevocationStore = localRevocations
	if cfg.Redis.RevocationBackend == "redis" {
		revocations = store.NewRedisStore(redisClient)
	}

	var eventPub ports.EventPublisher = events.NopPublisher{}
	if cfg.Redis.EventsBackend == "redis" {
		wmLogger := events.NewZapLoggerAdapter(logger.Named("watermill"))

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{Client: redisClient}, wmLogger)
		if err != nil {
			return fmt.Errorf("failed to create Redis publisher: %w", err)
		}
		defer publisher.Close()
		eventPub = events.NewWatermillPublisher(publisher)

		if cfg.ListensForRevocations() {
			// No consumer group, so every instance sees every revocation
			subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:          redisClient,
				NackResendSleep: nackResendSleep,
			}, wmLogger)
			if err != nil {
				return fmt.Errorf("failed to create Redis subscriber: %w", err)
			}
			defer subscriber.Close()

			listener := events.NewRevocationListener(subscriber, revocations, logger.Named("revocation_listener"))
			go func() {
				if err := listener.Run(ctx); err != nil {
					logger.Error("revocation listener stopped", zap.Error(err))
				}
			}()
		}
	}

	creds, err := credentials.NewMemoryStore(credentials.DefaultUsers, credentials.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to build credential store: %w", err)
	}

	authService := service.NewAuthService(service.Dependencies{
		Codec:       tokenizer.NewJWTTokenizer(cfg.Auth.Secret),
		Revocations: revocations,
		Credentials: creds,
		Events:      eventPub,
		Metrics:     collector,
		Logger:      logger,
	}, service.Config{
		Issuer:              cfg.Auth.Issuer,
		Audience:            cfg.Auth.Audience,
		AccessTTL:           cfg.Auth.AccessTokenTTL,
		RefreshTTL:          cfg.Auth.RefreshTokenTTL,
		RotateRefreshTokens: cfg.Auth.RotateRefreshTokens,
	})

	sweeper := service.NewSweeper(revocations, logger, collector, cfg.Auth.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	router, err := http.SetupRouter(http.RouterDeps{
		AuthService:    authService,
		Products:       store.NewProductMemoryStore(store.DefaultProducts),
		Policy:         http.CatalogPolicy(),
		Logger:         logger,
		Metrics:        collector,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		LoginLimiter: http.NewRateLimiter(http.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			Burst:             cfg.RateLimit.Burst,
		}),
		TrustedProxies: cfg.Server.TrustedProxies,
	})
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	server := &nethttp.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.ListenAndServe()
	}()

	logger.Info("catalog starting",
		zap.String("addr", cfg.Server.Addr),
		zap.String("environment", cfg.Environment),
		zap.String("revocation_backend", cfg.Redis.RevocationBackend),
		zap.String("events_backend", cfg.Redis.EventsBackend),
		zap.Duration("access_ttl", cfg.Auth.AccessTokenTTL),
		zap.Bool("rotate_refresh_tokens", cfg.Auth.RotateRefreshTokens),
	)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("catalog stopped", zap.Int("revoked_in_memory", localRevocations.Len()))
	return nil
}

func newLogger(cfg config.ObservabilityConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build(zap.Fields(zap.String("service", "catalog")))
}
