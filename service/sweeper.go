package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/layer-3/catalog/metrics"
	"github.com/layer-3/catalog/ports"
)

// Sweeper periodically drops revocation entries whose tokens have expired,
// keeping the registry bounded by the number of live revoked tokens.
type Sweeper struct {
	store    ports.RevocationStore
	logger   *zap.Logger
	metrics  *metrics.Collector
	interval time.Duration
	now      func() time.Time

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewSweeper creates a sweeper. If interval is 0 or negative, defaults to 1 hour.
func NewSweeper(store ports.RevocationStore, logger *zap.Logger, collector *metrics.Collector, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}

	return &Sweeper{
		store:    store,
		logger:   logger.Named("sweeper"),
		metrics:  collector,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *Sweeper) Start() {
	go s.run()
	s.logger.Info("revocation sweeper started", zap.Duration("interval", s.interval))
}

// Stop shuts the worker down and waits for an in-progress sweep to finish.
// Calling it again is a no-op.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		s.logger.Info("revocation sweeper stopped")
	})
}

func (s *Sweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Sweeper) sweep() int {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	removed, err := s.store.SweepExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to sweep expired revocations", zap.Error(err))
	}

	s.metrics.ObserveSwept(removed)
	s.logger.Debug("revocation sweep completed", zap.Int("removed", removed))
	return removed
}
