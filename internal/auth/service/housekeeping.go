package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tabauth/internal/auth/domain"
	"github.com/aussiebroadwan/tabauth/internal/auth/metrics"
	"github.com/aussiebroadwan/tabauth/internal/auth/store"
)

// HousekeepingService periodically deletes sessions idle beyond
// domain.ExpiryWindow. Login and refresh already reap expired sessions they
// touch; this catches users who never come back.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Clock    Clock
	Metrics  *metrics.Metrics

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep deletes every expired session once and returns how many were removed.
func (s *HousekeepingService) Sweep(ctx context.Context) int64 {
	cutoff := s.Clock.Now().Add(-domain.ExpiryWindow)

	n, err := s.Store.Sessions().DeleteStaleSessions(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
		return 0
	}

	s.Metrics.Sessions(metrics.SessionSwept, int(n))
	s.Logger.Info("housekeeping sweep completed", "sessions_deleted", n, "cutoff", cutoff)
	return n
}
