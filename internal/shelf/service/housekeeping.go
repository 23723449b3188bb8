package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/store"
)

// HousekeepingService periodically purges expired challenges, reset grants
// and ended sessions.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one hour.
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

// Start runs the worker in the background. Call Stop to end it. Starting
// twice, or after Stop, does nothing.
func (s *HousekeepingService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return
	}
	s.started = true

	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop ends the worker, waiting for an in-progress sweep to finish. It is
// safe to call more than once, and without a prior Start.
func (s *HousekeepingService) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	started := s.started
	close(s.stopCh)
	s.mu.Unlock()

	if !started {
		return
	}
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
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

// Sweep deletes everything past its expiry and returns the rows removed.
// Each deletion is independent; one failing does not stop the others.
func (s *HousekeepingService) Sweep(ctx context.Context) int64 {
	now := clock(s.Now)

	tasks := []struct {
		name string
		fn   func(context.Context, time.Time) (int64, error)
	}{
		{"otp challenges", s.Store.Challenges().DeleteExpiredChallenges},
		{"reset grants", s.Store.ResetGrants().DeleteExpiredResetGrants},
		{"sessions", s.Store.Sessions().DeleteStaleSessions},
	}

	var total int64
	for _, t := range tasks {
		n, err := t.fn(ctx, now)
		if err != nil {
			s.Logger.Error("failed to purge expired rows", "table", t.name, "error", err)
			continue
		}
		s.Logger.Debug("purged expired rows", "table", t.name, "deleted", n)
		total += n
	}

	s.Logger.Info("housekeeping sweep completed", "deleted", total)
	return total
}
