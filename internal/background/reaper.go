package background

import (
	"context"
	"log/slog"
	"time"
)

// SessionReaper discards abandoned work sessions
type SessionReaper interface {
	ReapStale(maxDuration time.Duration) int
}

// AttemptSweeper drops expired failed-login attempts
type AttemptSweeper interface {
	Sweep() int
}

// Reaper periodically discards abandoned work sessions and garbage
// collects expired login attempt records. Neither store grows without
// it: sessions live in memory until ended, and failed attempts are only
// pruned lazily on access.
type Reaper struct {
	sessions   SessionReaper
	attempts   AttemptSweeper
	logger     *slog.Logger
	interval   time.Duration
	maxSession time.Duration
	stopCh     chan struct{}
}

// NewReaper creates a new background reaper
func NewReaper(
	sessions SessionReaper,
	attempts AttemptSweeper,
	logger *slog.Logger,
	interval time.Duration,
	maxSession time.Duration,
) *Reaper {
	return &Reaper{
		sessions:   sessions,
		attempts:   attempts,
		logger:     logger,
		interval:   interval,
		maxSession: maxSession,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the periodic reaping task
func (r *Reaper) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.run()
		case <-r.stopCh:
			r.logger.Info("reaper stopped")
			return
		case <-ctx.Done():
			r.logger.Info("reaper context cancelled")
			return
		}
	}
}

func (r *Reaper) run() {
	if reaped := r.sessions.ReapStale(r.maxSession); reaped > 0 {
		r.logger.Warn("discarded abandoned work sessions", slog.Int("count", reaped))
	}

	if swept := r.attempts.Sweep(); swept > 0 {
		r.logger.Info("swept expired login attempt records", slog.Int("count", swept))
	}
}

// Stop signals the reaper to stop
func (r *Reaper) Stop() {
	close(r.stopCh)
}
