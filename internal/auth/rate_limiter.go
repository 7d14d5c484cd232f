package auth

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pylink-dev/portal/internal/config"
)

// LoginRateLimiter tracks failed login attempts per identifier (email or IP)
// inside a sliding time window. State is in-memory only and is lost on
// restart; a shared store with TTL counters would be needed to survive
// restarts or span multiple instances.
type LoginRateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time

	maxAttempts int
	window      time.Duration
	now         func() time.Time

	logger *slog.Logger
}

// NewLoginRateLimiter creates a limiter from config. MaxAttempts and Window
// come from LOGIN_MAX_ATTEMPTS / LOGIN_ATTEMPT_WINDOW (defaults 5 and 15m).
func NewLoginRateLimiter(cfg config.RateLimitConfig, logger *slog.Logger) *LoginRateLimiter {
	return &LoginRateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: cfg.MaxAttempts,
		window:      cfg.Window,
		now:         time.Now,
		logger:      logger,
	}
}

// IsBlocked reports whether the identifier has exhausted its attempts.
// Expired attempts are pruned on every call; there is no background timer
// involved in the blocking decision.
func (rl *LoginRateLimiter) IsBlocked(identifier string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	remaining := rl.pruneLocked(identifier)
	return len(remaining) >= rl.maxAttempts
}

// RecordFailure registers a failed login attempt. It does not check the
// limit; callers consult IsBlocked separately.
func (rl *LoginRateLimiter) RecordFailure(identifier string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.attempts[identifier] = append(rl.attempts[identifier], rl.now())
}

// Reset clears the identifier's history, called on successful login.
func (rl *LoginRateLimiter) Reset(identifier string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.attempts, identifier)
}

// RemainingMinutes returns how many whole minutes remain until the oldest
// recorded attempt ages out of the window. Returns 0 when no attempts are
// recorded or the window has already passed.
func (rl *LoginRateLimiter) RemainingMinutes(identifier string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	attempts := rl.attempts[identifier]
	if len(attempts) == 0 {
		return 0
	}

	oldest := attempts[0]
	for _, t := range attempts[1:] {
		if t.Before(oldest) {
			oldest = t
		}
	}

	remaining := rl.window - rl.now().Sub(oldest)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Minutes())
}

// Sweep drops identifiers whose attempts have all aged out. Blocking
// decisions never depend on it; it only keeps the map from growing
// unboundedly. Returns the number of identifiers removed.
func (rl *LoginRateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for identifier := range rl.attempts {
		if len(rl.pruneLocked(identifier)) == 0 {
			delete(rl.attempts, identifier)
			removed++
		}
	}

	if removed > 0 {
		rl.logger.Debug("rate limiter sweep", slog.Int("identifiers_removed", removed))
	}
	return removed
}

// pruneLocked removes attempts older than the window for the identifier and
// returns the remaining slice. Caller must hold rl.mu. Attempts are appended
// in chronological order, so everything after the first in-window entry is
// kept.
func (rl *LoginRateLimiter) pruneLocked(identifier string) []time.Time {
	attempts := rl.attempts[identifier]
	if len(attempts) == 0 {
		return attempts
	}

	cutoff := rl.now().Add(-rl.window)
	kept := attempts[:0]
	for _, t := range attempts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) == 0 {
		delete(rl.attempts, identifier)
		return nil
	}
	rl.attempts[identifier] = kept
	return kept
}
