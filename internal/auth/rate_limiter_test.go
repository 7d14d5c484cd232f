package auth

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/pylink-dev/portal/internal/config"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return NewLoginRateLimiter(config.RateLimitConfig{
		MaxAttempts: maxAttempts,
		Window:      window,
	}, logger)
}

func TestLoginRateLimiter_NotBlockedWithoutAttempts(t *testing.T) {
	rl := newTestLimiter(5, 15*time.Minute)

	assert.False(t, rl.IsBlocked("ana@pylink.dev"))
	assert.Equal(t, 0, rl.RemainingMinutes("ana@pylink.dev"))
}

func TestLoginRateLimiter_BlocksAfterMaxAttempts(t *testing.T) {
	rl := newTestLimiter(5, 15*time.Minute)

	for i := 0; i < 4; i++ {
		rl.RecordFailure("ana@pylink.dev")
		assert.False(t, rl.IsBlocked("ana@pylink.dev"), "attempt %d should not block", i+1)
	}

	rl.RecordFailure("ana@pylink.dev")
	assert.True(t, rl.IsBlocked("ana@pylink.dev"))
}

func TestLoginRateLimiter_ResetUnblocksImmediately(t *testing.T) {
	rl := newTestLimiter(3, 15*time.Minute)

	for i := 0; i < 3; i++ {
		rl.RecordFailure("ana@pylink.dev")
	}
	assert.True(t, rl.IsBlocked("ana@pylink.dev"))

	rl.Reset("ana@pylink.dev")
	assert.False(t, rl.IsBlocked("ana@pylink.dev"))
	assert.Equal(t, 0, rl.RemainingMinutes("ana@pylink.dev"))
}

func TestLoginRateLimiter_AttemptsExpireAcrossTime(t *testing.T) {
	rl := newTestLimiter(3, 15*time.Minute)

	current := time.Date(2024, 10, 21, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		rl.RecordFailure("ana@pylink.dev")
	}
	assert.True(t, rl.IsBlocked("ana@pylink.dev"))

	// 16 minutes later the whole window has passed
	current = current.Add(16 * time.Minute)
	assert.False(t, rl.IsBlocked("ana@pylink.dev"))
}

func TestLoginRateLimiter_PartialExpiryKeepsRecentAttempts(t *testing.T) {
	rl := newTestLimiter(3, 15*time.Minute)

	current := time.Date(2024, 10, 21, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	rl.RecordFailure("ana@pylink.dev")
	rl.RecordFailure("ana@pylink.dev")

	current = current.Add(10 * time.Minute)
	rl.RecordFailure("ana@pylink.dev")
	assert.True(t, rl.IsBlocked("ana@pylink.dev"))

	// First two age out, one recent attempt remains
	current = current.Add(6 * time.Minute)
	assert.False(t, rl.IsBlocked("ana@pylink.dev"))
}

func TestLoginRateLimiter_RemainingMinutes(t *testing.T) {
	rl := newTestLimiter(5, 15*time.Minute)

	current := time.Date(2024, 10, 21, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	rl.RecordFailure("ana@pylink.dev")

	current = current.Add(5 * time.Minute)
	assert.Equal(t, 10, rl.RemainingMinutes("ana@pylink.dev"))

	current = current.Add(20 * time.Minute)
	assert.Equal(t, 0, rl.RemainingMinutes("ana@pylink.dev"))
}

func TestLoginRateLimiter_IdentifiersAreIndependent(t *testing.T) {
	rl := newTestLimiter(2, 15*time.Minute)

	rl.RecordFailure("ana@pylink.dev")
	rl.RecordFailure("ana@pylink.dev")

	assert.True(t, rl.IsBlocked("ana@pylink.dev"))
	assert.False(t, rl.IsBlocked("luis@pylink.dev"))
}

func TestLoginRateLimiter_ConcurrentFailuresAreCounted(t *testing.T) {
	const workers = 50
	rl := newTestLimiter(workers, 15*time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rl.RecordFailure("ana@pylink.dev")
		}()
	}
	wg.Wait()

	assert.True(t, rl.IsBlocked("ana@pylink.dev"))
}

func TestLoginRateLimiter_SweepRemovesExpiredIdentifiers(t *testing.T) {
	rl := newTestLimiter(5, 15*time.Minute)

	current := time.Date(2024, 10, 21, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	for i := 0; i < 10; i++ {
		rl.RecordFailure(fmt.Sprintf("user%d@pylink.dev", i))
	}

	current = current.Add(20 * time.Minute)
	assert.Equal(t, 10, rl.Sweep())
	assert.Equal(t, 0, rl.Sweep())
}
