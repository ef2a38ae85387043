// File: internal/ratelimit/ratelimit_test.go
package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		WindowSize:    time.Minute,
		MaxAttempts:   3,
		CleanupPeriod: time.Hour,
		BanDuration:   time.Minute,
	}
}

func TestAllowWithinLimit(t *testing.T) {
	rl := NewMemoryRateLimiter(testConfig())
	defer rl.Close()

	for i := 0; i < 3; i++ {
		allowed, info := rl.Allow("1.2.3.4")
		require.True(t, allowed, "attempt %d should pass", i+1)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := rl.Allow("1.2.3.4")
	assert.False(t, allowed)
	assert.True(t, info.Banned)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestIdentifiersAreIndependent(t *testing.T) {
	rl := NewMemoryRateLimiter(testConfig())
	defer rl.Close()

	for i := 0; i < 4; i++ {
		rl.Allow("1.2.3.4")
	}
	allowed, _ := rl.Allow("5.6.7.8")
	assert.True(t, allowed)
}

func TestRecordSuccessResetsCounter(t *testing.T) {
	rl := NewMemoryRateLimiter(testConfig())
	defer rl.Close()

	rl.Allow("1.2.3.4")
	rl.Allow("1.2.3.4")
	rl.RecordSuccess("1.2.3.4")

	_, info := rl.Allow("1.2.3.4")
	assert.Equal(t, 2, info.Remaining)
}

func TestBanPersistsUntilDurationPasses(t *testing.T) {
	cfg := testConfig()
	cfg.BanDuration = 50 * time.Millisecond
	rl := NewMemoryRateLimiter(cfg)
	defer rl.Close()

	for i := 0; i < 4; i++ {
		rl.Allow("1.2.3.4")
	}
	allowed, _ := rl.Allow("1.2.3.4")
	require.False(t, allowed)

	time.Sleep(60 * time.Millisecond)
	// The ban expired but the window has not; the stale window restarts
	// only after WindowSize, so shrink it for the test.
	rl.mu.Lock()
	rl.attempts["1.2.3.4"].FirstSeen = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	allowed, _ = rl.Allow("1.2.3.4")
	assert.True(t, allowed)
}

func TestGetClientIP(t *testing.T) {
	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		r.Header.Set("X-Real-IP", "10.0.0.9")
		assert.Equal(t, "10.0.0.1", GetClientIP(r))
	})

	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Real-IP", "10.0.0.9")
		assert.Equal(t, "10.0.0.9", GetClientIP(r))
	})

	t.Run("uses the remote address last", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "192.0.2.1:4312"
		assert.Equal(t, "192.0.2.1", GetClientIP(r))
	})
}
