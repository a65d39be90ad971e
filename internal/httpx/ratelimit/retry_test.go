package ratelimit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableStatus(t *testing.T) {
	assert.True(t, IsRetryableStatus(429))
	assert.True(t, IsRetryableStatus(500))
	assert.True(t, IsRetryableStatus(503))
	assert.False(t, IsRetryableStatus(200))
	assert.False(t, IsRetryableStatus(404))
	assert.False(t, IsRetryableStatus(400))
}

func TestCalculateBackoffGrowsAndCaps(t *testing.T) {
	cfg := Config{InitialBackoffMs: 100, MaxBackoffMs: 500}

	first := CalculateBackoff(0, cfg)
	assert.GreaterOrEqual(t, first, 100*time.Millisecond)
	assert.Less(t, first, 200*time.Millisecond) // 100ms + up to 25% jitter

	// 100 * 2^10 far exceeds the cap.
	capped := CalculateBackoff(10, cfg)
	assert.LessOrEqual(t, capped, 625*time.Millisecond) // cap + 25% jitter
}

func TestCalculateRateLimitBackoffHonorsRetryAfter(t *testing.T) {
	cfg := Config{InitialBackoffMs: 100, MaxBackoffMs: 30000}

	retryAfter := "2"
	backoff := CalculateRateLimitBackoff(0, cfg, &retryAfter)
	assert.GreaterOrEqual(t, backoff, 2*time.Second)
	assert.Less(t, backoff, 3*time.Second)

	// Unparseable header falls back to exponential backoff.
	garbage := "soon"
	backoff = CalculateRateLimitBackoff(0, cfg, &garbage)
	assert.Less(t, backoff, time.Second)
}

func TestFetchRetryError(t *testing.T) {
	inner := errors.New("connection refused")
	err := &FetchRetryError{URL: "https://example.com", Attempts: 3, LastStatus: 503, LastError: inner}

	assert.Contains(t, err.Error(), "https://example.com")
	assert.Contains(t, err.Error(), "3 attempts")
	assert.Contains(t, err.Error(), "503")
	assert.ErrorIs(t, err, inner)
}
