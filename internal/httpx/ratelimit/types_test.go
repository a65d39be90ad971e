package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottleSpacesRequests(t *testing.T) {
	r := NewRateLimiter(Config{RequestsPerSecond: 50})

	start := time.Now()
	require.NoError(t, r.Throttle())
	require.NoError(t, r.Throttle())

	// 50 rps means at least 20ms between the two calls.
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestThrottleZeroRateDoesNotPanic(t *testing.T) {
	r := NewRateLimiter(Config{RequestsPerSecond: 0})

	assert.NotPanics(t, func() {
		require.NoError(t, r.Throttle())
	})
}

func TestThrottleConcurrent(t *testing.T) {
	r := NewRateLimiter(Config{RequestsPerSecond: 1000})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.Throttle())
		}()
	}
	wg.Wait()
}

func TestResetAllowsImmediateRequest(t *testing.T) {
	r := NewRateLimiter(Config{RequestsPerSecond: 1})
	require.NoError(t, r.Throttle())

	r.Reset()

	start := time.Now()
	require.NoError(t, r.Throttle())
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
