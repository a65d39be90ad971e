package ratelimit

import (
	"sync"
	"time"
)

// Config holds rate limiting configuration
type Config struct {
	RequestsPerSecond int `json:"requestsPerSecond"`
	MaxRetries        int `json:"maxRetries"`
	InitialBackoffMs  int `json:"initialBackoffMs"`
	MaxBackoffMs      int `json:"maxBackoffMs"`
}

// DefaultConfig returns the default rate limit configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 2,
		MaxRetries:        3,
		InitialBackoffMs:  100,
		MaxBackoffMs:      30000,
	}
}

// RateLimiter spaces outbound requests to respect external API limits.
// Safe for concurrent use.
type RateLimiter struct {
	mu          sync.Mutex
	config      Config
	lastRequest int64 // Unix nanoseconds of last request
}

// NewRateLimiter creates a new rate limiter with the given config
func NewRateLimiter(config Config) *RateLimiter {
	return &RateLimiter{
		config:      config,
		lastRequest: 0,
	}
}

// GetConfig returns the current configuration
func (r *RateLimiter) GetConfig() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config
}

// SetConfig updates the configuration
func (r *RateLimiter) SetConfig(config Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = config
}

// Throttle waits to ensure rate limits are respected.
// Call this before making a request. The mutex is held across the
// sleep so concurrent callers are spaced, not just serialized.
func (r *RateLimiter) Throttle() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rps := r.config.RequestsPerSecond
	if rps < 1 {
		rps = 1
	}
	minInterval := int64(time.Second) / int64(rps)

	elapsed := time.Now().UnixNano() - r.lastRequest
	if elapsed < minInterval {
		time.Sleep(time.Duration(minInterval - elapsed))
	}

	r.lastRequest = time.Now().UnixNano()
	return nil
}

// Reset resets the rate limiter state
func (r *RateLimiter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastRequest = 0
}
