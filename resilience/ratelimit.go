package resilience

import (
	"sync"
	"time"
)

// RateLimiterConfig configures the sliding-window rate limiter.
type RateLimiterConfig struct {
	// MaxRequests is the number of requests allowed per window.
	// Default: 30
	MaxRequests int

	// Window is the trailing time window.
	// Default: 1 minute
	Window time.Duration
}

// SlidingWindowLimiter caps request rate over a trailing time window.
//
// Unlike a token bucket, the active count is recomputed on every check by
// discarding timestamps older than the window, so admission is exact: at
// any instant the number of recorded timestamps inside the window never
// exceeds MaxRequests when callers respect CanMakeRequest.
//
// The limiter is safe for concurrent use, but CanMakeRequest followed by
// RecordRequest is not atomic across goroutines; callers needing a strict
// bound under concurrency must serialize the pair.
type SlidingWindowLimiter struct {
	config RateLimiterConfig

	mu     sync.Mutex
	stamps []time.Time
}

// NewSlidingWindowLimiter creates a new sliding-window rate limiter.
func NewSlidingWindowLimiter(config RateLimiterConfig) *SlidingWindowLimiter {
	// Apply defaults
	if config.MaxRequests <= 0 {
		config.MaxRequests = 30
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	return &SlidingWindowLimiter{config: config}
}

// CanMakeRequest purges timestamps older than the window and reports
// whether another request may be recorded.
func (rl *SlidingWindowLimiter) CanMakeRequest() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.purgeLocked(time.Now())
	return len(rl.stamps) < rl.config.MaxRequests
}

// RecordRequest records a request timestamp at the current instant.
func (rl *SlidingWindowLimiter) RecordRequest() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.purgeLocked(now)
	rl.stamps = append(rl.stamps, now)
}

// RetryAfter returns how long until the oldest recorded timestamp leaves
// the window. Returns 0 when a request would currently be admitted.
func (rl *SlidingWindowLimiter) RetryAfter() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.purgeLocked(now)

	if len(rl.stamps) < rl.config.MaxRequests {
		return 0
	}

	wait := rl.stamps[0].Add(rl.config.Window).Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}

// Count returns the number of timestamps currently inside the window.
func (rl *SlidingWindowLimiter) Count() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.purgeLocked(time.Now())
	return len(rl.stamps)
}

// Reset clears all recorded timestamps.
func (rl *SlidingWindowLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.stamps = nil
}

// Config returns the limiter configuration.
func (rl *SlidingWindowLimiter) Config() RateLimiterConfig {
	return rl.config
}

// purgeLocked drops timestamps that have fallen out of the trailing window.
// Stamps are appended in order, so the retained suffix starts at the first
// stamp still inside the window.
func (rl *SlidingWindowLimiter) purgeLocked(now time.Time) {
	cutoff := now.Add(-rl.config.Window)
	i := 0
	for i < len(rl.stamps) && !rl.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		rl.stamps = append(rl.stamps[:0], rl.stamps[i:]...)
	}
}
