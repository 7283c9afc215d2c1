package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrRateLimitExceeded is returned when the rate limit is exceeded.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrMaxRetriesExceeded is returned when max retry attempts are exhausted
	// and no underlying error is available to propagate.
	ErrMaxRetriesExceeded = errors.New("resilience: max retries exceeded")
)
