package resilience

import (
	"context"
	"time"
)

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 1 (no retries)
	MaxAttempts int

	// Delay is the fixed wait between attempts.
	// Default: 1s
	Delay time.Duration

	// RetryIf determines if an error should trigger a retry.
	// Default: all non-nil errors trigger retry.
	RetryIf func(err error) bool

	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry implements a bounded fixed-delay retry loop.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	if config.Delay <= 0 {
		config.Delay = time.Second
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}

	return &Retry{config: config}
}

// Execute runs the operation, retrying eligible failures with a fixed delay
// until the attempt budget is exhausted. The wait between attempts honors
// context cancellation.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if !r.config.RetryIf(err) {
			return err
		}

		if attempt >= r.config.MaxAttempts {
			break
		}

		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, r.config.Delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.config.Delay):
			// Continue to next attempt
		}
	}

	return lastErr
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
