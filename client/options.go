package client

import (
	"time"

	"github.com/jonwraymond/govql/cache"
	"github.com/jonwraymond/govql/observe"
)

// Options holds the client configuration, resolved once at construction.
type Options struct {
	// EnableCache turns on response memoization.
	EnableCache bool

	// CacheMaxAge is the default freshness window for cached entries.
	CacheMaxAge time.Duration

	// ValidateQueries turns on query syntax and variable checks before
	// any network call.
	ValidateQueries bool

	// Timeout bounds each network attempt.
	Timeout time.Duration

	// RetryAttempts is the number of retries after the initial attempt.
	// Zero means exactly one attempt.
	RetryAttempts int

	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration

	// EnableRateLimit turns on self-imposed admission control.
	EnableRateLimit bool

	// MaxRequestsPerMinute caps admitted requests per trailing minute.
	MaxRequestsPerMinute int
}

// DefaultOptions returns the default client configuration: caching for
// 5 minutes, validation off, 30s timeout, no retries with a 1s delay,
// and rate limiting at 30 requests per minute.
func DefaultOptions() Options {
	return Options{
		EnableCache:          true,
		CacheMaxAge:          5 * time.Minute,
		ValidateQueries:      false,
		Timeout:              30 * time.Second,
		RetryAttempts:        0,
		RetryDelay:           time.Second,
		EnableRateLimit:      true,
		MaxRequestsPerMinute: 30,
	}
}

// Option configures a Client at construction.
type Option func(*Client)

// WithOptions replaces the full option set.
func WithOptions(opts Options) Option {
	return func(c *Client) {
		c.options = opts
	}
}

// WithCache toggles response memoization.
func WithCache(enabled bool) Option {
	return func(c *Client) {
		c.options.EnableCache = enabled
	}
}

// WithCacheMaxAge sets the default freshness window for cached entries.
func WithCacheMaxAge(maxAge time.Duration) Option {
	return func(c *Client) {
		c.options.CacheMaxAge = maxAge
	}
}

// WithCacheBackend substitutes the cache implementation (memory by default).
func WithCacheBackend(backend cache.Cache) Option {
	return func(c *Client) {
		c.cache = backend
	}
}

// WithValidation toggles query syntax and variable checks.
func WithValidation(enabled bool) Option {
	return func(c *Client) {
		c.options.ValidateQueries = enabled
	}
}

// WithTimeout bounds each network attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.options.Timeout = timeout
	}
}

// WithRetry sets the retry budget and the fixed delay between attempts.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.options.RetryAttempts = attempts
		if delay > 0 {
			c.options.RetryDelay = delay
		}
	}
}

// WithRateLimit toggles self-imposed admission control.
func WithRateLimit(enabled bool) Option {
	return func(c *Client) {
		c.options.EnableRateLimit = enabled
	}
}

// WithMaxRequestsPerMinute caps admitted requests per trailing minute.
func WithMaxRequestsPerMinute(max int) Option {
	return func(c *Client) {
		if max > 0 {
			c.options.MaxRequestsPerMinute = max
		}
	}
}

// WithTransport substitutes the network transport. Tests use this to
// observe dispatches without patching process-wide state.
func WithTransport(transport Transport) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithMetrics attaches a metrics recorder. Defaults to a no-op.
func WithMetrics(metrics observe.Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}
