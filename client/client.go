package client

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/jonwraymond/govql/auth"
	"github.com/jonwraymond/govql/cache"
	"github.com/jonwraymond/govql/observe"
	"github.com/jonwraymond/govql/resilience"
)

// fallbackRetryAfter is used when the upstream returns 429 and the local
// limiter has no estimate of its own.
const fallbackRetryAfter = 60

// Client is the resilient query client. It owns its cache and rate
// limiter exclusively; neither is shared across clients.
//
// Concurrent Query calls are safe but uncoordinated: two identical
// queries in flight at once both miss the cache and both consume
// rate-limit budget. Callers issuing bursts of identical queries should
// dedupe upstream of this client.
type Client struct {
	options   Options
	transport Transport
	cache     cache.Cache
	keyer     cache.Keyer
	limiter   *resilience.SlidingWindowLimiter
	metrics   observe.Metrics
}

// New creates a client for the given endpoint. The token provider is
// consulted on every dispatch; its failure surfaces as
// *AuthenticationError without a network attempt.
func New(endpoint string, tokens auth.TokenProvider, opts ...Option) *Client {
	c := &Client{
		options: DefaultOptions(),
		keyer:   cache.NewQueryKeyer(),
		metrics: observe.NewNopMetrics(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		c.transport = NewHTTPTransport(endpoint, tokens, c.options.Timeout)
	}
	if c.cache == nil && c.options.EnableCache {
		c.cache = cache.NewMemoryCache(cache.Policy{
			DefaultTTL: c.options.CacheMaxAge,
		})
	}
	if c.options.EnableRateLimit {
		c.limiter = resilience.NewSlidingWindowLimiter(resilience.RateLimiterConfig{
			MaxRequests: c.options.MaxRequestsPerMinute,
			Window:      time.Minute,
		})
	}

	return c
}

// Query dispatches a query with the configured validation, caching,
// rate limiting, and retry behavior, returning the response data.
//
// Failure precedence: validation failures win over everything, a cache
// hit short-circuits all network machinery, rate-limit denial and 429
// responses are never retried, and application-level errors in the
// response body short-circuit any remaining retry budget.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	start := time.Now()
	data, err := c.query(ctx, query, variables)
	c.metrics.RecordQuery(ctx, time.Since(start), err)
	return data, err
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	if c.options.ValidateQueries {
		if err := ValidateQuery(query); err != nil {
			return nil, err
		}
		if variables != nil {
			if err := ValidateVariables(query, variables); err != nil {
				return nil, err
			}
		}
	}

	key, keyErr := c.keyer.Key(query, variables)

	if c.cachingActive() && keyErr == nil {
		if value, ok := c.cache.Get(ctx, key); ok {
			c.metrics.RecordCacheHit(ctx)
			return value, nil
		}
		c.metrics.RecordCacheMiss(ctx)
	}

	data, err := c.dispatchWithRetry(ctx, Request{Query: query, Variables: variables})
	if err != nil {
		return nil, err
	}

	if c.cachingActive() && keyErr == nil {
		_ = c.cache.Set(ctx, key, data, c.options.CacheMaxAge)
	}

	return data, nil
}

// dispatchWithRetry runs the admission + dispatch sequence inside a
// bounded fixed-delay retry loop. Only *NetworkError re-enters the loop;
// every attempt that passes admission consumes rate-limit budget even
// when it ultimately fails, so a failing retry sequence cannot storm a
// struggling upstream.
func (c *Client) dispatchWithRetry(ctx context.Context, req Request) (json.RawMessage, error) {
	var data json.RawMessage

	retry := resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts: c.options.RetryAttempts + 1,
		Delay:       c.options.RetryDelay,
		RetryIf:     isRetryable,
		OnRetry: func(_ int, _ error, _ time.Duration) {
			c.metrics.RecordRetry(ctx)
		},
	})

	err := retry.Execute(ctx, func(ctx context.Context) error {
		if c.limiter != nil && !c.limiter.CanMakeRequest() {
			c.metrics.RecordRateLimitDenied(ctx)
			return &RateLimitError{RetryAfter: c.retryAfterSeconds()}
		}
		if c.limiter != nil {
			c.limiter.RecordRequest()
		}

		resp, err := c.transport.Send(ctx, req)
		if err != nil {
			var netErr *NetworkError
			if errors.As(err, &netErr) && netErr.StatusCode == 429 {
				return &RateLimitError{RetryAfter: c.retryAfterSeconds()}
			}
			return err
		}

		if len(resp.Errors) > 0 {
			messages := make([]string, len(resp.Errors))
			for i, e := range resp.Errors {
				messages[i] = e.Message
			}
			return &QueryError{Messages: messages}
		}

		data = resp.Data
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// retryAfterSeconds converts the limiter's estimate to whole seconds,
// rounding up, with a fixed fallback when no estimate is available.
func (c *Client) retryAfterSeconds() int {
	if c.limiter != nil {
		if wait := c.limiter.RetryAfter(); wait > 0 {
			return int(math.Ceil(wait.Seconds()))
		}
	}
	return fallbackRetryAfter
}

func (c *Client) cachingActive() bool {
	return c.options.EnableCache && c.cache != nil
}

// ClearCache empties the cache without resetting hit/miss counters.
func (c *Client) ClearCache(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Clear(ctx)
}

// CacheStats returns the current cache statistics.
func (c *Client) CacheStats(ctx context.Context) cache.Stats {
	if c.cache == nil {
		return cache.Stats{}
	}
	return c.cache.Stats(ctx)
}

// IsCachingEnabled reports whether response memoization is active.
func (c *Client) IsCachingEnabled() bool {
	return c.cachingActive()
}

// Options returns the resolved client configuration.
func (c *Client) Options() Options {
	return c.options
}
