// Package resilience provides failure-handling patterns for upstream calls.
//
// This package implements the two patterns the query client composes:
//
//   - Rate Limiter: a sliding-window counter that caps outgoing request
//     rate to stay inside the upstream API's own limits. The window is
//     recomputed from recorded timestamps on every check, trading O(n) per
//     check for precise admission with no background timers.
//
//   - Retry: a bounded fixed-delay retry loop. Delays are constant rather
//     than exponential; a RetryIf predicate decides which errors are worth
//     another attempt.
//
// # Usage
//
//	rl := resilience.NewSlidingWindowLimiter(resilience.RateLimiterConfig{
//	    MaxRequests: 30,
//	    Window:      time.Minute,
//	})
//
//	if !rl.CanMakeRequest() {
//	    return fmt.Errorf("throttled, retry in %s", rl.RetryAfter())
//	}
//	rl.RecordRequest()
//
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    MaxAttempts: 3,
//	    Delay:       time.Second,
//	    RetryIf:     isTransient,
//	})
//
//	err := retry.Execute(ctx, func(ctx context.Context) error {
//	    return callUpstream(ctx)
//	})
package resilience
