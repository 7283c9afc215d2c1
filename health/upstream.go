package health

import (
	"context"
	"encoding/json"
	"time"
)

// typenameQuery is the cheapest valid query the upstream accepts.
const typenameQuery = `query { __typename }`

// Querier dispatches a query; the client satisfies this.
type Querier interface {
	Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

// UpstreamChecker probes upstream reachability through the full client
// stack, so a passing check also proves auth and decoding work. Each
// probe consumes rate-limit budget; readiness polling intervals should
// account for that.
type UpstreamChecker struct {
	q Querier
}

// NewUpstreamChecker creates a checker probing the upstream through q.
func NewUpstreamChecker(q Querier) *UpstreamChecker {
	return &UpstreamChecker{q: q}
}

// Name returns the name of this checker.
func (c *UpstreamChecker) Name() string { return "upstream" }

// Check dispatches a minimal query and reports the round-trip time.
func (c *UpstreamChecker) Check(ctx context.Context) Result {
	start := time.Now()
	_, err := c.q.Query(ctx, typenameQuery, nil)
	elapsed := time.Since(start)

	if err != nil {
		result := Unhealthy("upstream query failed", err)
		result.Duration = elapsed
		return result
	}

	result := Healthy("upstream reachable").WithDetails(map[string]any{
		"round_trip_ms": elapsed.Milliseconds(),
	})
	result.Duration = elapsed
	return result
}

var _ Checker = (*UpstreamChecker)(nil)
