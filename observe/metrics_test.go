package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	return m, reader
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	found := findMetric(rm, name)
	if found == nil {
		t.Fatalf("metric %q not found", name)
	}

	sum, ok := found.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64] for %q, got %T", name, found.Data)
	}

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

// TestMetrics_QueryCounters verifies query totals and error counts.
func TestMetrics_QueryCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordQuery(ctx, 100*time.Millisecond, nil)
	m.RecordQuery(ctx, 50*time.Millisecond, errors.New("boom"))

	if got := collectSum(t, reader, "query.total"); got != 2 {
		t.Errorf("expected query.total=2, got %d", got)
	}
}

// TestMetrics_ErrorCounterOnlyOnFailure verifies successful queries do not
// increment the error counter.
func TestMetrics_ErrorCounterOnlyOnFailure(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordQuery(ctx, 10*time.Millisecond, nil)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	found := findMetric(rm, "query.errors")
	if found != nil {
		sum, ok := found.Data.(metricdata.Sum[int64])
		if ok && len(sum.DataPoints) > 0 && sum.DataPoints[0].Value != 0 {
			t.Errorf("expected query.errors=0, got %d", sum.DataPoints[0].Value)
		}
	}
}

// TestMetrics_CacheCounters verifies cache hit and miss counters.
func TestMetrics_CacheCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordCacheHit(ctx)
	m.RecordCacheHit(ctx)
	m.RecordCacheMiss(ctx)

	if got := collectSum(t, reader, "query.cache.hits"); got != 2 {
		t.Errorf("expected query.cache.hits=2, got %d", got)
	}
}

// TestMetrics_RateLimitAndRetry verifies denial and retry counters.
func TestMetrics_RateLimitAndRetry(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordRateLimitDenied(ctx)
	m.RecordRetry(ctx)
	m.RecordRetry(ctx)

	if got := collectSum(t, reader, "query.ratelimit.denied"); got != 1 {
		t.Errorf("expected query.ratelimit.denied=1, got %d", got)
	}
}

// TestMetrics_ToolCalls verifies the tool invocation counters carry the tool name.
func TestMetrics_ToolCalls(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordToolCall(ctx, "gov_proposals", 25*time.Millisecond, nil)
	m.RecordToolCall(ctx, "gov_proposals", 35*time.Millisecond, errors.New("boom"))

	if got := collectSum(t, reader, "tool.calls.total"); got != 2 {
		t.Errorf("expected tool.calls.total=2, got %d", got)
	}
	if got := collectSum(t, reader, "tool.calls.errors"); got != 1 {
		t.Errorf("expected tool.calls.errors=1, got %d", got)
	}
}

// TestNopMetrics verifies the no-op implementation does nothing and never panics.
func TestNopMetrics(t *testing.T) {
	m := NewNopMetrics()
	ctx := context.Background()

	m.RecordQuery(ctx, time.Second, errors.New("ignored"))
	m.RecordCacheHit(ctx)
	m.RecordCacheMiss(ctx)
	m.RecordRateLimitDenied(ctx)
	m.RecordRetry(ctx)
	m.RecordToolCall(ctx, "noop", time.Millisecond, nil)
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}
