package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records query client metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordQuery records a completed query with duration and error status.
	RecordQuery(ctx context.Context, duration time.Duration, err error)

	// RecordCacheHit records a query served from the cache.
	RecordCacheHit(ctx context.Context)

	// RecordCacheMiss records a query not found in the cache.
	RecordCacheMiss(ctx context.Context)

	// RecordRateLimitDenied records a query rejected by the rate limiter.
	RecordRateLimitDenied(ctx context.Context)

	// RecordRetry records a retry attempt after a transient failure.
	RecordRetry(ctx context.Context)

	// RecordToolCall records a protocol tool invocation.
	RecordToolCall(ctx context.Context, tool string, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	queryCount   metric.Int64Counter
	queryErrors  metric.Int64Counter
	queryHist    metric.Float64Histogram
	cacheHits    metric.Int64Counter
	cacheMisses  metric.Int64Counter
	rateDenied   metric.Int64Counter
	retryCount   metric.Int64Counter
	toolCount    metric.Int64Counter
	toolErrors   metric.Int64Counter
	toolDuration metric.Float64Histogram
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	queryCount, err := meter.Int64Counter(
		"query.total",
		metric.WithDescription("Total number of upstream queries"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	queryErrors, err := meter.Int64Counter(
		"query.errors",
		metric.WithDescription("Total number of failed queries"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	queryHist, err := meter.Float64Histogram(
		"query.duration_ms",
		metric.WithDescription("Query duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"query.cache.hits",
		metric.WithDescription("Queries served from the cache"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter(
		"query.cache.misses",
		metric.WithDescription("Queries not found in the cache"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	rateDenied, err := meter.Int64Counter(
		"query.ratelimit.denied",
		metric.WithDescription("Queries rejected by the rate limiter"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"query.retries",
		metric.WithDescription("Retry attempts after transient failures"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	toolCount, err := meter.Int64Counter(
		"tool.calls.total",
		metric.WithDescription("Total number of tool invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	toolErrors, err := meter.Int64Counter(
		"tool.calls.errors",
		metric.WithDescription("Total number of failed tool invocations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	toolDuration, err := meter.Float64Histogram(
		"tool.calls.duration_ms",
		metric.WithDescription("Tool invocation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		queryCount:   queryCount,
		queryErrors:  queryErrors,
		queryHist:    queryHist,
		cacheHits:    cacheHits,
		cacheMisses:  cacheMisses,
		rateDenied:   rateDenied,
		retryCount:   retryCount,
		toolCount:    toolCount,
		toolErrors:   toolErrors,
		toolDuration: toolDuration,
	}, nil
}

// RecordQuery records a completed query.
func (m *metricsImpl) RecordQuery(ctx context.Context, duration time.Duration, err error) {
	m.queryCount.Add(ctx, 1)

	if err != nil {
		m.queryErrors.Add(ctx, 1)
	}

	m.queryHist.Record(ctx, float64(duration.Milliseconds()))
}

// RecordCacheHit records a query served from the cache.
func (m *metricsImpl) RecordCacheHit(ctx context.Context) {
	m.cacheHits.Add(ctx, 1)
}

// RecordCacheMiss records a query not found in the cache.
func (m *metricsImpl) RecordCacheMiss(ctx context.Context) {
	m.cacheMisses.Add(ctx, 1)
}

// RecordRateLimitDenied records a query rejected by the rate limiter.
func (m *metricsImpl) RecordRateLimitDenied(ctx context.Context) {
	m.rateDenied.Add(ctx, 1)
}

// RecordRetry records a retry attempt.
func (m *metricsImpl) RecordRetry(ctx context.Context) {
	m.retryCount.Add(ctx, 1)
}

// RecordToolCall records a protocol tool invocation.
func (m *metricsImpl) RecordToolCall(ctx context.Context, tool string, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("tool.name", tool))

	m.toolCount.Add(ctx, 1, opt)

	if err != nil {
		m.toolErrors.Add(ctx, 1, opt)
	}

	m.toolDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordQuery(context.Context, time.Duration, error)            {}
func (m *noopMetrics) RecordCacheHit(context.Context)                               {}
func (m *noopMetrics) RecordCacheMiss(context.Context)                              {}
func (m *noopMetrics) RecordRateLimitDenied(context.Context)                        {}
func (m *noopMetrics) RecordRetry(context.Context)                                  {}
func (m *noopMetrics) RecordToolCall(context.Context, string, time.Duration, error) {}

// NewNopMetrics returns a Metrics implementation that discards everything.
func NewNopMetrics() Metrics {
	return &noopMetrics{}
}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = (*noopMetrics)(nil)
)
