package main

import (
	"context"
	"fmt"

	"github.com/jonwraymond/govql/auth"
	"github.com/jonwraymond/govql/cache"
	"github.com/jonwraymond/govql/client"
	"github.com/jonwraymond/govql/config"
	"github.com/jonwraymond/govql/observe"
)

// buildClient assembles the query client from config, including the
// cache backend selection and optional metrics.
func buildClient(cfg *config.Config, metrics observe.Metrics) (*client.Client, error) {
	tokens := auth.NewStaticTokenProvider(cfg.Upstream.APIKey)

	opts := []client.Option{
		client.WithCache(cfg.Cache.Enabled),
		client.WithCacheMaxAge(cfg.Cache.MaxAge),
		client.WithValidation(cfg.Client.ValidateQueries),
		client.WithTimeout(cfg.Client.Timeout),
		client.WithRetry(cfg.Client.RetryAttempts, cfg.Client.RetryDelay),
		client.WithRateLimit(cfg.Client.EnableRateLimit),
		client.WithMaxRequestsPerMinute(cfg.Client.MaxRequestsPerMinute),
	}

	if cfg.Cache.Enabled && cfg.Cache.Backend == "redis" {
		redisCfg := cache.DefaultRedisConfig()
		redisCfg.Address = cfg.Cache.Redis.Addr
		redisCfg.Password = cfg.Cache.Redis.Password
		redisCfg.DB = cfg.Cache.Redis.DB
		if cfg.Cache.Redis.Prefix != "" {
			redisCfg.KeyPrefix = cfg.Cache.Redis.Prefix
		}

		backend, err := cache.NewRedisCache(redisCfg, cache.Policy{
			DefaultTTL: cfg.Cache.MaxAge,
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		opts = append(opts, client.WithCacheBackend(backend))
	}

	if metrics != nil {
		opts = append(opts, client.WithMetrics(metrics))
	}

	return client.New(cfg.Upstream.Endpoint, tokens, opts...), nil
}

// buildObserver assembles telemetry from config. Logging always goes to
// stderr so the stdio transport keeps stdout.
func buildObserver(ctx context.Context, cfg *config.Config) (observe.Observer, error) {
	tracingEnabled := cfg.Observe.TracingExporter != "" && cfg.Observe.TracingExporter != "none"
	metricsEnabled := cfg.Observe.MetricsExporter != "" && cfg.Observe.MetricsExporter != "none"

	return observe.NewObserver(ctx, observe.Config{
		ServiceName: "govql",
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   tracingEnabled,
			Exporter:  cfg.Observe.TracingExporter,
			SamplePct: cfg.Observe.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  metricsEnabled,
			Exporter: cfg.Observe.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   cfg.Observe.LogLevel,
		},
	})
}
