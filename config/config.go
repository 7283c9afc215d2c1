// Package config loads and validates server configuration from YAML,
// with strict environment-variable expansion for secrets.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/govql/auth"
)

// Config holds all govql configuration.
type Config struct {
	Upstream UpstreamConfig `yaml:"upstream"`
	Client   ClientConfig   `yaml:"client"`
	Cache    CacheConfig    `yaml:"cache"`
	Serve    ServeConfig    `yaml:"serve"`
	Observe  ObserveConfig  `yaml:"observe"`
}

// UpstreamConfig identifies the governance API.
type UpstreamConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

// ClientConfig carries the query client knobs.
type ClientConfig struct {
	ValidateQueries      bool          `yaml:"validate_queries"`
	Timeout              time.Duration `yaml:"timeout"`
	RetryAttempts        int           `yaml:"retry_attempts"`
	RetryDelay           time.Duration `yaml:"retry_delay"`
	EnableRateLimit      bool          `yaml:"enable_rate_limit"`
	MaxRequestsPerMinute int           `yaml:"max_requests_per_minute"`
}

// CacheConfig controls query result memoization.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	MaxAge  time.Duration `yaml:"max_age"`
	Backend string        `yaml:"backend"` // memory|redis
	Redis   RedisConfig   `yaml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// ServeConfig controls the serving mode.
type ServeConfig struct {
	// HTTP enables HTTP serving on the given address; empty means stdio.
	HTTP string          `yaml:"http"`
	Auth ServeAuthConfig `yaml:"auth"`
}

// ServeAuthConfig controls inbound authentication for the HTTP mode.
type ServeAuthConfig struct {
	// Mode is "none", "bearer", or "jwt".
	Mode string `yaml:"mode"`

	// Token is the expected bearer token when Mode is "bearer".
	Token string `yaml:"token"`

	// JWTSecret signs tokens when Mode is "jwt".
	JWTSecret string `yaml:"jwt_secret"`

	// Issuer and Audience are enforced on JWTs when set.
	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
}

// ObserveConfig controls logging and telemetry.
type ObserveConfig struct {
	LogLevel        string  `yaml:"log_level"`
	TracingExporter string  `yaml:"tracing_exporter"` // otlp|stdout|none
	MetricsExporter string  `yaml:"metrics_exporter"` // otlp|prometheus|stdout|none
	SamplePct       float64 `yaml:"sample_pct"`
}

// Default returns a Config with the documented defaults.
func Default() *Config {
	return &Config{
		Upstream: UpstreamConfig{},
		Client: ClientConfig{
			ValidateQueries:      false,
			Timeout:              30 * time.Second,
			RetryAttempts:        0,
			RetryDelay:           time.Second,
			EnableRateLimit:      true,
			MaxRequestsPerMinute: 30,
		},
		Cache: CacheConfig{
			Enabled: true,
			MaxAge:  5 * time.Minute,
			Backend: "memory",
		},
		Serve: ServeConfig{
			Auth: ServeAuthConfig{Mode: "none"},
		},
		Observe: ObserveConfig{
			LogLevel:        "info",
			TracingExporter: "none",
			MetricsExporter: "none",
			SamplePct:       1.0,
		},
	}
}

// Load reads a YAML config file, expands ${VAR} references strictly,
// and validates the result. Missing referenced variables are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded, err := auth.ExpandEnvStrict(string(data))
	if err != nil {
		return nil, fmt.Errorf("expand config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// GOVQL_API_KEY is the conventional fallback when the file carries
	// no key of its own.
	if cfg.Upstream.APIKey == "" {
		cfg.Upstream.APIKey = os.Getenv("GOVQL_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Upstream.Endpoint == "" {
		return errors.New("config: upstream.endpoint is required")
	}

	switch c.Cache.Backend {
	case "", "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return errors.New("config: cache.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Serve.Auth.Mode {
	case "", "none":
	case "bearer":
		if c.Serve.Auth.Token == "" {
			return errors.New("config: serve.auth.token is required for bearer mode")
		}
	case "jwt":
		if c.Serve.Auth.JWTSecret == "" {
			return errors.New("config: serve.auth.jwt_secret is required for jwt mode")
		}
	default:
		return fmt.Errorf("config: unknown auth mode %q", c.Serve.Auth.Mode)
	}

	if c.Client.RetryAttempts < 0 {
		return errors.New("config: client.retry_attempts must not be negative")
	}
	if c.Client.MaxRequestsPerMinute <= 0 {
		return errors.New("config: client.max_requests_per_minute must be positive")
	}

	return nil
}
