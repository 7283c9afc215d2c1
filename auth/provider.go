package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Sentinel errors for credential resolution.
var (
	// ErrNoToken is returned when no API token is configured.
	ErrNoToken = errors.New("auth: no API token configured")
)

// TokenProvider supplies the upstream API token on demand.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: a missing or empty token is reported as ErrNoToken (possibly
//   wrapped); implementations must not return an empty token with nil error.
// - Secrecy: implementations must not log token values.
type TokenProvider interface {
	// Token returns the current API token.
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider holds a fixed token resolved at construction.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a provider for a fixed token.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: strings.TrimSpace(token)}
}

// Token returns the configured token, or ErrNoToken when empty.
func (p *StaticTokenProvider) Token(_ context.Context) (string, error) {
	if p.token == "" {
		return "", ErrNoToken
	}
	return p.token, nil
}

// EnvTokenProvider reads the token from an environment variable on every
// call, so token rotation does not require a restart.
type EnvTokenProvider struct {
	variable string
}

// NewEnvTokenProvider creates a provider reading the given environment
// variable.
func NewEnvTokenProvider(variable string) *EnvTokenProvider {
	return &EnvTokenProvider{variable: variable}
}

// Token returns the variable's current value, or ErrNoToken when the
// variable is unset or empty.
func (p *EnvTokenProvider) Token(_ context.Context) (string, error) {
	value, ok := os.LookupEnv(p.variable)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: environment variable %s is not set", ErrNoToken, p.variable)
	}
	return strings.TrimSpace(value), nil
}

// Ensure providers implement TokenProvider
var (
	_ TokenProvider = (*StaticTokenProvider)(nil)
	_ TokenProvider = (*EnvTokenProvider)(nil)
)
