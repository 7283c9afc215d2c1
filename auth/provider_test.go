package auth

import (
	"context"
	"errors"
	"testing"
)

func TestStaticTokenProvider(t *testing.T) {
	ctx := context.Background()

	p := NewStaticTokenProvider("  secret-token  ")
	token, err := p.Token(ctx)
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "secret-token" {
		t.Errorf("Token() = %q, want %q", token, "secret-token")
	}
}

func TestStaticTokenProvider_Empty(t *testing.T) {
	p := NewStaticTokenProvider("")
	_, err := p.Token(context.Background())
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("Token() error = %v, want ErrNoToken", err)
	}
}

func TestEnvTokenProvider(t *testing.T) {
	t.Setenv("GOVQL_TEST_TOKEN", "env-token")

	p := NewEnvTokenProvider("GOVQL_TEST_TOKEN")
	token, err := p.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "env-token" {
		t.Errorf("Token() = %q, want %q", token, "env-token")
	}
}

func TestEnvTokenProvider_Unset(t *testing.T) {
	p := NewEnvTokenProvider("GOVQL_TEST_TOKEN_UNSET")
	_, err := p.Token(context.Background())
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("Token() error = %v, want ErrNoToken", err)
	}
}

func TestEnvTokenProvider_EmptyValue(t *testing.T) {
	t.Setenv("GOVQL_TEST_TOKEN_EMPTY", "   ")

	p := NewEnvTokenProvider("GOVQL_TEST_TOKEN_EMPTY")
	_, err := p.Token(context.Background())
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("Token() error = %v, want ErrNoToken", err)
	}
}
