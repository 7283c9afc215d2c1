package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonwraymond/govql/auth"
)

// Request is the wire form of an upstream query.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// ResponseError is a single application-level error from the upstream body.
type ResponseError struct {
	Message string `json:"message"`
}

// Response is the decoded upstream response body.
type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []ResponseError `json:"errors,omitempty"`
}

// Transport performs a single network dispatch of a query.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: failures are reported as *AuthenticationError or *NetworkError
//   so the client's retry policy can classify them. A response that decodes
//   cleanly is returned even when it carries application-level errors; the
//   client decides how to surface those.
type Transport interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

// HTTPTransport dispatches queries as JSON POSTs to a single endpoint,
// attaching a bearer token from the token provider.
type HTTPTransport struct {
	endpoint string
	tokens   auth.TokenProvider
	timeout  time.Duration
	client   *http.Client
}

// NewHTTPTransport creates a transport for the given endpoint.
func NewHTTPTransport(endpoint string, tokens auth.TokenProvider, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPTransport{
		endpoint: endpoint,
		tokens:   tokens,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

// Send performs one POST to the endpoint. A timeout is treated the same as
// any other transport failure and surfaces as *NetworkError.
func (t *HTTPTransport) Send(ctx context.Context, req Request) (*Response, error) {
	token, err := t.tokens.Token(ctx)
	if err != nil {
		return nil, &AuthenticationError{Err: err}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("encode request: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &NetworkError{StatusCode: resp.StatusCode}
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("decode response: %w", err)}
	}

	return &decoded, nil
}

// Ensure HTTPTransport implements Transport
var _ Transport = (*HTTPTransport)(nil)
