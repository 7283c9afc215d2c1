package client

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a malformed query or missing required variables.
// It is a caller error: no network call was attempted.
type ValidationError struct {
	// Reason describes what failed validation.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("client: %s", e.Reason)
}

// RateLimitError reports a self-imposed admission denial or an upstream
// 429 response. The client never retries it; callers decide whether and
// when to try again.
type RateLimitError struct {
	// RetryAfter is the suggested wait before retrying, in seconds.
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("client: rate limit exceeded, retry after %ds", e.RetryAfter)
}

// NetworkError reports a transport failure, timeout, response-decode
// failure, or a non-2xx HTTP status other than 429. It is retried up to
// the configured attempt budget.
type NetworkError struct {
	// StatusCode is the HTTP status, or 0 for transport-level failures.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("client: upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("client: network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// QueryError reports application-level errors carried in an otherwise
// successful response body. The request succeeded at the transport level,
// so it is never retried.
type QueryError struct {
	// Messages holds the individual error messages from the response.
	Messages []string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("client: query failed: %s", strings.Join(e.Messages, "; "))
}

// AuthenticationError reports that the token provider could not supply a
// token. It fails fast: no network attempt is made and it is not retried.
type AuthenticationError struct {
	// Err is the underlying provider failure.
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("client: authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// isRetryable reports whether the error is worth another network attempt.
// Only NetworkError qualifies; 429 responses are translated to
// RateLimitError before this check, so they never re-enter the loop.
func isRetryable(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
