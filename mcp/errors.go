package mcp

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/govql/client"
	"github.com/jonwraymond/govql/gov"
)

// errorText translates the client error taxonomy into user-facing tool
// output. Agents read these strings, so each names the failure class
// and, where possible, what to do about it.
func errorText(err error) string {
	var valErr *client.ValidationError
	if errors.As(err, &valErr) {
		return "Query validation failed: " + valErr.Reason
	}

	var rlErr *client.RateLimitError
	if errors.As(err, &rlErr) {
		return fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", rlErr.RetryAfter)
	}

	var authErr *client.AuthenticationError
	if errors.As(err, &authErr) {
		return "Authentication failed: check the configured API token."
	}

	var netErr *client.NetworkError
	if errors.As(err, &netErr) {
		if netErr.StatusCode != 0 {
			return fmt.Sprintf("Upstream API returned status %d.", netErr.StatusCode)
		}
		return "Network error reaching the upstream API."
	}

	var qErr *client.QueryError
	if errors.As(err, &qErr) {
		return "Upstream query failed: " + qErr.Error()
	}

	if errors.Is(err, gov.ErrNotFound) {
		return err.Error()
	}

	return "Error: " + err.Error()
}
