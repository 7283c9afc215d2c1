// Package client provides the resilient query client through which all
// upstream governance-API calls flow.
//
// A single Query call composes, in order: optional syntax and variable
// validation, cache lookup, rate-limit admission, network dispatch with
// bearer-token injection, fixed-delay retry for transient failures, and
// cache population on success.
//
// Failure kinds are distinguishable without string matching:
//
//   - ValidationError: malformed query or missing required variables;
//     never retried, no network call is attempted.
//   - RateLimitError: self-imposed admission denial or an upstream 429;
//     carries a retry-after estimate in seconds; never retried here.
//   - NetworkError: transport failure, timeout, decode failure, or a
//     non-2xx status other than 429; retried up to the configured budget.
//   - QueryError: a transport-level success whose body carries
//     application-level errors; never retried.
//   - AuthenticationError: the token provider could not supply a token;
//     fails fast with no network attempt.
//
// The client performs no logging; errors are raised to the caller, which
// decides whether to surface, wrap, or suppress them.
package client
