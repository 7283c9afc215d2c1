// Package auth supplies credentials for upstream calls and verifies
// credentials on inbound HTTP requests.
//
// The outbound side is the TokenProvider interface: a single "give me the
// current API token or fail" call used by the query client to build its
// Authorization header. The inbound side protects the HTTP serving mode
// with either a static bearer token or JWT verification.
package auth
