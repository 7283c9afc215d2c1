// Package gov builds governance queries and reshapes their responses.
//
// It is the domain layer between the protocol shell and the query
// client: each method assembles a query with typed variables, dispatches
// it through a Querier, and decodes the response envelope into domain
// structs. Formatting helpers render those structs as text for tool
// output.
//
// The package performs no caching, rate limiting, or retries of its
// own; all resilience lives behind the Querier.
package gov
