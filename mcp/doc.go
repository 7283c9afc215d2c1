// Package mcp implements the protocol server shell: a JSON-RPC 2.0
// server speaking the Model Context Protocol, exposing governance
// queries as tools and readable resources.
//
// The server reads newline-delimited requests from an io.Reader and
// writes responses to an io.Writer. Over stdio the writer is stdout,
// so all logging goes to stderr. The same dispatch path serves the
// HTTP mode, where each POST body carries one request.
package mcp
