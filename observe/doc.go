// Package observe provides logging, metrics, and tracing for the adapter.
//
// It wires OpenTelemetry tracing and metrics behind a single Observer,
// with exporters selected by configuration, and provides a minimal
// structured JSON logger that writes to stderr so the stdio protocol
// transport keeps exclusive use of stdout.
package observe
