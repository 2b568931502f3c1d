// Package observe provides the logging, tracing and metrics used by the
// redirect service.
//
// Logging is built on log/slog with context-carried attributes, so fields
// appended to a request context (for example the title being resolved)
// appear on every line logged for that request. Tracing and metrics use
// OpenTelemetry with exporters selected by name (see package exporters).
package observe
