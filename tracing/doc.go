// Package tracing wraps OpenTelemetry so the engine can record spans around
// policy operations without every caller importing the otel API. It is kept
// separate so applications that do not need tracing can leave it out.
package tracing
