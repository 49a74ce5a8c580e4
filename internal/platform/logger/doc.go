// Package logger provides structured logging functionality for the application.
//
// It builds JSON loggers on Go's standard library log/slog package with a
// configurable level, masks credential attributes, and carries request-scoped
// loggers through context.Context.
package logger
