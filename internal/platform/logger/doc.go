// Package logger provides structured logging functionality for the application.
//
// It builds on log/slog: Setup produces the process-wide JSON logger, and the
// context helpers let request-scoped loggers (carrying trace IDs and user IDs)
// travel through handlers, services and stores.
package logger
