// Package log decouples the daemon loop from a concrete logging backend.
package log

import "log/slog"

// Logger is the subset of slog the daemon needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NOOPLogger discards everything.
type NOOPLogger struct{}

func (NOOPLogger) Debug(msg string, args ...any) {}

func (NOOPLogger) Info(msg string, args ...any) {}

func (NOOPLogger) Warn(msg string, args ...any) {}

func (NOOPLogger) Error(msg string, args ...any) {}

// Default returns the process-wide slog logger.
func Default() Logger {
	return slog.Default()
}
