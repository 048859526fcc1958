package appstorage

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger so handle operations log with consistent
// field names (path, name, policy).
type Logger struct {
	*slog.Logger
}

// NewTextLogger creates a Logger that outputs human-readable text logs
// to stderr. level sets the minimum log level.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to
// stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})),
	}
}

// NoopLogger creates a Logger that discards all log output. This is
// the default for handles obtained without WithLogger.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
