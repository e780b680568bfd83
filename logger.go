package graphidx

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/graphidx/index"
	"github.com/hupe1980/graphidx/schema"
)

// Logger wraps slog.Logger with graphidx-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithIndex adds the index's canonical name to the logger.
func (l *Logger) WithIndex(d schema.Descriptor) *Logger {
	return &Logger{
		Logger: l.Logger.With("index", d.String()),
	}
}

// WithMode adds the update mode to the logger.
func (l *Logger) WithMode(mode index.UpdateMode) *Logger {
	return &Logger{
		Logger: l.Logger.With("mode", mode.String()),
	}
}

// LogApply logs one apply batch.
func (l *Logger) LogApply(ctx context.Context, mode index.UpdateMode, changes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "apply failed",
			"mode", mode.String(),
			"changes", changes,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "apply completed",
			"mode", mode.String(),
			"changes", changes,
		)
	}
}

// LogRefreshAll logs a full-catalog refresh.
func (l *Logger) LogRefreshAll(ctx context.Context, indexes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "refresh failed",
			"indexes", indexes,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "refresh completed",
			"indexes", indexes,
		)
	}
}
