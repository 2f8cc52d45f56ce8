package sdmgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with sdmgo-specific context.
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

// LogWrite logs a write operation.
func (l *Logger) LogWrite(ctx context.Context, activated, strength int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "write completed",
			"activated", activated,
			"strength", strength,
		)
	}
}

// LogRead logs a read operation.
func (l *Logger) LogRead(ctx context.Context, confidence float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "read failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "read completed",
			"confidence", confidence,
		)
	}
}

// LogMerge logs a library merge operation.
func (l *Logger) LogMerge(ctx context.Context, name string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "library merge failed",
			"library", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "library merged",
			"library", name,
			"vectors", count,
		)
	}
}

// LogStateSave logs a state persistence operation.
func (l *Logger) LogStateSave(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "state save failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "state saved")
	}
}

// LogStateLoad logs a state reload operation.
func (l *Logger) LogStateLoad(ctx context.Context, loaded bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "state load failed",
			"error", err,
		)
	} else if loaded {
		l.InfoContext(ctx, "state loaded")
	} else {
		l.InfoContext(ctx, "no persisted state, starting fresh")
	}
}

// LogFlush logs a full flush (config + state + stats).
func (l *Logger) LogFlush(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "flush failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "flush completed")
	}
}
