package vertigo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with vertigo-specific context.
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

// WithBase adds a shard set base field to the logger.
func (l *Logger) WithBase(base string) *Logger {
	return &Logger{
		Logger: l.Logger.With("base", base),
	}
}

// WithIteration adds an iteration field to the logger.
func (l *Logger) WithIteration(iteration int) *Logger {
	return &Logger{
		Logger: l.Logger.With("iteration", iteration),
	}
}

// WithShard adds a shard field to the logger.
func (l *Logger) WithShard(shard int) *Logger {
	return &Logger{
		Logger: l.Logger.With("shard", shard),
	}
}

// LogConvert logs an edge-list conversion.
func (l *Logger) LogConvert(ctx context.Context, input, base string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "convert failed",
			"input", input,
			"base", base,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "convert completed",
			"input", input,
			"base", base,
		)
	}
}

// LogRun logs an algorithm run over a shard set.
func (l *Logger) LogRun(ctx context.Context, algorithm string, iterations int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"algorithm", algorithm,
			"iterations", iterations,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "run completed",
			"algorithm", algorithm,
			"iterations", iterations,
		)
	}
}
