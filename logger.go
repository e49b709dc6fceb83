package usersearch

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with usersearch-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithCorpus adds the corpus hash to the logger.
func (l *Logger) WithCorpus(corpus uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("corpus", corpus),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogBuild logs an index build.
func (l *Logger) LogBuild(ctx context.Context, records, fields int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index build failed",
			"records", records,
			"fields", fields,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "index built",
			"records", records,
			"fields", fields,
		)
	}
}

// LogSearch logs a search. The query text itself is never logged.
func (l *Logger) LogSearch(ctx context.Context, queryLen, results int) {
	l.DebugContext(ctx, "search completed",
		"query_len", queryLen,
		"results", results,
	)
}

// LogCache logs an index cache lookup.
func (l *Logger) LogCache(ctx context.Context, corpus uint64, hit bool) {
	l.DebugContext(ctx, "index cache lookup",
		"corpus", corpus,
		"hit", hit,
	)
}

// LogRefresh logs a corpus refresh of a Live index.
func (l *Logger) LogRefresh(ctx context.Context, records int, changed bool, err error) {
	if err != nil {
		l.WarnContext(ctx, "corpus refresh failed, keeping previous index",
			"error", err,
		)
	} else if changed {
		l.InfoContext(ctx, "corpus refreshed",
			"records", records,
		)
	} else {
		l.DebugContext(ctx, "corpus unchanged",
			"records", records,
		)
	}
}
