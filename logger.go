package tastematch

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with tastematch-specific helpers.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithGroupID adds a group_id field to the logger.
func (l *Logger) WithGroupID(groupID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("group_id", groupID),
	}
}

// LogBestByRatings logs a rating-path best query.
func (l *Logger) LogBestByRatings(ctx context.Context, groupID, itemID string, score float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "best by ratings failed",
			"group_id", groupID,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "best by ratings completed",
			"group_id", groupID,
			"item_id", itemID,
			"score", score,
		)
	}
}

// LogBestBySimilarity logs a similarity-path best query.
func (l *Logger) LogBestBySimilarity(ctx context.Context, groupID, itemID string, similarity float32, candidates int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "best by similarity failed",
			"group_id", groupID,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "best by similarity completed",
			"group_id", groupID,
			"item_id", itemID,
			"similarity", similarity,
			"candidates", candidates,
		)
	}
}

// LogVectorUpsert logs a preference-vector recompute.
func (l *Logger) LogVectorUpsert(ctx context.Context, groupID, userID string, dimension int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "preference vector upsert failed",
			"group_id", groupID,
			"user_id", userID,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "preference vector upserted",
			"group_id", groupID,
			"user_id", userID,
			"dimension", dimension,
		)
	}
}

// LogFallback logs the similarity-to-ratings degradation.
func (l *Logger) LogFallback(ctx context.Context, groupID string, reason error) {
	l.InfoContext(ctx, "similarity path degraded to rating heuristic",
		"group_id", groupID,
		"reason", reason,
	)
}

// LogMemberSkipped logs a member excluded from the group vector.
func (l *Logger) LogMemberSkipped(ctx context.Context, groupID, userID string, reason error) {
	l.DebugContext(ctx, "member has no usable preference vector",
		"group_id", groupID,
		"user_id", userID,
		"reason", reason,
	)
}
