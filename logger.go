package vecseq

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with vecseq-specific helpers.
// Logs go to stderr; stdout is reserved for entry lines.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithLocation adds a location field to the logger.
func (l *Logger) WithLocation(loc Location) *Logger {
	return &Logger{
		Logger: l.Logger.With("location", loc.String()),
	}
}

// LogImport logs the outcome of an import.
func (l *Logger) LogImport(ctx context.Context, input, output string, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "import failed",
			"input", input,
			"output", output,
			"records", records,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "import completed",
		"input", input,
		"output", output,
		"records", records,
	)
}

// LogVerify logs the outcome of the verification pass.
func (l *Logger) LogVerify(ctx context.Context, output string, entries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "verification failed",
			"output", output,
			"entries", entries,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "verification completed",
		"output", output,
		"entries", entries,
	)
}

// LogDump logs the outcome of a dump.
func (l *Logger) LogDump(ctx context.Context, input string, entries int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dump failed",
			"input", input,
			"entries", entries,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "dump completed",
		"input", input,
		"entries", entries,
	)
}

// LogCluster logs the outcome of a clustering run.
func (l *Logger) LogCluster(ctx context.Context, output string, clusters, iterations int, converged bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clustering failed",
			"output", output,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "clustering completed",
		"output", output,
		"clusters", clusters,
		"iterations", iterations,
		"converged", converged,
	)
}
