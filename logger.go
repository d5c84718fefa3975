package filltest

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/filltest/report"
)

// Logger is a slog.Logger with helpers for the records every run emits.
type Logger struct {
	*slog.Logger
}

// NewLogger logs through handler, or as text to stderr at Info when handler
// is nil.
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

// NewJSONLogger logs JSON lines to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger logs key=value text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// WithRunID tags every record with the run ID.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// WithDir adds the test directory.
func (l *Logger) WithDir(dir string) *Logger {
	if dir == "" {
		dir = "."
	}
	return &Logger{
		Logger: l.Logger.With("dir", dir),
	}
}

// LogRunStarted logs the start of a run.
func (l *Logger) LogRunStarted(ctx context.Context, cfg Config) {
	l.InfoContext(ctx, "run started",
		"seed", cfg.Seed,
		"file_size_mib", cfg.FileSizeMiB,
		"file_limit", cfg.FileLimit,
		"top_off", cfg.TopOff,
		"verify_only", cfg.VerifyOnly,
		"unlink_immediate", cfg.UnlinkImmediate,
	)
}

// LogCleanup logs a removal of test files.
func (l *Logger) LogCleanup(ctx context.Context, reason string, removed int, err error) {
	if err != nil {
		l.WarnContext(ctx, "cleanup failed",
			"reason", reason,
			"removed", removed,
			"error", err,
		)
	} else if removed > 0 {
		l.InfoContext(ctx, "files removed",
			"reason", reason,
			"removed", removed,
		)
	}
}

// LogRunCompleted logs the outcome of a run.
func (l *Logger) LogRunCompleted(ctx context.Context, r *report.Report, err error) {
	attrs := []any{
		"faults", r.Faults,
		"bytes_written", r.Metrics.Write.GrossBytes,
		"bytes_read", r.Metrics.Read.GrossBytes,
		"duration", r.Duration(),
	}
	switch {
	case err != nil:
		l.ErrorContext(ctx, "run aborted", append(attrs, "error", err)...)
	case r.Faults > 0:
		l.WarnContext(ctx, "run completed with faults", attrs...)
	default:
		l.InfoContext(ctx, "run completed", attrs...)
	}
}

// LogReport logs a report delivery.
func (l *Logger) LogReport(ctx context.Context, key string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "report delivery failed",
			"key", key,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "report delivered",
			"key", key,
		)
	}
}
