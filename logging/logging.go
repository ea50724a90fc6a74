// Package logging configures the structured logger of the snapdiff commands.
//
// Every command run gets its own identifier, attached to all the records it
// emits, so that the output of a scripted batch of comparisons can be told
// apart.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Setup configures the global slog logger based on level and format, writing to w.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(w io.Writer, level, format string) *slog.Logger {
	l := New(w, level, format)
	slog.SetDefault(l)
	return l
}

// New returns a logger without changing the global one.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRun returns a logger carrying a fresh run_id, and the id.
func WithRun(l *slog.Logger) (*slog.Logger, string) {
	if l == nil {
		l = slog.Default()
	}
	id := uuid.NewString()
	return l.With("run_id", id), id
}

// WithFields returns a logger with additional structured fields.
//
// Usage:
//
//	log := logging.WithFields(app.Logger, "before", t1.Name(), "after", t2.Name())
//	snapdiff.NewComparator(log).Compare(t1, t2, opts)
func WithFields(l *slog.Logger, args ...any) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With(args...)
}
