package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init builds the process-wide default slog logger on stderr. When the
// report is written to stdout the handler is JSON so diagnostics never mix
// with the report stream; otherwise a text handler is used for readability.
func Init(reportOnStdout bool, level slog.Level) {
	slog.SetDefault(slog.New(handler(os.Stderr, reportOnStdout, level)))
}

func handler(w io.Writer, jsonFormat bool, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if jsonFormat {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel converts a level string ("debug", "info", "warn", "error")
// to its slog.Level. Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
