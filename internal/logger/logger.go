package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds a JSON logger at the named level (debug, info, warn, error).
// Output defaults to stderr so command output on stdout stays clean.
func New(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(h)
}

// ParseLevel falls back to warn for anything it doesn't recognise.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dev":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}
