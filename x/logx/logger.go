// Package logx builds the structured logger used by host-side tools.
// Firmware images print with println instead.
package logx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a logger writing text to stderr, keeping stdout free for the
// simulated terminal. The "error" key is standardised to "err".
func New(level slog.Level) *slog.Logger {
	return NewTo(os.Stderr, level)
}

func NewTo(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug/info/warn/error (any case) to a level; anything
// else is info.
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
