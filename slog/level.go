package slog

import (
	"log/slog"
	"strings"

	"github.com/fwojciec/doclog"
)

// ParseLevel converts "debug", "info", "warn" or "error" to a slog.Level.
// Returns EINVALID for anything else.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, doclog.Errorf(doclog.EINVALID, "unknown log level %q", s)
	}
}
