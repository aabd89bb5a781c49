// Package logger sets up the structured application logger.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

// Setup builds a JSON logger writing to w at the given level and installs it
// as the slog default. Unknown levels fall back to info.
func Setup(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}
