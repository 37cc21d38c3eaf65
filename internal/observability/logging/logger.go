// Package logging provides the builder's structured logger setup on top of
// the standard library's log/slog.
package logging

import (
	"log/slog"
	"os"
)

// NewLogger creates a JSON-output structured logger at the given level
// ("debug", "info", "warn", "error"; anything else means info) and installs
// it as the process default.
func NewLogger(level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
		// Source locations only matter once something goes wrong.
		AddSource: logLevel >= slog.LevelWarn,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
