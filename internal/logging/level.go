package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LevelFromEnv returns the log level configured via environment variables.
// It checks SONGSCENE_LOG_LEVEL first, then falls back to LOG_LEVEL.
// Default: INFO
func LevelFromEnv() (slog.Level, error) {
	level := os.Getenv("SONGSCENE_LOG_LEVEL")
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		return slog.LevelInfo, nil
	}

	return ParseLevel(level)
}

// ParseLevel parses DEBUG, INFO, WARN, WARNING or ERROR (case-insensitive).
// Unknown values return INFO and an error.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
