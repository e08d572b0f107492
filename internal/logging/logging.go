package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format is the log output format.
type Format string

const (
	// FormatText is slog's key=value text format.
	FormatText Format = "text"

	// FormatJSON is one JSON object per line, for log aggregation.
	FormatJSON Format = "json"

	// FormatCompact is a single line with JSON attributes, for terminals:
	// 2025-11-03 10:40:35  WARN llm response recovery failed → {"stage":"extract"}
	FormatCompact Format = "compact"
)

// ParseFormat parses "text", "json" or "compact" (case-insensitive). An empty
// string selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCompact:
		return FormatCompact, nil
	default:
		return FormatText, fmt.Errorf("unknown log format %q (want text, json or compact)", s)
	}
}

// New creates a logger writing to w in the given format at level.
func New(w io.Writer, format Format, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts))
	case FormatCompact:
		return slog.New(NewCompactHandler(w, level))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}
