package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// CompactHandler writes one line per record: time, level, message and the
// attributes as a JSON object. Levels are colored when writing to a terminal.
type CompactHandler struct {
	level  slog.Level
	colors bool
	mu     *sync.Mutex
	output io.Writer
	attrs  []slog.Attr
	groups []string
}

// NewCompactHandler creates a CompactHandler writing to w.
func NewCompactHandler(w io.Writer, level slog.Level) *CompactHandler {
	var colors bool
	if f, ok := w.(*os.File); ok {
		colors = isTerminal(f)
	}

	return &CompactHandler{
		level:  level,
		colors: colors,
		mu:     &sync.Mutex{},
		output: w,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *CompactHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes a log record.
func (h *CompactHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)

	buf = append(buf, r.Time.Format("2006-01-02 15:04:05")...)
	buf = append(buf, ' ')

	level := fmt.Sprintf("%5s", levelString(r.Level))
	if h.colors {
		buf = append(buf, colorForLevel(r.Level)...)
		buf = append(buf, level...)
		buf = append(buf, colorReset...)
	} else {
		buf = append(buf, level...)
	}
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	if attrs := h.collectAttrs(r); len(attrs) > 0 {
		buf = append(buf, " → "...)
		data, err := json.Marshal(attrs)
		if err != nil {
			buf = append(buf, "[json-error]"...)
		} else {
			buf = append(buf, data...)
		}
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.output.Write(buf)
	return err
}

// WithAttrs returns a new handler with additional attributes.
func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), h.qualify(attrs)...)
	return &clone
}

// WithGroup returns a new handler that prefixes later attribute keys with name.
func (h *CompactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

// collectAttrs merges handler and record attributes. Error values are
// rendered with Error() so they do not marshal as {}.
func (h *CompactHandler) collectAttrs(r slog.Record) map[string]any {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		attrs[attr.Key] = attrValue(attr.Value)
	}
	r.Attrs(func(attr slog.Attr) bool {
		for _, qualified := range h.qualify([]slog.Attr{attr}) {
			attrs[qualified.Key] = attrValue(qualified.Value)
		}
		return true
	})
	return attrs
}

func (h *CompactHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if len(h.groups) == 0 {
		return attrs
	}
	prefix := ""
	for _, group := range h.groups {
		prefix += group + "."
	}
	out := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		out[i] = slog.Attr{Key: prefix + attr.Key, Value: attr.Value}
	}
	return out
}

func attrValue(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format("2006-01-02T15:04:05")
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	return v.Any()
}

func levelString(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
)

func colorForLevel(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return colorBlue
	case level < slog.LevelWarn:
		return colorGreen
	case level < slog.LevelError:
		return colorYellow
	default:
		return colorRed
	}
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
