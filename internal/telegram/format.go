package telegram

import (
	"fmt"
	"strings"

	"github.com/leofalp/songscene/core/recovery"
)

// FormatResult renders result as a chat reply, one mention per line.
func FormatResult(query string, result recovery.Result) string {
	if len(result.Locations) == 0 {
		return fmt.Sprintf("No films, series or novelas found for %q.", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%q appears in:", query)
	for _, entry := range result.Locations {
		sb.WriteString("\n• ")
		sb.WriteString(formatEntry(entry))
	}
	return sb.String()
}

func formatEntry(entry recovery.MediaEntry) string {
	if entry.IsCompact() {
		return strings.TrimSpace(entry.Text)
	}

	line := entry.String()
	m := entry.Media

	var details []string
	switch {
	case m.Season != "" && m.Episode != "":
		details = append(details, fmt.Sprintf("S%s E%s", m.Season, m.Episode))
	case m.Season != "":
		details = append(details, "season "+m.Season)
	case m.Episode != "":
		details = append(details, "episode "+m.Episode)
	}
	if m.Singer != "" {
		details = append(details, "sung by "+m.Singer)
	}
	if m.Rating != "" {
		details = append(details, "rated "+m.Rating)
	}

	if len(details) == 0 {
		return line
	}
	return line + ", " + strings.Join(details, ", ")
}
