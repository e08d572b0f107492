package utils

import (
	"fmt"
	"unicode/utf8"
)

// DefaultMaxStringLength is the default maximum length for truncated strings.
const DefaultMaxStringLength = 500

// TruncateString shortens s to at most maxLen bytes, appending a suffix that
// records the original total length so readers know data was omitted. The
// cut backs off to a rune boundary so multi-byte characters (accents in
// Portuguese titles, for instance) are never split. If maxLen is zero or
// negative, [DefaultMaxStringLength] is used instead.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}

	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:cut], len(s))
}
