package recovery

import "strings"

// extractRegion returns the text from the first '{' through the last '}'.
// Anchoring on the last brace, not the nearest one, keeps nested objects
// intact. When no '}' follows the first '{' the completion was cut off before
// any object closed, and the region runs to the end of the text.
func extractRegion(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoJSONFound
	}

	end := strings.LastIndexByte(text, '}')
	if end < start {
		return strings.TrimRightFunc(text[start:], isSpace), nil
	}
	return text[start : end+1], nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
