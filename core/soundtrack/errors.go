package soundtrack

import (
	"errors"
	"net/http"

	"github.com/leofalp/songscene/providers/ai"
)

var (
	// ErrEmptyQuery is returned for a blank song query.
	ErrEmptyQuery = errors.New("music query is required")

	// ErrNotConfigured is returned when the upstream has no API key or base URL.
	ErrNotConfigured = errors.New("LLM API key or base URL not configured")
)

// StatusCode maps an error returned by Finder.Find to an HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotConfigured):
		return http.StatusInternalServerError
	case errors.Is(err, ai.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, ai.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ai.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for an error returned by
// Finder.Find. Provider details stay in the logs.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyQuery):
		return "Music query is required"
	case errors.Is(err, ErrNotConfigured):
		return "LLM API key or base URL not configured"
	case errors.Is(err, ai.ErrInsufficientBalance):
		return "LLM API: Insufficient balance. Please add credits to your account."
	case errors.Is(err, ai.ErrInvalidCredentials):
		return "LLM API: Invalid API key. Please check your credentials."
	case errors.Is(err, ai.ErrRateLimited):
		return "LLM API: Rate limit exceeded. Please try again later."
	default:
		return "Failed to get response from LLM"
	}
}
