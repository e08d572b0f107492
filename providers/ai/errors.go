package ai

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/leofalp/songscene/internal/utils"
)

// Error kinds reported by providers. An *APIError unwraps to one of them.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidCredentials  = errors.New("invalid API key")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrProviderFailure     = errors.New("provider request failed")
)

// apiErrorBodyLen bounds the response body quoted in Error().
const apiErrorBodyLen = 200

// APIError is a failed provider call. StatusCode is 0 when no HTTP response
// was received.
type APIError struct {
	StatusCode int
	Body       string
	Kind       error
	Cause      error
}

func (e *APIError) Error() string {
	msg := e.kind().Error()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Body != "" {
		msg += ": " + utils.TruncateString(e.Body, apiErrorBodyLen)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is / errors.As.
func (e *APIError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.kind()}
	}
	return []error{e.kind(), e.Cause}
}

// kind returns Kind, or ErrProviderFailure when it was left unset.
func (e *APIError) kind() error {
	if e.Kind == nil {
		return ErrProviderFailure
	}
	return e.Kind
}

// ClassifyStatus maps an HTTP status code to an error kind.
func ClassifyStatus(code int) error {
	switch code {
	case http.StatusPaymentRequired:
		return ErrInsufficientBalance
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrProviderFailure
	}
}

// NewAPIError builds an APIError for a non-2xx response.
func NewAPIError(statusCode int, body string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Body:       body,
		Kind:       ClassifyStatus(statusCode),
	}
}
