package ai

import (
	"context"
	"net/http"
)

// Provider is the interface every chat completion backend satisfies. It
// covers authentication, endpoint configuration and a single synchronous
// request/response exchange.
type Provider interface {
	// SendMessage sends a chat request and returns the completed response.
	// Failures are returned as errors whose kind can be matched with
	// errors.Is (see ClassifyStatus).
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// WithAPIKey sets the API key used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}
