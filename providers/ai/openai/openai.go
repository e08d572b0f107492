package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/leofalp/songscene/internal/utils"
	"github.com/leofalp/songscene/providers/ai"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"
)

// ErrMissingAPIKey is returned by SendMessage before any network I/O when no
// API key is configured.
var ErrMissingAPIKey = errors.New("API key is not set")

// OpenAIProvider implements the Provider interface for OpenAI-compatible APIs
type OpenAIProvider struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	capabilities *Capabilities // nil means detect from baseURL
}

// New creates a new OpenAI provider instance with default values
func New() *OpenAIProvider {
	apiKey := os.Getenv("OPENAI_API_KEY")
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// WithAPIKey sets the API key for the provider
func (p *OpenAIProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API
func (p *OpenAIProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client
func (p *OpenAIProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// WithCapabilities overrides capability detection.
func (p *OpenAIProvider) WithCapabilities(capabilities Capabilities) *OpenAIProvider {
	p.capabilities = &capabilities
	return p
}

// Capabilities returns the override set with WithCapabilities, or the
// capabilities detected from the base URL.
func (p *OpenAIProvider) Capabilities() Capabilities {
	if p.capabilities != nil {
		return *p.capabilities
	}
	return detectCapabilities(p.baseURL)
}

// Available reports whether the provider has both an API key and a base URL.
func (p *OpenAIProvider) Available() bool {
	return p.apiKey != "" && p.baseURL != ""
}

// SendMessage implements the Provider interface
func (p *OpenAIProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	capabilities := p.Capabilities()
	body := requestToChatCompletion(request, capabilities)

	httpResponse, resp, err := utils.DoPostSync[chatCompletionResponse](ctx, p.client, p.baseURL+chatCompletionsEndpoint, p.apiKey, body)
	if err != nil {
		var statusErr *utils.StatusError
		if errors.As(err, &statusErr) {
			return nil, ai.NewAPIError(statusErr.StatusCode, statusErr.Body)
		}
		return nil, &ai.APIError{Kind: ai.ErrProviderFailure, Cause: err}
	}

	if resp == nil {
		return nil, &ai.APIError{Kind: ai.ErrProviderFailure, StatusCode: httpResponse.StatusCode, Cause: fmt.Errorf("empty response: %s", httpResponse.Status)}
	}

	if len(resp.Choices) == 0 {
		return nil, &ai.APIError{Kind: ai.ErrProviderFailure, StatusCode: httpResponse.StatusCode, Cause: errors.New("no choices in response")}
	}

	return chatCompletionToGeneric(*resp), nil
}
