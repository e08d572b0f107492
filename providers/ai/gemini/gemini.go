package gemini

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/leofalp/songscene/providers/ai"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash-lite"
	apiKeyHeader   = "x-goog-api-key"
)

// ErrMissingAPIKey is returned by SendMessage before any network I/O when no
// API key is configured.
var ErrMissingAPIKey = errors.New("API key is not set")

// GeminiProvider implements the ai.Provider interface for Google's Gemini API.
type GeminiProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a new Gemini provider instance with default values from environment.
// Environment variables:
//   - GEMINI_API_KEY: API key for authentication
//   - GEMINI_API_BASE_URL: Base URL for API (optional, defaults to Google's API)
func New() *GeminiProvider {
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GeminiProvider{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: baseURL,
	}
}

// WithAPIKey sets the API key for the provider.
func (p *GeminiProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API.
func (p *GeminiProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client. The API key is still attached to
// every request.
func (p *GeminiProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// Available reports whether the provider has an API key.
func (p *GeminiProvider) Available() bool {
	return p.apiKey != ""
}

// SendMessage implements the ai.Provider interface. A single user message is
// sent with GenerateContent; longer conversations replay the earlier turns as
// chat history.
func (p *GeminiProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if len(request.Messages) == 0 {
		return nil, &ai.APIError{Kind: ai.ErrProviderFailure, Cause: errors.New("no messages to send")}
	}

	client, err := genai.NewClient(ctx, p.clientOptions()...)
	if err != nil {
		return nil, &ai.APIError{Kind: ai.ErrProviderFailure, Cause: err}
	}
	defer client.Close()

	modelName := request.Model
	if modelName == "" {
		modelName = defaultModel
	}
	model := client.GenerativeModel(modelName)
	configureModel(model, request)

	history, last := splitMessages(request.Messages)

	var resp *genai.GenerateContentResponse
	if len(history) == 0 {
		resp, err = model.GenerateContent(ctx, genai.Text(last))
	} else {
		chat := model.StartChat()
		chat.History = history
		resp, err = chat.SendMessage(ctx, genai.Text(last))
	}
	if err != nil {
		return nil, classifyError(err)
	}

	return responseToGeneric(resp, modelName)
}

func (p *GeminiProvider) clientOptions() []option.ClientOption {
	opts := []option.ClientOption{option.WithAPIKey(p.apiKey)}
	if p.baseURL != "" && p.baseURL != defaultBaseURL {
		opts = append(opts, option.WithEndpoint(p.baseURL))
	}
	if p.client != nil {
		// WithHTTPClient bypasses the SDK transport, so the key travels in a header
		base := p.client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		httpClient := *p.client
		httpClient.Transport = &apiKeyTransport{key: p.apiKey, base: base}
		opts = append(opts, option.WithHTTPClient(&httpClient))
	}
	return opts
}

type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(apiKeyHeader, t.key)
	return t.base.RoundTrip(req)
}
