package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/songscene/providers/ai"
)

// ErrNilProvider is returned by New when no provider is given.
var ErrNilProvider = errors.New("client: provider is nil")

// Client sends single-turn prompts through a provider.
type Client struct {
	provider         ai.Provider
	model            string
	systemPrompt     string
	generationConfig *ai.GenerationConfig
	responseFormat   *ai.ResponseFormat
	middlewares      []MiddlewareConfig
	send             SendFunc
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithModel sets the model sent with every request.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithSystemPrompt sets the system prompt sent with every request.
func WithSystemPrompt(prompt string) ClientOption {
	return func(c *Client) {
		c.systemPrompt = prompt
	}
}

// WithGenerationConfig sets sampling parameters.
func WithGenerationConfig(cfg ai.GenerationConfig) ClientOption {
	return func(c *Client) {
		c.generationConfig = &cfg
	}
}

// WithResponseFormat requests a response format such as json_object.
func WithResponseFormat(format ai.ResponseFormat) ClientOption {
	return func(c *Client) {
		c.responseFormat = &format
	}
}

// WithMiddleware appends middlewares to the chain. The first middleware is
// the outermost wrapper.
func WithMiddleware(middlewares ...MiddlewareConfig) ClientOption {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, middlewares...)
	}
}

// New creates a Client for provider.
func New(provider ai.Provider, opts ...ClientOption) (*Client, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}

	c := &Client{provider: provider}
	for _, opt := range opts {
		opt(c)
	}

	for i, mw := range c.middlewares {
		if mw.Send == nil {
			return nil, fmt.Errorf("client: middleware %d has a nil Send function", i)
		}
	}

	c.send = buildSendChain(provider, c.middlewares)
	return c, nil
}

// SendMessage sends prompt as a user message and returns the provider response.
func (c *Client) SendMessage(ctx context.Context, prompt string) (*ai.ChatResponse, error) {
	request := ai.ChatRequest{
		Model:            c.model,
		SystemPrompt:     c.systemPrompt,
		Messages:         []ai.Message{{Role: ai.RoleUser, Content: prompt}},
		GenerationConfig: c.generationConfig,
		ResponseFormat:   c.responseFormat,
	}
	return c.send(ctx, request)
}

// Available reports whether the provider is configured. Providers that do not
// report availability are assumed configured.
func (c *Client) Available() bool {
	if p, ok := c.provider.(interface{ Available() bool }); ok {
		return p.Available()
	}
	return true
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}
