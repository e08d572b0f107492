package openai

import "strings"

// Capabilities is the feature set supported by an OpenAI-compatible endpoint.
// It is populated by [detectCapabilities] and can be overridden via
// [OpenAIProvider.WithCapabilities] for non-standard hosts.
type Capabilities struct {
	// SupportsJSONMode enables response_format {"type":"json_object"}.
	SupportsJSONMode bool
}

// detectCapabilities attempts to detect provider capabilities based on baseURL
func detectCapabilities(baseURL string) Capabilities {
	baseURL = strings.ToLower(baseURL)

	switch {
	// Real OpenAI API
	case strings.Contains(baseURL, "api.openai.com"):
		return Capabilities{SupportsJSONMode: true}

	case strings.Contains(baseURL, "deepseek.com"):
		return Capabilities{SupportsJSONMode: true}

	// Azure OpenAI
	case strings.Contains(baseURL, "azure.com") || strings.Contains(baseURL, "openai.azure"):
		return Capabilities{SupportsJSONMode: true}

	// OpenRouter, depends on model
	case strings.Contains(baseURL, "openrouter.ai"):
		return Capabilities{SupportsJSONMode: true}
	}

	// Conservative defaults for unknown providers (Ollama, self-hosted)
	return Capabilities{}
}
