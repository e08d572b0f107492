// Package openai implements [ai.Provider] for OpenAI-compatible
// /chat/completions endpoints (OpenAI, DeepSeek, Azure, OpenRouter, Ollama).
//
// The main entry point is [New], which reads OPENAI_API_KEY and
// OPENAI_API_BASE_URL from the environment. Use [OpenAIProvider.WithAPIKey]
// and [OpenAIProvider.WithBaseURL] to override them programmatically.
// Capabilities such as JSON mode are detected from the base URL and can be
// overridden with [OpenAIProvider.WithCapabilities].
package openai
