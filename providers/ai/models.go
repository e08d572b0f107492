package ai

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // Conversation messages except the system prompt
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system prompt
	ResponseFormat   *ResponseFormat   `json:"response_format,omitempty"`   // Optional response format
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional generation configuration
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	Reasoning string `json:"reasoning,omitempty"` // Chain-of-thought returned by reasoning models
}

// GenerationConfig holds sampling parameters. Temperature is a pointer so an
// explicit 0 (deterministic output) is distinguishable from unset.
type GenerationConfig struct {
	MaxTokens   int      `json:"max_tokens,omitempty"`  // Optional max tokens for the response
	Temperature *float32 `json:"temperature,omitempty"` // Sampling temperature [0..2]. Lower => more deterministic.
	TopP        float32  `json:"top_p,omitempty"`       // Nucleus (top-p) sampling [0..1]
}

// Temperature returns a pointer to t for use in GenerationConfig.
func Temperature(t float32) *float32 {
	return &t
}

type ResponseFormat struct {
	Type string `json:"type,omitempty"` // "text" or "json_object"
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`

	ReasoningTokens int `json:"reasoning_tokens,omitempty"`
	CachedTokens    int `json:"cached_tokens,omitempty"`
}

// ChatResponse represents the response from a chat completion
type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"`
	Object       string `json:"object"`
	Created      int64  `json:"created"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`

	Refusal   string `json:"refusal,omitempty"`   // If model refuses to respond (safety/policy)
	Reasoning string `json:"reasoning,omitempty"` // Chain-of-thought, separated from Content
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
)

const (
	ResponseFormatText       = "text"
	ResponseFormatJSONObject = "json_object"
)
