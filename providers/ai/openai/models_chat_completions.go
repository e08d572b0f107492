package openai

import (
	"strings"

	"github.com/leofalp/songscene/providers/ai"
)

/*
	CHAT COMPLETIONS API - INPUT
*/

// chatCompletionRequest represents the /v1/chat/completions request format
type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    *float64            `json:"temperature,omitempty"`
	TopP           *float64            `json:"top_p,omitempty"`
	MaxTokens      *int                `json:"max_tokens,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"` // "text", "json_object"
}

/*
	CHAT COMPLETIONS API - OUTPUT
*/

type chatCompletionResponse struct {
	ID                string       `json:"id"`
	Object            string       `json:"object"` // "chat.completion"
	Created           int64        `json:"created"`
	Model             string       `json:"model"`
	SystemFingerprint string       `json:"system_fingerprint,omitempty"`
	Choices           []chatChoice `json:"choices"`
	Usage             *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int                 `json:"index"`
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"` // "stop", "length", "content_filter"
}

type chatResponseMessage struct {
	Role             string `json:"role"` // "assistant"
	Content          string `json:"content,omitempty"`
	Refusal          string `json:"refusal,omitempty"`
	Reasoning        string `json:"reasoning,omitempty"`         // OpenRouter
	ReasoningContent string `json:"reasoning_content,omitempty"` // DeepSeek reasoner
}

type chatUsage struct {
	PromptTokens            int `json:"prompt_tokens"`
	CompletionTokens        int `json:"completion_tokens"`
	TotalTokens             int `json:"total_tokens"`
	CompletionTokensDetails *struct {
		ReasoningTokens int `json:"reasoning_tokens,omitempty"`
	} `json:"completion_tokens_details,omitempty"`
	PromptTokensDetails *struct {
		CachedTokens int `json:"cached_tokens,omitempty"`
	} `json:"prompt_tokens_details,omitempty"`
	PromptCacheHitTokens int `json:"prompt_cache_hit_tokens,omitempty"` // DeepSeek
}

/*
	CONVERSION FUNCTIONS
*/

// requestToChatCompletion converts ai.ChatRequest to chat completions format
func requestToChatCompletion(request ai.ChatRequest, capabilities Capabilities) chatCompletionRequest {
	req := chatCompletionRequest{
		Model:    request.Model,
		Messages: make([]chatMessage, 0, len(request.Messages)+1),
	}

	if request.SystemPrompt != "" {
		req.Messages = append(req.Messages, chatMessage{
			Role:    string(ai.RoleSystem),
			Content: request.SystemPrompt,
		})
	}
	for _, msg := range request.Messages {
		req.Messages = append(req.Messages, chatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	if cfg := request.GenerationConfig; cfg != nil {
		if cfg.Temperature != nil {
			t := float64(*cfg.Temperature)
			req.Temperature = &t
		}
		if cfg.TopP > 0 {
			topP := float64(cfg.TopP)
			req.TopP = &topP
		}
		if cfg.MaxTokens > 0 {
			maxTokens := cfg.MaxTokens
			req.MaxTokens = &maxTokens
		}
	}

	// json_object is only sent to hosts known to accept it; elsewhere the
	// prompt alone asks for JSON
	if request.ResponseFormat != nil && request.ResponseFormat.Type != "" {
		if request.ResponseFormat.Type != ai.ResponseFormatJSONObject || capabilities.SupportsJSONMode {
			req.ResponseFormat = &chatResponseFormat{Type: request.ResponseFormat.Type}
		}
	}

	return req
}

// chatCompletionToGeneric converts chat completion response to ai.ChatResponse.
// The caller guarantees at least one choice.
func chatCompletionToGeneric(resp chatCompletionResponse) *ai.ChatResponse {
	choice := resp.Choices[0]

	explicitReasoning := strings.TrimSpace(choice.Message.ReasoningContent)
	if explicitReasoning == "" {
		explicitReasoning = strings.TrimSpace(choice.Message.Reasoning)
	}

	// reasoning could be into <think> tags in content
	content := strings.TrimSpace(choice.Message.Content)
	reasoning := explicitReasoning
	if strings.Contains(content, "</think>") {
		if inContent := extractReasoningFromThinkTags(content); inContent != "" {
			if reasoning != "" {
				reasoning += "\n"
			}
			reasoning += inContent
		}
		content = cleanThinkTags(content)
	}

	chatResp := &ai.ChatResponse{
		Id:           resp.ID,
		Model:        resp.Model,
		Object:       resp.Object,
		Created:      resp.Created,
		Content:      content,
		Refusal:      choice.Message.Refusal,
		Reasoning:    reasoning,
		FinishReason: choice.FinishReason,
	}

	if resp.Usage != nil {
		usage := &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
			CachedTokens:     resp.Usage.PromptCacheHitTokens,
		}
		if resp.Usage.CompletionTokensDetails != nil {
			usage.ReasoningTokens = resp.Usage.CompletionTokensDetails.ReasoningTokens
		}
		if resp.Usage.PromptTokensDetails != nil && resp.Usage.PromptTokensDetails.CachedTokens > 0 {
			usage.CachedTokens = resp.Usage.PromptTokensDetails.CachedTokens
		}
		chatResp.Usage = usage
	}

	return chatResp
}

// extractReasoningFromThinkTags extracts reasoning content from <think>...</think> tags.
// Some models (like DeepSeek) use these tags to show chain-of-thought reasoning.
// A missing start tag means the reasoning starts at the beginning of content.
func extractReasoningFromThinkTags(content string) string {
	startTag := "<think>"
	endTag := "</think>"

	start := strings.Index(content, startTag)
	if start == -1 {
		start = 0
	} else {
		start += len(startTag)
	}

	end := strings.Index(content, endTag)
	if end == -1 || end < start {
		return "" // mandatory end tag
	}

	return strings.TrimSpace(content[start:end])
}

// cleanThinkTags removes <think>...</think> tags and their content from the text.
func cleanThinkTags(content string) string {
	startTag := "<think>"
	endTag := "</think>"

	start := strings.Index(content, startTag)
	if start == -1 {
		start = 0
	}

	end := strings.Index(content, endTag)
	if end == -1 || end < start {
		return content // mandatory end tag
	}

	return strings.TrimSpace(content[:start] + content[end+len(endTag):])
}
