package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"

	"github.com/leofalp/songscene/providers/ai"
)

const (
	roleUser  = "user"
	roleModel = "model"

	jsonMIMEType = "application/json"
)

// configureModel applies the system prompt, sampling parameters and response
// format of request to model.
func configureModel(model *genai.GenerativeModel, request ai.ChatRequest) {
	if request.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(request.SystemPrompt)},
		}
	}

	if cfg := request.GenerationConfig; cfg != nil {
		if cfg.Temperature != nil {
			model.Temperature = genai.Ptr(*cfg.Temperature)
		}
		if cfg.TopP > 0 {
			model.TopP = genai.Ptr(cfg.TopP)
		}
		if cfg.MaxTokens > 0 {
			model.MaxOutputTokens = genai.Ptr(int32(cfg.MaxTokens))
		}
	}

	if request.ResponseFormat != nil && request.ResponseFormat.Type == ai.ResponseFormatJSONObject {
		model.ResponseMIMEType = jsonMIMEType
	}
}

// splitMessages returns every message but the last as chat history, and the
// text of the last message. System messages inside the conversation are
// replayed as user turns.
func splitMessages(messages []ai.Message) ([]*genai.Content, string) {
	if len(messages) == 0 {
		return nil, ""
	}

	history := make([]*genai.Content, 0, len(messages)-1)
	for _, msg := range messages[:len(messages)-1] {
		role := roleUser
		if msg.Role == ai.RoleAssistant {
			role = roleModel
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return history, messages[len(messages)-1].Content
}

// responseToGeneric converts the first candidate of resp to ai.ChatResponse.
func responseToGeneric(resp *genai.GenerateContentResponse, model string) (*ai.ChatResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &ai.APIError{Kind: ai.ErrProviderFailure, Cause: errors.New("no candidates in response")}
	}

	candidate := resp.Candidates[0]
	out := &ai.ChatResponse{
		Model:        model,
		Object:       "chat.completion",
		Content:      strings.TrimSpace(candidateText(candidate)),
		FinishReason: finishReason(candidate.FinishReason),
	}

	if usage := resp.UsageMetadata; usage != nil {
		out.Usage = &ai.Usage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
			CachedTokens:     int(usage.CachedContentTokenCount),
		}
	}
	return out, nil
}

func candidateText(candidate *genai.Candidate) string {
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

func finishReason(reason genai.FinishReason) string {
	switch reason {
	case genai.FinishReasonStop:
		return "stop"
	case genai.FinishReasonMaxTokens:
		return "length"
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return "content_filter"
	case genai.FinishReasonUnspecified:
		return ""
	default:
		return strings.ToLower(reason.String())
	}
}

// classifyError maps SDK errors onto the ai error kinds.
func classifyError(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &ai.APIError{Kind: ai.ErrProviderFailure, Cause: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &ai.APIError{
			StatusCode: apiErr.Code,
			Body:       apiErr.Message,
			Kind:       statusKind(apiErr.Code, apiErr.Message),
			Cause:      err,
		}
	}

	var coded interface{ HTTPCode() int }
	if errors.As(err, &coded) && coded.HTTPCode() > 0 {
		return &ai.APIError{
			StatusCode: coded.HTTPCode(),
			Kind:       statusKind(coded.HTTPCode(), err.Error()),
			Cause:      err,
		}
	}

	return &ai.APIError{Kind: ai.ErrProviderFailure, Cause: fmt.Errorf("gemini: %w", err)}
}

// statusKind is ai.ClassifyStatus plus Gemini's way of rejecting keys: 403,
// or 400 with an "API key not valid" message.
func statusKind(code int, message string) error {
	switch {
	case code == http.StatusForbidden:
		return ai.ErrInvalidCredentials
	case code == http.StatusBadRequest && strings.Contains(strings.ToLower(message), "api key"):
		return ai.ErrInvalidCredentials
	default:
		return ai.ClassifyStatus(code)
	}
}
