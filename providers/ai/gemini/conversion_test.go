package gemini

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"

	"github.com/leofalp/songscene/providers/ai"
)

func TestConfigureModel(t *testing.T) {
	model := &genai.GenerativeModel{}
	configureModel(model, ai.ChatRequest{
		SystemPrompt: "responda em JSON",
		GenerationConfig: &ai.GenerationConfig{
			Temperature: ai.Temperature(0),
			TopP:        0.9,
			MaxTokens:   2000,
		},
		ResponseFormat: &ai.ResponseFormat{Type: ai.ResponseFormatJSONObject},
	})

	if model.SystemInstruction == nil || len(model.SystemInstruction.Parts) != 1 {
		t.Fatalf("SystemInstruction = %+v, want one part", model.SystemInstruction)
	}
	if text, ok := model.SystemInstruction.Parts[0].(genai.Text); !ok || string(text) != "responda em JSON" {
		t.Errorf("SystemInstruction part = %#v", model.SystemInstruction.Parts[0])
	}
	if model.Temperature == nil || *model.Temperature != 0 {
		t.Errorf("Temperature = %v, want explicit 0", model.Temperature)
	}
	if model.TopP == nil || *model.TopP != 0.9 {
		t.Errorf("TopP = %v, want 0.9", model.TopP)
	}
	if model.MaxOutputTokens == nil || *model.MaxOutputTokens != 2000 {
		t.Errorf("MaxOutputTokens = %v, want 2000", model.MaxOutputTokens)
	}
	if model.ResponseMIMEType != jsonMIMEType {
		t.Errorf("ResponseMIMEType = %q, want %q", model.ResponseMIMEType, jsonMIMEType)
	}
}

func TestConfigureModel_Defaults(t *testing.T) {
	model := &genai.GenerativeModel{}
	configureModel(model, ai.ChatRequest{})

	if model.SystemInstruction != nil || model.Temperature != nil || model.TopP != nil || model.MaxOutputTokens != nil {
		t.Errorf("configureModel() set fields for an empty request: %+v", model)
	}
	if model.ResponseMIMEType != "" {
		t.Errorf("ResponseMIMEType = %q, want empty", model.ResponseMIMEType)
	}
}

func TestSplitMessages(t *testing.T) {
	history, last := splitMessages([]ai.Message{
		{Role: ai.RoleUser, Content: "primeira"},
		{Role: ai.RoleAssistant, Content: "resposta"},
		{Role: ai.RoleUser, Content: "segunda"},
	})

	if last != "segunda" {
		t.Errorf("last = %q, want %q", last, "segunda")
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].Role != roleUser || history[1].Role != roleModel {
		t.Errorf("roles = %q, %q, want user, model", history[0].Role, history[1].Role)
	}

	history, last = splitMessages([]ai.Message{{Role: ai.RoleUser, Content: "só"}})
	if len(history) != 0 || last != "só" {
		t.Errorf("single message: history = %v, last = %q", history, last)
	}
}

func TestResponseToGeneric(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  roleModel,
				Parts: []genai.Part{genai.Text(`{"locations": [`), genai.Text(`"Filme: Ghost (1990)"]}`)},
			},
			FinishReason: genai.FinishReasonMaxTokens,
		}},
		UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 10, CandidatesTokenCount: 20, TotalTokenCount: 30},
	}

	got, err := responseToGeneric(resp, "gemini-2.0-flash-lite")
	if err != nil {
		t.Fatalf("responseToGeneric() unexpected error: %v", err)
	}
	if got.Content != `{"locations": ["Filme: Ghost (1990)"]}` {
		t.Errorf("Content = %q", got.Content)
	}
	if got.FinishReason != "length" {
		t.Errorf("FinishReason = %q, want length", got.FinishReason)
	}
	if got.Model != "gemini-2.0-flash-lite" {
		t.Errorf("Model = %q", got.Model)
	}
	if got.Usage == nil || got.Usage.TotalTokens != 30 || got.Usage.CompletionTokens != 20 {
		t.Errorf("Usage = %+v", got.Usage)
	}
}

func TestResponseToGeneric_NoCandidates(t *testing.T) {
	_, err := responseToGeneric(&genai.GenerateContentResponse{}, "m")
	if !errors.Is(err, ai.ErrProviderFailure) {
		t.Errorf("responseToGeneric() error = %v, want %v", err, ai.ErrProviderFailure)
	}
}

func TestFinishReason(t *testing.T) {
	tests := []struct {
		reason genai.FinishReason
		want   string
	}{
		{genai.FinishReasonStop, "stop"},
		{genai.FinishReasonMaxTokens, "length"},
		{genai.FinishReasonSafety, "content_filter"},
		{genai.FinishReasonRecitation, "content_filter"},
		{genai.FinishReasonUnspecified, ""},
	}

	for _, tt := range tests {
		if got := finishReason(tt.reason); got != tt.want {
			t.Errorf("finishReason(%v) = %q, want %q", tt.reason, got, tt.want)
		}
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   error
		wantStatus int
	}{
		{
			name:       "rate limited",
			err:        &googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota"},
			wantKind:   ai.ErrRateLimited,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "invalid key",
			err:        &googleapi.Error{Code: http.StatusBadRequest, Message: "API key not valid. Please pass a valid API key."},
			wantKind:   ai.ErrInvalidCredentials,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad request",
			err:        &googleapi.Error{Code: http.StatusBadRequest, Message: "invalid argument"},
			wantKind:   ai.ErrProviderFailure,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "forbidden",
			err:        &googleapi.Error{Code: http.StatusForbidden},
			wantKind:   ai.ErrInvalidCredentials,
			wantStatus: http.StatusForbidden,
		},
		{
			name:     "blocked",
			err:      &genai.BlockedError{},
			wantKind: ai.ErrProviderFailure,
		},
		{
			name:     "transport",
			err:      errors.New("connection reset"),
			wantKind: ai.ErrProviderFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyError(tt.err)
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("classifyError() = %v, want kind %v", err, tt.wantKind)
			}
			var apiErr *ai.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("classifyError() = %T, want *ai.APIError", err)
			}
			if apiErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.wantStatus)
			}
		})
	}
}
