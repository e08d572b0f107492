package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/leofalp/songscene/providers/ai"
)

// testLogger creates an slog.Logger that writes to a *bytes.Buffer so tests
// can inspect emitted log lines without capturing os.Stderr.
func testLogger(buf *bytes.Buffer) *slog.Logger {
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler)
}

func testRequest() ai.ChatRequest {
	return ai.ChatRequest{
		Model:            "deepseek-chat",
		Messages:         []ai.Message{{Role: ai.RoleUser, Content: "Música: Evidências"}},
		GenerationConfig: &ai.GenerationConfig{MaxTokens: 2000},
	}
}

func okSend(resp *ai.ChatResponse) func(context.Context, ai.ChatRequest) (*ai.ChatResponse, error) {
	return func(context.Context, ai.ChatRequest) (*ai.ChatResponse, error) {
		return resp, nil
	}
}

func TestLoggingMiddleware_Levels(t *testing.T) {
	response := &ai.ChatResponse{
		Model:        "deepseek-chat",
		Content:      `{"locations": []}`,
		Reasoning:    "nenhuma trilha",
		FinishReason: "stop",
		Usage:        &ai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}

	tests := []struct {
		name    string
		level   LogLevel
		want    []string
		notWant []string
	}{
		{
			name:    "minimal",
			level:   LogLevelMinimal,
			want:    []string{"llm send completed", "model=deepseek-chat", "prompt_tokens=10", "duration="},
			notWant: []string{"finish_reason", "max_tokens", "response_content", "prompt=", "reasoning"},
		},
		{
			name:    "standard",
			level:   LogLevelStandard,
			want:    []string{"finish_reason=stop", "max_tokens=2000"},
			notWant: []string{"response_content", "prompt=", "reasoning"},
		},
		{
			name:  "verbose",
			level: LogLevelVerbose,
			want:  []string{"finish_reason=stop", "response_content=", "prompt=", "reasoning="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			chain := NewLoggingMiddleware(testLogger(buf), tt.level).Send(okSend(response))

			if _, err := chain(context.Background(), testRequest()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			output := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(output, s) {
					t.Errorf("expected %q in log, got:\n%s", s, output)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(output, s) {
					t.Errorf("did not expect %q in log, got:\n%s", s, output)
				}
			}
		})
	}
}

func TestLoggingMiddleware_Truncated(t *testing.T) {
	buf := &bytes.Buffer{}
	response := &ai.ChatResponse{Model: "deepseek-chat", Content: `{"locations": [`, FinishReason: "length"}
	chain := NewLoggingMiddleware(testLogger(buf), LogLevelMinimal).Send(okSend(response))

	if _, err := chain(context.Background(), testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "level=WARN") || !strings.Contains(output, "llm send truncated") {
		t.Errorf("expected truncation warning, got:\n%s", output)
	}
}

func TestLoggingMiddleware_Error(t *testing.T) {
	buf := &bytes.Buffer{}
	wantErr := ai.NewAPIError(http.StatusUnauthorized, "Authentication Fails")
	next := func(context.Context, ai.ChatRequest) (*ai.ChatResponse, error) {
		return nil, wantErr
	}
	chain := NewLoggingMiddleware(testLogger(buf), LogLevelStandard).Send(next)

	resp, err := chain(context.Background(), testRequest())
	if resp != nil {
		t.Errorf("expected nil response, got %+v", resp)
	}
	if !errors.Is(err, ai.ErrInvalidCredentials) {
		t.Errorf("error = %v, want %v", err, ai.ErrInvalidCredentials)
	}

	output := buf.String()
	for _, s := range []string{"level=ERROR", "llm send failed", "status=401", "Authentication Fails"} {
		if !strings.Contains(output, s) {
			t.Errorf("expected %q in log, got:\n%s", s, output)
		}
	}
}

func TestLoggingMiddleware_NilResponse(t *testing.T) {
	buf := &bytes.Buffer{}
	chain := NewLoggingMiddleware(testLogger(buf), LogLevelStandard).Send(okSend(nil))

	resp, err := chain(context.Background(), testRequest())
	if resp != nil || err != nil {
		t.Errorf("chain() = %+v, %v, want nil, nil", resp, err)
	}
	if output := buf.String(); !strings.Contains(output, "llm send returned no response") {
		t.Errorf("expected a no-response warning, got:\n%s", output)
	}
}

func TestLoggingMiddleware_NilLogger(t *testing.T) {
	chain := NewLoggingMiddleware(nil, LogLevelMinimal).Send(okSend(&ai.ChatResponse{}))
	if _, err := chain(context.Background(), ai.ChatRequest{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
