package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/leofalp/songscene/core/client"
	"github.com/leofalp/songscene/internal/utils"
	"github.com/leofalp/songscene/providers/ai"
)

// LogLevel controls how much detail the logging middleware emits per request.
type LogLevel int

const (
	// LogLevelMinimal logs only the model name, duration and token counts.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds the finish reason and, for failures, the HTTP
	// status of the provider error.
	LogLevelStandard

	// LogLevelVerbose adds the prompt, the response content and the model
	// reasoning, each truncated to 500 characters. Not for production: raw
	// prompts and completions end up in the logs.
	LogLevelVerbose
)

// truncateLen is the maximum content length included in verbose log output.
const truncateLen = 500

// finishReasonLength is reported when the completion hit max_tokens.
const finishReasonLength = "length"

// NewLoggingMiddleware creates a MiddlewareConfig that emits structured slog
// log entries before and after every provider call. A nil logger falls back
// to slog.Default().
//
// A completion cut off by the token budget (finish reason "length") is logged
// at warn level whatever the verbosity: its JSON is truncated and the caller
// will have to recover it.
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) client.MiddlewareConfig {
	if logger == nil {
		logger = slog.Default()
	}
	return client.MiddlewareConfig{
		Send: buildSendLogging(logger, level),
	}
}

// buildSendLogging constructs the send middleware that logs request/response pairs.
func buildSendLogging(logger *slog.Logger, level LogLevel) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			logger.InfoContext(ctx, "llm send", buildRequestAttrs(request, level)...)

			start := time.Now()
			response, err := next(ctx, request)
			elapsed := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "llm send failed", buildErrorAttrs(request, err, elapsed, level)...)
				return nil, err
			}

			if response == nil {
				logger.WarnContext(ctx, "llm send returned no response",
					slog.String("model", request.Model),
					slog.Duration("duration", elapsed),
				)
				return nil, nil
			}

			attrs := buildResponseAttrs(response, elapsed, level)
			if response.FinishReason == finishReasonLength {
				logger.WarnContext(ctx, "llm send truncated", attrs...)
			} else {
				logger.InfoContext(ctx, "llm send completed", attrs...)
			}

			return response, nil
		}
	}
}

// buildRequestAttrs returns slog attributes for an outgoing chat request,
// expanding detail according to the requested verbosity level.
func buildRequestAttrs(request ai.ChatRequest, level LogLevel) []any {
	attrs := []any{
		slog.String("model", request.Model),
	}

	if level >= LogLevelStandard && request.GenerationConfig != nil && request.GenerationConfig.MaxTokens > 0 {
		attrs = append(attrs, slog.Int("max_tokens", request.GenerationConfig.MaxTokens))
	}

	if level >= LogLevelVerbose && len(request.Messages) > 0 {
		last := request.Messages[len(request.Messages)-1]
		attrs = append(attrs, slog.String("prompt", utils.TruncateString(last.Content, truncateLen)))
	}

	return attrs
}

func buildErrorAttrs(request ai.ChatRequest, err error, elapsed time.Duration, level LogLevel) []any {
	attrs := []any{
		slog.String("model", request.Model),
		slog.Duration("duration", elapsed),
		slog.String("error", err.Error()),
	}

	var apiErr *ai.APIError
	if level >= LogLevelStandard && errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		attrs = append(attrs, slog.Int("status", apiErr.StatusCode))
	}

	return attrs
}

// buildResponseAttrs returns slog attributes for a completed chat response,
// expanding detail according to the requested verbosity level.
func buildResponseAttrs(response *ai.ChatResponse, elapsed time.Duration, level LogLevel) []any {
	attrs := []any{
		slog.String("model", response.Model),
		slog.Duration("duration", elapsed),
	}

	if response.Usage != nil {
		attrs = append(attrs,
			slog.Int("prompt_tokens", response.Usage.PromptTokens),
			slog.Int("completion_tokens", response.Usage.CompletionTokens),
			slog.Int("total_tokens", response.Usage.TotalTokens),
		)
	}

	if level >= LogLevelStandard && response.FinishReason != "" {
		attrs = append(attrs, slog.String("finish_reason", response.FinishReason))
	}

	if level >= LogLevelVerbose {
		if response.Content != "" {
			attrs = append(attrs, slog.String("response_content", utils.TruncateString(response.Content, truncateLen)))
		}
		if response.Reasoning != "" {
			attrs = append(attrs, slog.String("reasoning", utils.TruncateString(response.Reasoning, truncateLen)))
		}
	}

	return attrs
}
