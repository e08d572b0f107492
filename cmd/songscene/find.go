package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/songscene/core/client"
	"github.com/leofalp/songscene/core/client/middleware"
	"github.com/leofalp/songscene/core/recovery"
	"github.com/leofalp/songscene/core/soundtrack"
	"github.com/leofalp/songscene/internal/config"
	"github.com/leofalp/songscene/providers/ai"
	"github.com/leofalp/songscene/providers/ai/gemini"
	"github.com/leofalp/songscene/providers/ai/openai"
)

func newFindCmd(a *app) *cobra.Command {
	var (
		shape, repair string
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:   "find <song...>",
		Short: "Ask the configured model where a song was used",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.parserOptions(cmd, shape, repair)
			if err != nil {
				return err
			}

			finder, closeFinder, err := a.newFinder(cmd.Context(), recovery.NewParser(opts...), logLevel(verbose))
			if err != nil {
				return err
			}
			defer closeFinder()

			result, err := finder.Find(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				if werr := writeJSON(cmd.OutOrStdout(), soundtrack.NewErrorResponse(err)); werr != nil {
					return werr
				}
				return fmt.Errorf("%s: %w", soundtrack.Message(err), err)
			}
			return writeJSON(cmd.OutOrStdout(), soundtrack.NewResponse(result))
		},
	}

	addParserFlags(cmd, &shape, &repair)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log prompts and completions")
	return cmd
}

func addParserFlags(cmd *cobra.Command, shape, repair *string) {
	cmd.Flags().StringVar(shape, "shape", "structured", "accepted entry form: structured, compact or auto")
	cmd.Flags().StringVar(repair, "repair", "scan", "repair strategy: scan, balance or lenient")
}

func logLevel(verbose bool) middleware.LogLevel {
	if verbose {
		return middleware.LogLevelVerbose
	}
	return middleware.LogLevelStandard
}

// newProvider returns the configured completion backend.
func (a *app) newProvider() ai.Provider {
	switch a.cfg.Provider {
	case config.ProviderGemini:
		return gemini.New().
			WithAPIKey(a.cfg.APIKey).
			WithBaseURL(a.cfg.BaseURL)
	default:
		return openai.New().
			WithAPIKey(a.cfg.APIKey).
			WithBaseURL(a.cfg.BaseURL)
	}
}

// newFinder wires the provider, client middleware, result cache and recovery
// parser. The returned close function releases the cache.
func (a *app) newFinder(ctx context.Context, parser *recovery.Parser, logLevel middleware.LogLevel) (*soundtrack.Finder, func(), error) {
	c, err := client.New(a.newProvider(),
		client.WithModel(a.cfg.Model),
		client.WithSystemPrompt(soundtrack.SystemPrompt),
		client.WithGenerationConfig(ai.GenerationConfig{
			Temperature: ai.Temperature(0),
			MaxTokens:   a.cfg.MaxTokens,
		}),
		client.WithResponseFormat(ai.ResponseFormat{Type: ai.ResponseFormatJSONObject}),
		client.WithMiddleware(
			middleware.NewTimeoutMiddleware(a.cfg.Timeout),
			middleware.NewLoggingMiddleware(a.logger, logLevel),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	opts := []soundtrack.Option{
		soundtrack.WithParser(parser),
		soundtrack.WithLogger(a.logger),
		soundtrack.WithMaxResults(a.cfg.MaxResults),
	}

	store, closeCache, err := a.openCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		opts = append(opts, soundtrack.WithCache(store, string(a.cfg.Provider)+"/"+a.cfg.Model))
	}

	return soundtrack.NewFinder(c, opts...), closeCache, nil
}
