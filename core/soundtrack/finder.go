package soundtrack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leofalp/songscene/core/recovery"
	"github.com/leofalp/songscene/providers/ai"
	"github.com/leofalp/songscene/providers/cache"
)

// Asker sends a single prompt to a language model. *client.Client
// implements it.
type Asker interface {
	SendMessage(ctx context.Context, prompt string) (*ai.ChatResponse, error)
	Available() bool
}

// Finder finds the media a song appeared in. It is safe for concurrent use.
type Finder struct {
	asker      Asker
	parser     *recovery.Parser
	logger     *slog.Logger
	maxResults int

	cache          cache.Provider
	cacheNamespace string
}

// Option configures a Finder.
type Option func(*Finder)

// WithParser sets the recovery parser. Default: recovery.NewParser() with the
// Finder logger.
func WithParser(parser *recovery.Parser) Option {
	return func(f *Finder) {
		f.parser = parser
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) {
		f.logger = logger
	}
}

// WithMaxResults caps the number of returned mentions and the number asked
// for in the prompt. 0 disables the cap and asks for DefaultMaxResults.
func WithMaxResults(n int) Option {
	return func(f *Finder) {
		f.maxResults = n
	}
}

// WithCache answers repeated queries from c. namespace separates results
// produced by different providers or models.
func WithCache(c cache.Provider, namespace string) Option {
	return func(f *Finder) {
		f.cache = c
		f.cacheNamespace = namespace
	}
}

// NewFinder creates a Finder sending prompts through asker.
func NewFinder(asker Asker, opts ...Option) *Finder {
	f := &Finder{
		asker:      asker,
		logger:     slog.Default(),
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	if f.parser == nil {
		f.parser = recovery.NewParser(recovery.WithLogger(f.logger))
	}
	return f
}

// Find asks the model where query was used and returns the recovered
// mentions. A completion that cannot be recovered yields an empty result and
// no error. With a cache, a stored result is returned without asking.
func (f *Finder) Find(ctx context.Context, query string) (recovery.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return recovery.Empty(), ErrEmptyQuery
	}

	key := cache.NewKey(f.cacheNamespace, query, f.parser.Shape())
	if result, ok := f.cached(ctx, key); ok {
		return f.capped(result), nil
	}

	if f.asker == nil || !f.asker.Available() {
		return recovery.Empty(), ErrNotConfigured
	}

	f.logger.DebugContext(ctx, "soundtrack query", slog.String("query", query))

	response, err := f.asker.SendMessage(ctx, BuildPrompt(query, f.maxResults))
	if err != nil {
		f.logger.ErrorContext(ctx, "soundtrack upstream failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return recovery.Empty(), fmt.Errorf("soundtrack: ask %q: %w", query, err)
	}

	var content string
	if response != nil {
		content = response.Content
	}

	result := f.capped(f.parser.Recover(content))
	f.store(ctx, key, result)

	f.logger.InfoContext(ctx, "soundtrack found",
		slog.String("query", query),
		slog.Int("locations", len(result.Locations)),
		slog.String("shape", f.parser.Shape().String()),
	)
	return result, nil
}

func (f *Finder) capped(result recovery.Result) recovery.Result {
	if f.maxResults > 0 && len(result.Locations) > f.maxResults {
		result.Locations = result.Locations[:f.maxResults]
	}
	return result
}

func (f *Finder) cached(ctx context.Context, key cache.Key) (recovery.Result, bool) {
	if f.cache == nil {
		return recovery.Result{}, false
	}

	result, ok, err := f.cache.Get(ctx, key)
	if err != nil {
		f.logger.WarnContext(ctx, "soundtrack cache read failed",
			slog.String("cache_key", key.String()),
			slog.String("error", err.Error()),
		)
		return recovery.Result{}, false
	}
	if ok {
		f.logger.DebugContext(ctx, "soundtrack cache hit",
			slog.String("cache_key", key.String()),
			slog.Int("locations", len(result.Locations)),
		)
	}
	return result, ok
}

// store keeps non-empty results only: an empty list may be a transient
// model failure.
func (f *Finder) store(ctx context.Context, key cache.Key, result recovery.Result) {
	if f.cache == nil || len(result.Locations) == 0 {
		return
	}
	if err := f.cache.Put(ctx, key, result); err != nil {
		f.logger.WarnContext(ctx, "soundtrack cache write failed",
			slog.String("cache_key", key.String()),
			slog.String("error", err.Error()),
		)
	}
}
