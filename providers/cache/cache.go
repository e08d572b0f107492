package cache

import (
	"context"
	"strings"

	"github.com/leofalp/songscene/core/recovery"
)

// Provider stores recovered results. Get reports a miss with ok == false and
// a nil error; an error means the store itself failed.
type Provider interface {
	Get(ctx context.Context, key Key) (result recovery.Result, ok bool, err error)
	Put(ctx context.Context, key Key, result recovery.Result) error
}

// Key identifies a cached result. Namespace usually names the provider and
// model that produced the result, so switching models does not serve stale
// answers.
type Key struct {
	Namespace string
	Query     string
	Shape     recovery.Shape
}

// NewKey builds a key with a normalized query: trimmed, inner whitespace
// collapsed to single spaces and lower-cased.
func NewKey(namespace, query string, shape recovery.Shape) Key {
	return Key{
		Namespace: namespace,
		Query:     NormalizeQuery(query),
		Shape:     shape,
	}
}

// NormalizeQuery returns the canonical form of a song query.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// String returns the storage key, e.g. "openai/deepseek-chat|structured|evidências".
func (k Key) String() string {
	return k.Namespace + "|" + k.Shape.String() + "|" + k.Query
}

// Clone returns a copy of result that shares no memory with it. Stores use it
// so callers cannot mutate cached entries.
func Clone(result recovery.Result) recovery.Result {
	if result.Locations == nil {
		return recovery.Empty()
	}

	locations := make(recovery.MediaList, len(result.Locations))
	for i, entry := range result.Locations {
		if entry.Media != nil {
			entry = recovery.Structured(*entry.Media)
		}
		locations[i] = entry
	}
	return recovery.Result{Locations: locations}
}
