package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/leofalp/songscene/core/recovery"
	"github.com/leofalp/songscene/providers/cache"
)

type entry struct {
	result   recovery.Result
	storedAt time.Time
}

// Cache is an in-memory result store. It uses an RWMutex and is efficient
// for read-heavy workloads.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// Ensure Cache implements cache.Provider at compile time.
var _ cache.Provider = (*Cache)(nil)

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long an entry stays valid. Zero or negative keeps entries
// forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New returns an empty Cache ready for use.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the stored result. Expired entries are evicted and
// reported as a miss. The returned error is always nil.
func (c *Cache) Get(_ context.Context, key cache.Key) (recovery.Result, bool, error) {
	k := key.String()

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if !ok {
		return recovery.Result{}, false, nil
	}

	if c.expired(e) {
		c.mu.Lock()
		// another writer may have refreshed it meanwhile
		if current, ok := c.entries[k]; ok && c.expired(current) {
			delete(c.entries, k)
		}
		c.mu.Unlock()
		return recovery.Result{}, false, nil
	}

	return cache.Clone(e.result), true, nil
}

// Put stores a copy of result, replacing any previous entry. The returned
// error is always nil.
func (c *Cache) Put(_ context.Context, key cache.Key, result recovery.Result) error {
	e := entry{result: cache.Clone(result), storedAt: c.now()}

	c.mu.Lock()
	c.entries[key.String()] = e
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) expired(e entry) bool {
	return c.ttl > 0 && c.now().Sub(e.storedAt) >= c.ttl
}
