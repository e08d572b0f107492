package pgcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/leofalp/songscene/core/recovery"
	"github.com/leofalp/songscene/providers/cache"
)

const (
	defaultTableName = "songscene_results"
	defaultIndexName = "idx_songscene_results_created_at"
)

// Querier abstracts the pgx methods PgCache needs. Both *pgxpool.Pool and
// pgx.Tx satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgCache implements cache.Provider on a PostgreSQL table. Concurrency is
// handled by the pgx pool.
type PgCache struct {
	db        Querier
	tableName string
	indexName string
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// Compile-time check: PgCache must implement cache.Provider.
var _ cache.Provider = (*PgCache)(nil)

// Option configures a PgCache.
type Option func(*PgCache)

// WithTableName overrides the default table name ("songscene_results"). The
// name is sanitized with pgx.Identifier because it is interpolated into SQL.
func WithTableName(name string) Option {
	return func(c *PgCache) {
		c.tableName = pgx.Identifier{name}.Sanitize()
		c.indexName = pgx.Identifier{"idx_" + name + "_created_at"}.Sanitize()
	}
}

// WithTTL sets how long a row stays valid. Zero or negative keeps rows
// forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *PgCache) {
		c.ttl = ttl
	}
}

// WithClock replaces time.Now when checking expiry.
func WithClock(now func() time.Time) Option {
	return func(c *PgCache) {
		c.now = now
	}
}

// WithLogger sets the logger for undecodable rows. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *PgCache) {
		c.logger = logger
	}
}

// New creates a cache on db, typically a *pgxpool.Pool.
func New(db Querier, opts ...Option) *PgCache {
	c := &PgCache{
		db:        db,
		tableName: defaultTableName,
		indexName: defaultIndexName,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the stored result for key. A missing row, an expired row and a
// payload that no longer decodes are all reported as a miss.
func (c *PgCache) Get(ctx context.Context, key cache.Key) (recovery.Result, bool, error) {
	query := fmt.Sprintf(`SELECT result, created_at FROM %s WHERE cache_key = $1`, c.tableName)

	var (
		payload   []byte
		createdAt time.Time
	)
	err := c.db.QueryRow(ctx, query, key.String()).Scan(&payload, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return recovery.Result{}, false, nil
		}
		return recovery.Result{}, false, fmt.Errorf("pgcache: get: %w", err)
	}

	if c.ttl > 0 && c.now().Sub(createdAt) >= c.ttl {
		return recovery.Result{}, false, nil
	}

	var result recovery.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		c.logger.WarnContext(ctx, "pgcache: undecodable row ignored",
			slog.String("cache_key", key.String()),
			slog.String("error", err.Error()),
		)
		return recovery.Result{}, false, nil
	}
	if result.Locations == nil {
		result = recovery.Empty()
	}
	return result, true, nil
}

// Put upserts result under key and resets its age.
func (c *PgCache) Put(ctx context.Context, key cache.Key, result recovery.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("pgcache: encode result: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (cache_key, namespace, query, shape, result)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cache_key) DO UPDATE SET result = EXCLUDED.result, created_at = NOW()`, c.tableName)

	if _, err := c.db.Exec(ctx, query,
		key.String(),
		key.Namespace,
		key.Query,
		key.Shape.String(),
		payload,
	); err != nil {
		return fmt.Errorf("pgcache: put: %w", err)
	}
	return nil
}

// Purge deletes expired rows and returns how many were removed. Without a
// TTL nothing expires and no query is issued.
func (c *PgCache) Purge(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE created_at < $1`, c.tableName)
	tag, err := c.db.Exec(ctx, query, c.now().Add(-c.ttl))
	if err != nil {
		return 0, fmt.Errorf("pgcache: purge: %w", err)
	}
	return tag.RowsAffected(), nil
}
