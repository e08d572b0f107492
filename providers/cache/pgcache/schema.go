package pgcache

import (
	"context"
	"fmt"
)

// createTableSQL creates the results table. cache_key is the normalized
// cache.Key; namespace, query and shape are kept for inspection.
const createTableSQL = `CREATE TABLE IF NOT EXISTS %s (
    cache_key  TEXT PRIMARY KEY,
    namespace  TEXT NOT NULL,
    query      TEXT NOT NULL,
    shape      TEXT NOT NULL,
    result     JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// createCreatedAtIndexSQL backs Purge.
const createCreatedAtIndexSQL = `CREATE INDEX IF NOT EXISTS %s ON %s (created_at)`

// EnsureSchema creates the results table and its index if they do not exist.
func (c *PgCache) EnsureSchema(ctx context.Context) error {
	if _, err := c.db.Exec(ctx, fmt.Sprintf(createTableSQL, c.tableName)); err != nil {
		return fmt.Errorf("pgcache: create table: %w", err)
	}
	if _, err := c.db.Exec(ctx, fmt.Sprintf(createCreatedAtIndexSQL, c.indexName, c.tableName)); err != nil {
		return fmt.Errorf("pgcache: create created_at index: %w", err)
	}
	return nil
}
