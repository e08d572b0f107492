// Package pgcache provides a PostgreSQL-backed implementation of
// [cache.Provider] so several songscene processes share recovered results
// and keep them across restarts. Queries go through pgx/v5.
//
// The main entry point is [New]. [PgCache.EnsureSchema] creates the table
// during development; production deployments should manage the schema with
// migration tooling.
package pgcache
