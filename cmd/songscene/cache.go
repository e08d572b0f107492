package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/leofalp/songscene/internal/config"
	"github.com/leofalp/songscene/providers/cache"
	"github.com/leofalp/songscene/providers/cache/inmemory"
	"github.com/leofalp/songscene/providers/cache/pgcache"
)

// openCache builds the configured result cache. The returned close function
// is never nil.
func (a *app) openCache(ctx context.Context) (cache.Provider, func(), error) {
	switch a.cfg.Cache {
	case config.CacheMemory:
		return inmemory.New(inmemory.WithTTL(a.cfg.CacheTTL)), func() {}, nil
	case config.CachePostgres:
		store, pool, err := a.openPgCache(ctx)
		if err != nil {
			return nil, func() {}, err
		}
		return store, pool.Close, nil
	default:
		return nil, func() {}, nil
	}
}

func (a *app) openPgCache(ctx context.Context) (*pgcache.PgCache, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("cache: connect: %w", err)
	}

	store := pgcache.New(pool,
		pgcache.WithTTL(a.cfg.CacheTTL),
		pgcache.WithLogger(a.logger),
	)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool, nil
}

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the Postgres result cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete cached results older than SONGSCENE_CACHE_TTL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.DatabaseURL == "" {
				return errors.New("cache purge requires DATABASE_URL")
			}

			store, pool, err := a.openPgCache(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := store.Purge(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "purged %d cached results\n", n)
			return err
		},
	})
	return cmd
}
