//go:build integration

package pgcache

import (
	"context"
	"log"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/leofalp/songscene/core/recovery"
	"github.com/leofalp/songscene/providers/cache"
)

var testPool *pgxpool.Pool

// TestMain starts a PostgreSQL container, creates the schema once and tears
// everything down after the run.
func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("songscene_test"),
		postgres.WithUsername("songscene"),
		postgres.WithPassword("songscene"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Fatalf("pgcache: failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("pgcache: failed to get connection string: %v", err)
	}

	testPool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("pgcache: failed to create pool: %v", err)
	}

	if err := New(testPool).EnsureSchema(ctx); err != nil {
		log.Fatalf("pgcache: failed to create schema: %v", err)
	}

	code := m.Run()

	testPool.Close()
	if err := testcontainers.TerminateContainer(pgContainer); err != nil {
		log.Printf("pgcache: failed to terminate container: %v", err)
	}

	os.Exit(code)
}

func TestPgCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(testPool, WithTTL(time.Hour))
	key := cache.NewKey("test/"+t.Name(), "Evidências", recovery.ShapeStructured)

	if _, ok, err := c.Get(ctx, key); ok || err != nil {
		t.Fatalf("Get() before Put = ok %v, err %v", ok, err)
	}

	want := recovery.Result{Locations: recovery.MediaList{
		recovery.Structured(recovery.Media{Type: recovery.MediaNovela, Title: "Avenida Brasil", Year: 2012, Singer: "Chitãozinho & Xororó"}),
	}}
	if err := c.Put(ctx, key, want); err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}

	got, ok, err := c.Get(ctx, cache.NewKey("test/"+t.Name(), " evidências ", recovery.ShapeStructured))
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v, want a hit", ok, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get() = %v, want %v", got, want)
	}

	// a second Put overwrites instead of failing on the primary key
	if err := c.Put(ctx, key, recovery.Empty()); err != nil {
		t.Fatalf("second Put() unexpected error: %v", err)
	}
	got, _, _ = c.Get(ctx, key)
	if len(got.Locations) != 0 {
		t.Errorf("Get() after overwrite = %v, want empty", got)
	}
}

func TestPgCache_Purge(t *testing.T) {
	ctx := context.Background()
	key := cache.NewKey("test/"+t.Name(), "Garota de Ipanema", recovery.ShapeCompact)

	writer := New(testPool)
	if err := writer.Put(ctx, key, recovery.Result{Locations: recovery.MediaList{recovery.Compact("Filme: Ghost (1990)")}}); err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}

	future := New(testPool, WithTTL(time.Minute), WithClock(func() time.Time { return time.Now().Add(time.Hour) }))
	if _, ok, _ := future.Get(ctx, key); ok {
		t.Error("Get() past the TTL should miss")
	}

	n, err := future.Purge(ctx)
	if err != nil {
		t.Fatalf("Purge() unexpected error: %v", err)
	}
	if n < 1 {
		t.Errorf("Purge() = %d, want at least 1", n)
	}
	if _, ok, _ := writer.Get(ctx, key); ok {
		t.Error("purged row is still readable")
	}
}
