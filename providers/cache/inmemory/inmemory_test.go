package inmemory

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/leofalp/songscene/core/recovery"
	"github.com/leofalp/songscene/providers/cache"
)

func ghost() recovery.Result {
	return recovery.Result{Locations: recovery.MediaList{
		recovery.Structured(recovery.Media{Type: recovery.MediaFilm, Title: "Ghost", Year: 1990}),
	}}
}

func TestCache_PutAndGet(t *testing.T) {
	ctx := context.Background()
	c := New()
	key := cache.NewKey("ns", "Unchained Melody", recovery.ShapeStructured)

	if _, ok, err := c.Get(ctx, key); ok || err != nil {
		t.Fatalf("Get() on empty cache = ok %v, err %v", ok, err)
	}

	if err := c.Put(ctx, key, ghost()); err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}

	got, ok, err := c.Get(ctx, cache.NewKey("ns", "  unchained melody", recovery.ShapeStructured))
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v, want a hit", ok, err)
	}
	if !reflect.DeepEqual(got, ghost()) {
		t.Errorf("Get() = %v, want %v", got, ghost())
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_CopyProtection(t *testing.T) {
	ctx := context.Background()
	c := New()
	key := cache.NewKey("ns", "q", recovery.ShapeStructured)

	stored := ghost()
	_ = c.Put(ctx, key, stored)
	stored.Locations[0].Media.Title = "changed after Put"

	got, _, _ := c.Get(ctx, key)
	got.Locations[0].Media.Title = "changed after Get"

	again, _, _ := c.Get(ctx, key)
	if again.Locations[0].Media.Title != "Ghost" {
		t.Errorf("cached entry was mutated: %q", again.Locations[0].Media.Title)
	}
}

func TestCache_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(WithTTL(time.Hour), WithClock(func() time.Time { return now }))
	key := cache.NewKey("ns", "q", recovery.ShapeStructured)

	_ = c.Put(ctx, key, ghost())

	now = now.Add(59 * time.Minute)
	if _, ok, _ := c.Get(ctx, key); !ok {
		t.Fatal("Get() before expiry should hit")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Fatal("Get() at expiry should miss")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not evicted, Len() = %d", c.Len())
	}
}

func TestCache_NoTTLKeepsForever(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(WithClock(func() time.Time { return now }))
	key := cache.NewKey("ns", "q", recovery.ShapeStructured)

	_ = c.Put(ctx, key, ghost())
	now = now.AddDate(10, 0, 0)

	if _, ok, _ := c.Get(ctx, key); !ok {
		t.Error("Get() without TTL should never expire")
	}
}

func TestCache_Concurrency(t *testing.T) {
	ctx := context.Background()
	c := New(WithTTL(time.Minute))

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := cache.NewKey("ns", fmt.Sprintf("song %d", i%4), recovery.ShapeStructured)
			_ = c.Put(ctx, key, ghost())
			if _, ok, err := c.Get(ctx, key); !ok || err != nil {
				t.Errorf("Get() = ok %v, err %v", ok, err)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
}
