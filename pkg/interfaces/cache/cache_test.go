package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryExpiresEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory(0)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "reward:daily", "v1", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := c.Get(ctx, "reward:daily"); !ok || v != "v1" {
		t.Fatalf("expected cached value, got %v/%v", v, ok)
	}

	now = now.Add(time.Minute)
	if _, ok, _ := c.Get(ctx, "reward:daily"); ok {
		t.Fatalf("expected entry to expire")
	}

	_ = c.Set(ctx, "forever", 1, 0)
	now = now.Add(24 * time.Hour)
	if _, ok, _ := c.Get(ctx, "forever"); !ok {
		t.Fatalf("expected non-expiring entry")
	}
	_ = c.Delete(ctx, "forever")
	if _, ok, _ := c.Get(ctx, "forever"); ok {
		t.Fatalf("expected entry to be deleted")
	}
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2)

	_ = c.Set(ctx, "reward:a", "a", time.Minute)
	_ = c.Set(ctx, "reward:b", "b", time.Minute)
	if _, ok, _ := c.Get(ctx, "reward:a"); !ok {
		t.Fatalf("expected reward:a to be cached")
	}
	_ = c.Set(ctx, "reward:c", "c", time.Minute)

	if c.Len() != 2 {
		t.Fatalf("expected the cache to stay bounded, got %d entries", c.Len())
	}
	if _, ok, _ := c.Get(ctx, "reward:b"); ok {
		t.Fatalf("expected reward:b to be evicted")
	}
	for _, key := range []string{"reward:a", "reward:c"} {
		if _, ok, _ := c.Get(ctx, key); !ok {
			t.Fatalf("expected %s to survive eviction", key)
		}
	}
}

func TestNewMemoryDefaultsSize(t *testing.T) {
	c := NewMemory(-1)
	ctx := context.Background()
	for i := 0; i < DefaultMemorySize+10; i++ {
		_ = c.Set(ctx, fmt.Sprintf("reward:%d", i), i, 0)
	}
	if c.Len() != DefaultMemorySize {
		t.Fatalf("expected %d entries, got %d", DefaultMemorySize, c.Len())
	}
}
