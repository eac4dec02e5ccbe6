package cache_test

import (
	"testing"
	"time"

	"github.com/ndthanh/spendlens/internal/infra/cache"
)

func TestCache_SetGetDelete(t *testing.T) {
	c := cache.New[int](time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	c.Set("answer", 42)
	v, ok := c.Get("answer")
	if !ok || v != 42 {
		t.Fatalf("expected 42, got %d (hit=%v)", v, ok)
	}

	c.Delete("answer")
	if _, ok := c.Get("answer"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestCache_Overwrite(t *testing.T) {
	c := cache.New[string](time.Minute)

	c.Set("k", "old")
	c.Set("k", "new")
	if v, _ := c.Get("k"); v != "new" {
		t.Errorf("expected overwrite, got %s", v)
	}
}

func TestCache_EntriesExpire(t *testing.T) {
	c := cache.New[string](30 * time.Millisecond)

	c.Set("k", "v")
	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected entry to expire")
	}
}
