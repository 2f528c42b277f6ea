package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := mc.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("got %q", got)
	}
}

func TestMemoryMiss(t *testing.T) {
	mc := NewMemoryCache()

	_, err := mc.Get(context.Background(), "absent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryLazyExpiry(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	_ = mc.Set(ctx, "k", []byte("v"), 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, err := mc.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestMemoryZeroTTLNeverExpires(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	_ = mc.Set(ctx, "k", []byte("v"), 0)
	time.Sleep(10 * time.Millisecond)

	if _, err := mc.Get(ctx, "k"); err != nil {
		t.Fatalf("zero ttl must not expire: %v", err)
	}
}

func TestMemorySetNX(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	ok, err := mc.SetNX(ctx, "k", []byte("a"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("first SetNX: %v ok=%v", err, ok)
	}

	ok, err = mc.SetNX(ctx, "k", []byte("b"), time.Minute)
	if err != nil || ok {
		t.Fatalf("second SetNX must not store: %v ok=%v", err, ok)
	}

	got, _ := mc.Get(ctx, "k")
	if string(got) != "a" {
		t.Fatalf("value overwritten: %q", got)
	}
}

func TestMemorySetNXAfterExpiry(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	_, _ = mc.SetNX(ctx, "k", []byte("a"), 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	ok, err := mc.SetNX(ctx, "k", []byte("b"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("expired key must be claimable: %v ok=%v", err, ok)
	}
}

func TestMemoryDelete(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", []byte("1"), time.Minute)
	_ = mc.Set(ctx, "b", []byte("2"), time.Minute)

	if err := mc.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := mc.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("a not deleted")
	}
}

func TestMemoryLRUEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(3))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = mc.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Minute)
		time.Sleep(time.Millisecond)
	}

	// touch k0 so k1 becomes the oldest
	_, _ = mc.Get(ctx, "k0")
	time.Sleep(time.Millisecond)

	_ = mc.Set(ctx, "k3", []byte("v"), time.Minute)

	if _, err := mc.Get(ctx, "k1"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("k1 should have been evicted")
	}
	if _, err := mc.Get(ctx, "k0"); err != nil {
		t.Fatalf("k0 should survive: %v", err)
	}
}
