package ristretto

import (
	"context"
	"sort"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{NumCounters: 1e4, MaxCost: 1 << 20, BufferItems: 64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestPutIsImmediatelyVisible(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	r, _ := s.Region("experiments")

	if err := r.Put(ctx, "E1", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	// no Wait by the caller: Put itself must flush the buffered write
	v, ok, err := r.Get(ctx, "E1")
	if err != nil || !ok || string(v) != "v1" {
		t.Fatalf("Get after Put: %q ok=%v err=%v", v, ok, err)
	}
}

func TestRegionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a, _ := s.Region("buckets")
	b, _ := s.Region("exclusions")

	_ = a.Put(ctx, "k", []byte("a"))
	_ = b.Put(ctx, "k", []byte("b"))

	if v, _, _ := a.Get(ctx, "k"); string(v) != "a" {
		t.Fatalf("region a sees %q", v)
	}
	if v, _, _ := b.Get(ctx, "k"); string(v) != "b" {
		t.Fatalf("region b sees %q", v)
	}

	if err := a.RemoveAll(ctx); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if _, ok, _ := a.Get(ctx, "k"); ok {
		t.Fatalf("RemoveAll left an entry")
	}
	if _, ok, _ := b.Get(ctx, "k"); !ok {
		t.Fatalf("RemoveAll leaked into another region")
	}
}

func TestKeysTracksPuts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	r, _ := s.Region("pages")

	_ = r.Put(ctx, "a", []byte("1"))
	_ = r.Put(ctx, "b", []byte("2"))
	_ = r.Put(ctx, "a", []byte("3")) // overwrite must not duplicate

	keys, err := r.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("Keys = %v", keys)
	}

	if err := r.RemoveAll(ctx); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if keys, _ := r.Keys(ctx); len(keys) != 0 {
		t.Fatalf("index not reset: %v", keys)
	}
}
