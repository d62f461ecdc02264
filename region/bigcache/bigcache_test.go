package bigcache

import (
	"context"
	"sort"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(Config{LifeWindow: time.Hour})
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestRegionSemantics(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	r, err := s.Region("experiments")
	if err != nil {
		t.Fatalf("Region: %v", err)
	}

	if _, ok, err := r.Get(ctx, "a"); ok || err != nil {
		t.Fatalf("empty region: ok=%v err=%v", ok, err)
	}
	if err := r.Put(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := r.Put(ctx, "b", []byte("2")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	v, ok, err := r.Get(ctx, "b")
	if err != nil || !ok || string(v) != "2" {
		t.Fatalf("Get b: %q ok=%v err=%v", v, ok, err)
	}

	keys, err := r.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("Keys = %v", keys)
	}
}

func TestResetIsPerRegion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a, _ := s.Region("buckets")
	b, _ := s.Region("exclusions")

	_ = a.Put(ctx, "k", []byte("a"))
	_ = b.Put(ctx, "k", []byte("b"))

	if err := a.RemoveAll(ctx); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if _, ok, _ := a.Get(ctx, "k"); ok {
		t.Fatalf("RemoveAll left an entry")
	}
	if v, ok, _ := b.Get(ctx, "k"); !ok || string(v) != "b" {
		t.Fatalf("RemoveAll leaked into another region: %q ok=%v", v, ok)
	}
}
