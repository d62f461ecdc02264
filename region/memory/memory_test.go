package memory

import (
	"context"
	"sort"
	"sync"
	"testing"
)

func TestRegionSemantics(t *testing.T) {
	ctx := context.Background()
	s := New()
	r, err := s.Region("experiments")
	if err != nil {
		t.Fatalf("Region: %v", err)
	}

	if _, ok, _ := r.Get(ctx, "a"); ok {
		t.Fatalf("empty region should miss")
	}
	if err := r.Put(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := r.Put(ctx, "b", []byte("2")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	v, ok, err := r.Get(ctx, "a")
	if err != nil || !ok || string(v) != "1" {
		t.Fatalf("Get a: %q ok=%v err=%v", v, ok, err)
	}

	// mutating a returned slice must not leak into the region
	v[0] = 'X'
	if got, _, _ := r.Get(ctx, "a"); string(got) != "1" {
		t.Fatalf("stored value aliased by caller: %q", got)
	}

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
		t.Fatalf("RemoveAll left keys: %v", keys)
	}
}

func TestSameNameSameRegion(t *testing.T) {
	ctx := context.Background()
	s := New()
	r1, _ := s.Region("buckets")
	r2, _ := s.Region("buckets")
	if err := r1.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, _ := r2.Get(ctx, "k"); !ok {
		t.Fatalf("second handle does not see the same data")
	}
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New()
	r, _ := s.Region("hot")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%4))
			for j := 0; j < 100; j++ {
				_ = r.Put(ctx, key, []byte{byte(j)})
				_, _, _ = r.Get(ctx, key)
				_, _ = r.Keys(ctx)
			}
		}(i)
	}
	wg.Wait()
}
