// Package memory provides the in-process default region store: one
// RWMutex-guarded map per region. No eviction, no TTL; entries live until
// RemoveAll or process exit.
package memory

import (
	"context"
	"sync"

	"github.com/unkn0wn-root/metacache/region"
)

type Store struct {
	mu      sync.Mutex
	regions map[string]*Region
}

var _ region.Store = (*Store)(nil)

func New() *Store {
	return &Store{regions: make(map[string]*Region)}
}

// Region returns the named region, creating it empty on first use.
func (s *Store) Region(name string) (region.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regions[name]
	if !ok {
		r = &Region{m: make(map[string][]byte)}
		s.regions[name] = r
	}
	return r, nil
}

func (s *Store) Close(context.Context) error { return nil }

type Region struct {
	mu sync.RWMutex
	m  map[string][]byte
}

var _ region.Region = (*Region)(nil)

func (r *Region) Get(_ context.Context, key string) ([]byte, bool, error) {
	r.mu.RLock()
	v, ok := r.m[key]
	r.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	// copy so callers never alias the stored slice
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (r *Region) Put(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	r.mu.Lock()
	r.m[key] = cp
	r.mu.Unlock()
	return nil
}

func (r *Region) Keys(_ context.Context) ([]string, error) {
	r.mu.RLock()
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	r.mu.RUnlock()
	return out, nil
}

func (r *Region) RemoveAll(_ context.Context) error {
	r.mu.Lock()
	r.m = make(map[string][]byte)
	r.mu.Unlock()
	return nil
}
