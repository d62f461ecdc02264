// Package ristretto backs regions with a single shared dgraph-io/ristretto
// cache, keyed by region-name prefix. Ristretto cannot enumerate its
// contents, so each region keeps a side index of the keys it has seen;
// Keys may therefore report keys whose values were evicted. That is safe by
// the region contract: evicted keys just get re-put on the next refresh.
package ristretto

import (
	"context"
	"errors"
	"sync"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/metacache/region"
)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

type Store struct {
	c       *rc.Cache
	mu      sync.Mutex
	regions map[string]*Region
}

var _ region.Store = (*Store)(nil)

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c, regions: make(map[string]*Region)}, nil
}

func (s *Store) Region(name string) (region.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regions[name]
	if !ok {
		r = &Region{c: s.c, prefix: name + ":", keys: make(map[string]struct{})}
		s.regions[name] = r
	}
	return r, nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes the underlying ristretto metrics when enabled in Config.
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }

type Region struct {
	c      *rc.Cache
	prefix string

	mu   sync.RWMutex
	keys map[string]struct{}
}

var _ region.Region = (*Region)(nil)

func (r *Region) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := r.c.Get(r.prefix + key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// unexpected entry shape; drop it
		r.c.Del(r.prefix + key)
		return nil, false, nil
	}
	return b, true, nil
}

func (r *Region) Put(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	r.c.Set(r.prefix+key, cp, int64(len(cp)))
	// Set is buffered; Wait makes the write visible before Put returns so
	// a read-through populate is observable by the very next Get.
	r.c.Wait()

	r.mu.Lock()
	r.keys[key] = struct{}{}
	r.mu.Unlock()
	return nil
}

func (r *Region) Keys(_ context.Context) ([]string, error) {
	r.mu.RLock()
	out := make([]string, 0, len(r.keys))
	for k := range r.keys {
		out = append(out, k)
	}
	r.mu.RUnlock()
	return out, nil
}

func (r *Region) RemoveAll(_ context.Context) error {
	r.mu.Lock()
	for k := range r.keys {
		r.c.Del(r.prefix + k)
	}
	r.keys = make(map[string]struct{})
	r.mu.Unlock()
	return nil
}
