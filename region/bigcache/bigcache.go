// Package bigcache backs regions with allegro/bigcache: sharded, GC-friendly
// byte storage with a global life window. Each region gets its own BigCache
// instance so RemoveAll (Reset) stays isolated per region.
package bigcache

import (
	"context"
	"sync"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/metacache/region"
)

type Config struct {
	LifeWindow         time.Duration // 0 => 24h; refresh re-puts entries well before typical windows lapse
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // per-region memory limit; 0 = unlimited
}

type Store struct {
	cfg     Config
	mu      sync.Mutex
	regions map[string]*Region
}

var _ region.Store = (*Store)(nil)

func New(cfg Config) *Store {
	if cfg.LifeWindow <= 0 {
		cfg.LifeWindow = 24 * time.Hour
	}
	return &Store{cfg: cfg, regions: make(map[string]*Region)}
}

func (s *Store) Region(name string) (region.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.regions[name]; ok {
		return r, nil
	}

	conf := bc.DefaultConfig(s.cfg.LifeWindow)
	if s.cfg.CleanWindow > 0 {
		conf.CleanWindow = s.cfg.CleanWindow
	}
	if s.cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = s.cfg.MaxEntriesInWindow
	}
	if s.cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = s.cfg.MaxEntrySize
	}
	if s.cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = s.cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	r := &Region{c: c}
	s.regions[name] = r
	return r, nil
}

func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var first error
	for _, r := range s.regions {
		if err := r.c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type Region struct {
	c *bc.BigCache
}

var _ region.Region = (*Region)(nil)

func (r *Region) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := r.c.Get(key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	return b, err == nil, err
}

func (r *Region) Put(_ context.Context, key string, value []byte) error {
	return r.c.Set(key, value)
}

func (r *Region) Keys(_ context.Context) ([]string, error) {
	var keys []string
	it := r.c.Iterator()
	for it.SetNext() {
		info, err := it.Value()
		if err != nil {
			// entry raced with eviction; skip it
			continue
		}
		keys = append(keys, info.Key())
	}
	return keys, nil
}

func (r *Region) RemoveAll(_ context.Context) error {
	return r.c.Reset()
}
