// Package redis backs regions with a shared Redis instance so multiple
// assignment replicas can warm the same metadata. Regions live under
// "<namespace>:<region>:" key prefixes; Keys and RemoveAll use SCAN so they
// never block the server the way KEYS would.
package redis

import (
	"context"
	"errors"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/metacache/region"
)

var ErrNilClient = errors.New("redis region store: nil client")

const scanBatch = 512

type Config struct {
	Client      goredis.UniversalClient
	Namespace   string // key prefix shared by all regions; "" => "metacache"
	CloseClient bool   // set true only if this store exclusively owns the client
}

type Store struct {
	rdb         goredis.UniversalClient
	ns          string
	closeClient bool
}

var _ region.Store = (*Store)(nil)

func New(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = "metacache"
	}
	return &Store{rdb: cfg.Client, ns: ns, closeClient: cfg.CloseClient}, nil
}

func (s *Store) Region(name string) (region.Region, error) {
	return &Region{rdb: s.rdb, prefix: s.ns + ":" + name + ":"}, nil
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Store) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

type Region struct {
	rdb    goredis.UniversalClient
	prefix string
}

var _ region.Region = (*Region)(nil)

func (r *Region) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (r *Region) Put(ctx context.Context, key string, value []byte) error {
	// no per-entry expiry: the refresh cycle keeps entries current and
	// Clear is the only eviction the cache contract knows about
	return r.rdb.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *Region) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *Region) RemoveAll(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := r.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.rdb.Del(ctx, batch...).Err()
	}
	return nil
}
