// Package region defines the storage abstraction the metadata cache runs on.
//
// A Region is a named opaque key→bytes store. Implementations MUST be safe
// for concurrent use and byte-for-byte transparent: Get must return exactly
// the []byte previously passed to Put for the same key, with no prepended
// metadata, re-encoding, or mutation. Eviction, memory bounds, and
// persistence are the implementation's concern, not the cache's.
//
// Keys returns the keys currently present so the refresh cycle can snapshot
// a region's key set. No ordering is guaranteed. Backends that cannot
// enumerate natively (e.g. Ristretto) may return a superset of the keys that
// still hold a value; the cache tolerates this by simply re-putting them.
package region

import "context"

// Region is one named key→bytes store owned by the cache.
type Region interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Keys snapshots the keys currently present.
	Keys(ctx context.Context) ([]string, error)

	// RemoveAll empties the region.
	RemoveAll(ctx context.Context) error
}

// Store hands out named regions. Asking for the same name twice returns
// views over the same underlying data.
type Store interface {
	Region(name string) (Region, error)

	// Close releases resources backing every region.
	Close(ctx context.Context) error
}
