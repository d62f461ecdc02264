// Package metacache is an in-process read-through cache for experiment
// assignment metadata. It sits in the hot path of user-assignment decisions
// and shields the backing repositories from per-request lookups.
//
// Components:
//   - region.Store: named opaque key→bytes regions (memory, BigCache,
//     Ristretto, Redis implementations under region/).
//   - Repositories: bulk "fetch by key set" collaborators for experiments,
//     priorities, mutual exclusions, and pages.
//   - Codec[V]: (de)serializes values <-> []byte (msgpack default).
//   - schedule.Scheduler: fires Refresh at a fixed interval.
//   - health.Registry: receives the cache's staleness probe.
//
// Six regions are populated lazily on first access, including negative
// entries for keys the repositories do not know. A periodic refresh cycle
// re-fetches values for exactly the keys already observed, never adding new
// ones; Clear empties everything and reads repopulate lazily. Regions are
// refreshed independently: there is no cross-region consistency, and one
// region's failure never blocks the others.
//
// Concurrency: per-key get/put is the unit of atomicity. There is no
// single-flight deduplication; concurrent misses on one key may each hit
// the repository and the last write wins. Duplicate backend work is
// acceptable, incorrect results are not.
package metacache
