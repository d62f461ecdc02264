package metacache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/metacache/health"
	"github.com/unkn0wn-root/metacache/region"
	"github.com/unkn0wn-root/metacache/schedule"
)

// Well-known region names within the Store. External code MUST NOT write
// under these names; entries are framed and validated, and foreign bytes
// are treated as corruption.
const (
	RegionAppExperiments  = "app-experiments"
	RegionExperiments     = "experiments"
	RegionPriorities      = "prioritized-experiments"
	RegionExclusions      = "exclusions"
	RegionBuckets         = "buckets"
	RegionPageExperiments = "page-experiments"
)

// HealthCheckName is the name the staleness probe registers under.
const HealthCheckName = "assignments-metadata-cache"

// RegionNames lists every region the cache owns, in refresh order.
func RegionNames() []string {
	return []string{
		RegionAppExperiments,
		RegionExperiments,
		RegionPriorities,
		RegionExclusions,
		RegionBuckets,
		RegionPageExperiments,
	}
}

// Encoding selects the codec region values are stored with.
type Encoding int

const (
	EncodingMsgpack Encoding = iota // default
	EncodingJSON
	EncodingCBOR
)

// Cache is the assignment metadata cache: six read-through regions over the
// backing repositories, refreshed on a schedule.
//
// Result conventions, part of the public contract: list-valued accessors
// return an empty slice when nothing is found and never a "not found" error;
// the single-entity accessor returns ok=false on absence. Absence and
// failure are distinct - a repository error always surfaces as a non-nil
// error, never as an empty result.
type Cache interface {
	GetExperimentsByApp(ctx context.Context, app AppName) ([]Experiment, error)
	GetExperimentByID(ctx context.Context, id ExperimentID) (Experiment, bool, error)
	GetPrioritizedExperiments(ctx context.Context, app AppName) ([]PrioritizedExperiment, error)
	GetExclusionList(ctx context.Context, id ExperimentID) ([]ExperimentID, error)
	GetBucketList(ctx context.Context, id ExperimentID) ([]Bucket, error)
	GetPageExperiments(ctx context.Context, app AppName, page PageName) ([]PageExperiment, error)

	// Refresh re-fetches current values for every key already cached, one
	// bulk repository call per region. It never adds keys. A failing region
	// is logged and skipped; the others still refresh. The returned error
	// aggregates the per-region failures.
	Refresh(ctx context.Context) error

	// Clear empties all regions, best-effort. Subsequent reads repopulate
	// lazily.
	Clear(ctx context.Context) error

	// LastRefreshTime is the completion time of the most recent Refresh.
	// The zero time means no refresh has completed yet.
	LastRefreshTime() time.Time

	Enabled() bool
	Close(ctx context.Context) error
}

// Options configure the cache. Repositories and Store are required; the
// rest defaults.
type Options struct {
	// Required
	Experiments ExperimentRepository
	Priorities  PrioritiesRepository
	Mutex       MutexRepository
	Pages       PagesRepository
	Store       region.Store

	RefreshInterval time.Duration      // period between refresh cycles; 0 => 5m
	Encoding        Encoding           // region value codec; default msgpack
	Logger          Logger             // nil => NopLogger
	Hooks           Hooks              // nil => NopHooks
	Scheduler       schedule.Scheduler // nil => a dedicated interval scheduler
	Health          health.Registry    // nil => staleness probe not registered
	Disabled        bool               // bypass regions; every read hits the repository
}

func New(opts Options) (Cache, error) {
	return newCache(opts)
}
