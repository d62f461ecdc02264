package metacache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/unkn0wn-root/metacache/codec"
	"github.com/unkn0wn-root/metacache/internal/wire"
	"github.com/unkn0wn-root/metacache/region"
	"github.com/unkn0wn-root/metacache/schedule"
)

const defaultRefreshInterval = 5 * time.Minute

// The staleness probe trips once the last completed refresh is older than
// staleFactor refresh intervals.
const staleFactor = 2

type cache struct {
	appExperiments *view[AppName, []Experiment]
	experiments    *view[ExperimentID, Experiment]
	priorities     *view[AppName, []PrioritizedExperiment]
	exclusions     *view[ExperimentID, []ExperimentID]
	buckets        *view[ExperimentID, []Bucket]
	pages          *view[AppPage, []PageExperiment]
	views          []regionView

	store     region.Store
	log       Logger
	enabled   bool
	interval  time.Duration
	startedAt time.Time
	now       func() time.Time

	// refreshMu serializes refresh cycles. The scheduler should not overlap
	// runs, but the cache stays correct if it does.
	refreshMu   sync.Mutex
	lastRefresh atomic.Int64 // unix nanos of last completed cycle; 0 = never

	stopRefresh func()
}

var _ Cache = (*cache)(nil)

func newCache(opts Options) (*cache, error) {
	switch {
	case opts.Experiments == nil:
		return nil, fmt.Errorf("metacache: experiment repository is required")
	case opts.Priorities == nil:
		return nil, fmt.Errorf("metacache: priorities repository is required")
	case opts.Mutex == nil:
		return nil, fmt.Errorf("metacache: mutex repository is required")
	case opts.Pages == nil:
		return nil, fmt.Errorf("metacache: pages repository is required")
	case opts.Store == nil:
		return nil, fmt.Errorf("metacache: region store is required")
	}

	c := &cache{
		store:     opts.Store,
		enabled:   !opts.Disabled,
		interval:  coalesce[time.Duration](opts.RefreshInterval, defaultRefreshInterval),
		startedAt: time.Now(),
		now:       time.Now,
	}

	c.log = opts.Logger
	if c.log == nil {
		c.log = NopLogger{}
	}
	hooks := opts.Hooks
	if hooks == nil {
		hooks = NopHooks{}
	}
	enc := opts.Encoding

	var err error
	if c.appExperiments, err = buildView(opts.Store, RegionAppExperiments, enc, c.log, hooks,
		appKey, appOf, opts.Experiments.ExperimentsByApp); err != nil {
		return nil, err
	}
	if c.experiments, err = buildView(opts.Store, RegionExperiments, enc, c.log, hooks,
		expKey, expOf, opts.Experiments.ExperimentsByID); err != nil {
		return nil, err
	}
	if c.priorities, err = buildView(opts.Store, RegionPriorities, enc, c.log, hooks,
		appKey, appOf, opts.Priorities.PrioritiesByApp); err != nil {
		return nil, err
	}
	if c.exclusions, err = buildView(opts.Store, RegionExclusions, enc, c.log, hooks,
		expKey, expOf, opts.Mutex.ExclusionsByExperiment); err != nil {
		return nil, err
	}
	if c.buckets, err = buildView(opts.Store, RegionBuckets, enc, c.log, hooks,
		expKey, expOf, opts.Experiments.BucketsByExperiment); err != nil {
		return nil, err
	}
	if c.pages, err = buildView(opts.Store, RegionPageExperiments, enc, c.log, hooks,
		AppPage.regionKey, appPageFromKey, opts.Pages.ExperimentsByAppPage); err != nil {
		return nil, err
	}
	c.views = []regionView{c.appExperiments, c.experiments, c.priorities, c.exclusions, c.buckets, c.pages}

	if c.enabled {
		sched := opts.Scheduler
		if sched == nil {
			sched = schedule.NewInterval()
		}
		c.stopRefresh = sched.Every("metadata-cache-refresh", c.interval, func(ctx context.Context) {
			if rerr := c.Refresh(ctx); rerr != nil {
				c.log.Error("scheduled refresh finished with errors", Fields{"err": rerr})
			}
		})
	}
	// a disabled cache never refreshes; registering the staleness probe
	// would just report it unhealthy forever
	if opts.Health != nil && c.enabled {
		opts.Health.Register(HealthCheckName, c.stalenessCheck)
	}
	return c, nil
}

func (c *cache) GetExperimentsByApp(ctx context.Context, app AppName) ([]Experiment, error) {
	if !c.enabled {
		v, _, err := c.appExperiments.fetchDirect(ctx, app)
		return v, err
	}
	v, _, err := c.appExperiments.lookup(ctx, app)
	return v, err
}

func (c *cache) GetExperimentByID(ctx context.Context, id ExperimentID) (Experiment, bool, error) {
	if !c.enabled {
		return c.experiments.fetchDirect(ctx, id)
	}
	return c.experiments.lookup(ctx, id)
}

func (c *cache) GetPrioritizedExperiments(ctx context.Context, app AppName) ([]PrioritizedExperiment, error) {
	if !c.enabled {
		v, _, err := c.priorities.fetchDirect(ctx, app)
		return v, err
	}
	v, _, err := c.priorities.lookup(ctx, app)
	return v, err
}

func (c *cache) GetExclusionList(ctx context.Context, id ExperimentID) ([]ExperimentID, error) {
	if !c.enabled {
		v, _, err := c.exclusions.fetchDirect(ctx, id)
		return v, err
	}
	v, _, err := c.exclusions.lookup(ctx, id)
	return v, err
}

func (c *cache) GetBucketList(ctx context.Context, id ExperimentID) ([]Bucket, error) {
	if !c.enabled {
		v, _, err := c.buckets.fetchDirect(ctx, id)
		return v, err
	}
	v, _, err := c.buckets.lookup(ctx, id)
	return v, err
}

func (c *cache) GetPageExperiments(ctx context.Context, app AppName, page PageName) ([]PageExperiment, error) {
	key := AppPage{App: app, Page: page}
	if !c.enabled {
		v, _, err := c.pages.fetchDirect(ctx, key)
		return v, err
	}
	v, _, err := c.pages.lookup(ctx, key)
	return v, err
}

func (c *cache) Refresh(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	var errs error
	for _, v := range c.views {
		if err := v.refreshRegion(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	// The cycle completed: every region was attempted. Per-region failures
	// are reported above but do not hold the clock back.
	c.lastRefresh.Store(c.now().UnixNano())
	return errs
}

func (c *cache) Clear(ctx context.Context) error {
	var errs error
	for _, v := range c.views {
		if err := v.clearRegion(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (c *cache) LastRefreshTime() time.Time {
	n := c.lastRefresh.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

func (c *cache) Enabled() bool { return c.enabled }

func (c *cache) Close(ctx context.Context) error {
	if c.stopRefresh != nil {
		c.stopRefresh()
	}
	return c.store.Close(ctx)
}

func (c *cache) stalenessCheck(context.Context) error {
	limit := staleFactor * c.interval
	last := c.LastRefreshTime()
	if last.IsZero() {
		if age := c.now().Sub(c.startedAt); age > limit {
			return fmt.Errorf("no refresh completed since start %s ago (limit %s)", age.Round(time.Second), limit)
		}
		return nil
	}
	if age := c.now().Sub(last); age > limit {
		return fmt.Errorf("last refresh %s ago exceeds %s", age.Round(time.Second), limit)
	}
	return nil
}

// regionView is the untyped face of a view, so refresh and clear can walk
// all six regions without caring about their key/value types.
type regionView interface {
	refreshRegion(ctx context.Context) error
	clearRegion(ctx context.Context) error
}

// view binds one region to its repository fetch, codec, and key mapping.
// Region keys must round-trip through keyStr/keyOf so the refresh cycle can
// turn a key-set snapshot back into a typed bulk fetch.
type view[K comparable, V any] struct {
	name  string
	reg   region.Region
	codec codec.Codec[V]
	log   Logger
	hooks Hooks

	keyStr func(K) string
	keyOf  func(string) (K, error)
	fetch  func(ctx context.Context, keys []K) (map[K]V, error)
}

func buildView[K comparable, V any](
	st region.Store, name string, enc Encoding, log Logger, hooks Hooks,
	keyStr func(K) string, keyOf func(string) (K, error),
	fetch func(ctx context.Context, keys []K) (map[K]V, error),
) (*view[K, V], error) {
	reg, err := st.Region(name)
	if err != nil {
		return nil, fmt.Errorf("metacache: region %q: %w", name, err)
	}
	return &view[K, V]{
		name:   name,
		reg:    reg,
		codec:  codecFor[V](enc),
		log:    log,
		hooks:  hooks,
		keyStr: keyStr,
		keyOf:  keyOf,
		fetch:  fetch,
	}, nil
}

// lookup is the read-through path: region hit (including a cached negative),
// else a single-key bulk fetch whose result is stored before returning.
func (v *view[K, V]) lookup(ctx context.Context, key K) (V, bool, error) {
	var zero V
	ks := v.keyStr(key)

	raw, hit, err := v.reg.Get(ctx, ks)
	if err != nil {
		return zero, false, fmt.Errorf("metacache: region %q get: %w", v.name, err)
	}
	if hit {
		present, payload, derr := wire.DecodeEntry(raw)
		if derr == nil {
			if !present {
				return zero, false, nil // negative-cached absence
			}
			val, cerr := v.codec.Decode(payload)
			if cerr == nil {
				return val, true, nil
			}
			v.hooks.EntrySelfHealed(v.name, ks, "value_decode")
			v.log.Warn("undecodable region entry, refetching", Fields{"region": v.name, "key": ks, "err": cerr})
		} else {
			v.hooks.EntrySelfHealed(v.name, ks, "corrupt")
			v.log.Warn("corrupt region entry, refetching", Fields{"region": v.name, "key": ks})
		}
		// unreadable entry falls through; the fetch below overwrites it
	}

	v.hooks.ReadThroughMiss(v.name, ks)
	val, found, err := v.fetchDirect(ctx, key)
	if err != nil {
		return zero, false, err
	}
	// a negative result is stored too, so known-absent keys stop hitting
	// the repository
	if perr := v.put(ctx, ks, val, found); perr != nil {
		v.log.Warn("region put failed", Fields{"region": v.name, "key": ks, "err": perr})
	}
	return val, found, nil
}

// fetchDirect hits the repository without touching the region.
func (v *view[K, V]) fetchDirect(ctx context.Context, key K) (V, bool, error) {
	var zero V
	m, err := v.fetch(ctx, []K{key})
	if err != nil {
		return zero, false, &FetchError{Region: v.name, Err: err}
	}
	val, found := m[key]
	return val, found, nil
}

func (v *view[K, V]) put(ctx context.Context, ks string, val V, present bool) error {
	if !present {
		return v.reg.Put(ctx, ks, wire.EncodeEntry(false, nil))
	}
	payload, err := v.codec.Encode(val)
	if err != nil {
		return err
	}
	return v.reg.Put(ctx, ks, wire.EncodeEntry(true, payload))
}

// refreshRegion snapshots the region's key set, bulk-fetches exactly those
// keys, and overwrites them in place. Snapshot keys the repository no
// longer returns become negative entries: a deleted upstream entity stops
// being served without the key set growing or shrinking.
func (v *view[K, V]) refreshRegion(ctx context.Context) error {
	rawKeys, err := v.reg.Keys(ctx)
	if err != nil {
		v.log.Error("region key snapshot failed", Fields{"region": v.name, "err": err})
		v.hooks.RefreshRegionError(v.name, 0, err)
		return fmt.Errorf("metacache: key snapshot for region %q: %w", v.name, err)
	}
	if len(rawKeys) == 0 {
		v.hooks.RegionRefreshed(v.name, 0, 0)
		return nil
	}

	keys := make([]K, 0, len(rawKeys))
	for _, rk := range rawKeys {
		k, kerr := v.keyOf(rk)
		if kerr != nil {
			v.log.Warn("skipping unparsable region key", Fields{"region": v.name, "key": rk})
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		v.hooks.RegionRefreshed(v.name, 0, 0)
		return nil
	}

	updated, err := v.fetch(ctx, keys)
	if err != nil {
		v.log.Error("region refresh fetch failed", Fields{"region": v.name, "keys": len(keys), "err": err})
		v.hooks.RefreshRegionError(v.name, len(keys), err)
		return &FetchError{Region: v.name, Err: err}
	}

	for _, k := range keys {
		val, found := updated[k]
		if perr := v.put(ctx, v.keyStr(k), val, found); perr != nil {
			v.log.Warn("region put failed during refresh", Fields{"region": v.name, "key": v.keyStr(k), "err": perr})
		}
	}
	v.hooks.RegionRefreshed(v.name, len(keys), len(updated))
	return nil
}

func (v *view[K, V]) clearRegion(ctx context.Context) error {
	if err := v.reg.RemoveAll(ctx); err != nil {
		v.log.Error("region clear failed", Fields{"region": v.name, "err": err})
		v.hooks.ClearRegionError(v.name, err)
		return &ClearError{Region: v.name, Err: err}
	}
	return nil
}

func codecFor[V any](e Encoding) codec.Codec[V] {
	switch e {
	case EncodingJSON:
		return codec.JSON[V]{}
	case EncodingCBOR:
		return codec.MustCBOR[V]()
	default:
		return codec.Msgpack[V]{}
	}
}

func appKey(a AppName) string              { return string(a) }
func appOf(s string) (AppName, error)      { return AppName(s), nil }
func expKey(id ExperimentID) string        { return string(id) }
func expOf(s string) (ExperimentID, error) { return ExperimentID(s), nil }
