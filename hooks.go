package metacache

// Hooks lightweight callbacks for high-signal cache events.
// Implementations MUST be cheap and non-blocking; the cache calls them on
// hot paths. Wrap with hooks/async to move work off the caller goroutine.
type Hooks interface {
	// A read-through accessor missed and is about to hit the repository.
	ReadThroughMiss(region, key string)

	// One region finished its refresh pass.
	// requested is the snapshot size, updated how many keys came back.
	RegionRefreshed(region string, requested, updated int)

	// One region's bulk fetch failed during refresh (other regions proceed).
	RefreshRegionError(region string, requested int, err error)

	// One region's RemoveAll failed during Clear (other regions proceed).
	ClearRegionError(region string, err error)

	// A cached entry was unreadable and got overwritten by a fresh fetch.
	// reason ∈ {"corrupt", "value_decode"}
	EntrySelfHealed(region, key, reason string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) ReadThroughMiss(string, string)         {}
func (NopHooks) RegionRefreshed(string, int, int)       {}
func (NopHooks) RefreshRegionError(string, int, error)  {}
func (NopHooks) ClearRegionError(string, error)         {}
func (NopHooks) EntrySelfHealed(string, string, string) {}
