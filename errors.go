package metacache

import "fmt"

// FetchError wraps a repository failure, naming the region whose fetch
// failed. On the read path it propagates to the caller; during refresh it is
// collected per region and returned aggregated from Refresh.
type FetchError struct {
	Region string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("metacache: fetch for region %q failed: %v", e.Region, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ClearError wraps a storage failure while emptying one region. Clear is
// best-effort: it attempts every region and returns the aggregate.
type ClearError struct {
	Region string
	Err    error
}

func (e *ClearError) Error() string {
	return fmt.Sprintf("metacache: clear of region %q failed: %v", e.Region, e.Err)
}

func (e *ClearError) Unwrap() error { return e.Err }
