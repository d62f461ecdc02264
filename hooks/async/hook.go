// Package asynchook decouples hook consumers from the cache's hot paths:
// events are queued to a bounded channel and replayed by worker goroutines.
// When the queue is full, events are dropped rather than blocking a read.
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/metacache"
)

type Hooks struct {
	inner metacache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ metacache.Hooks = (*Hooks)(nil)

func New(inner metacache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) ReadThroughMiss(region, key string) {
	h.try(func() { h.inner.ReadThroughMiss(region, key) })
}

func (h *Hooks) RegionRefreshed(region string, requested, updated int) {
	h.try(func() { h.inner.RegionRefreshed(region, requested, updated) })
}

func (h *Hooks) RefreshRegionError(region string, requested int, err error) {
	h.try(func() { h.inner.RefreshRegionError(region, requested, err) })
}

func (h *Hooks) ClearRegionError(region string, err error) {
	h.try(func() { h.inner.ClearRegionError(region, err) })
}

func (h *Hooks) EntrySelfHealed(region, key, reason string) {
	h.try(func() { h.inner.EntrySelfHealed(region, key, reason) })
}
