// Package sloghooks emits cache events through log/slog. Misses are the
// only high-frequency event; they are sampled so a cold cache cannot flood
// the log.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/metacache"
)

type Options struct {
	// Sampling for read-through misses; 0/1 = log all.
	MissEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	missCtr atomic.Uint64
}

var _ metacache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) ReadThroughMiss(region, key string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("metacache.read_through_miss",
		"region", region,
		"key", key)
}

func (h *Hooks) RegionRefreshed(region string, requested, updated int) {
	if h.l == nil {
		return
	}
	h.l.Debug("metacache.region_refreshed",
		"region", region,
		"requested", requested,
		"updated", updated)
}

func (h *Hooks) RefreshRegionError(region string, requested int, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("metacache.refresh_region_error",
		"region", region,
		"requested", requested,
		"err", err)
}

func (h *Hooks) ClearRegionError(region string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("metacache.clear_region_error",
		"region", region,
		"err", err)
}

func (h *Hooks) EntrySelfHealed(region, key, reason string) {
	if h.l == nil {
		return
	}
	h.l.Warn("metacache.entry_self_healed",
		"region", region,
		"key", key,
		"reason", reason)
}
