// Package health is the liveness-registration seam the cache plugs its
// staleness probe into. Applications typically adapt Registry onto whatever
// check endpoint they already serve; SimpleRegistry covers the common case
// of polling all checks from one handler.
package health

import (
	"context"
	"sync"
)

// Check reports nil when healthy.
type Check func(ctx context.Context) error

// Registry accepts named checks. Registering the same name again replaces
// the previous check.
type Registry interface {
	Register(name string, c Check)
}

// SimpleRegistry is a concurrency-safe in-process Registry.
type SimpleRegistry struct {
	mu     sync.RWMutex
	checks map[string]Check
}

var _ Registry = (*SimpleRegistry)(nil)

func NewRegistry() *SimpleRegistry {
	return &SimpleRegistry{checks: make(map[string]Check)}
}

func (r *SimpleRegistry) Register(name string, c Check) {
	r.mu.Lock()
	r.checks[name] = c
	r.mu.Unlock()
}

// Run executes every registered check and returns its result by name.
// A nil map value means the check passed.
func (r *SimpleRegistry) Run(ctx context.Context) map[string]error {
	r.mu.RLock()
	checks := make(map[string]Check, len(r.checks))
	for n, c := range r.checks {
		checks[n] = c
	}
	r.mu.RUnlock()

	out := make(map[string]error, len(checks))
	for n, c := range checks {
		out[n] = c(ctx)
	}
	return out
}

// Healthy reports whether every registered check passes.
func (r *SimpleRegistry) Healthy(ctx context.Context) bool {
	for _, err := range r.Run(ctx) {
		if err != nil {
			return false
		}
	}
	return true
}
