package build

import (
	"context"
	"errors"
	"sync"
)

// HookFn is called when a build ended.
// A returned error marks the build as failed.
type HookFn func(ctx context.Context, b *Build) error

// Hooks holds the functions that are run when builds end.
//
// Build-end hooks run once for every standalone build and every member run
// of a matrix build, after the build steps finished.
// Aggregate-end hooks run once per matrix build, after all member runs
// finished, with the aggregate build.
type Hooks struct {
	mu           sync.Mutex
	buildEnd     []HookFn
	aggregateEnd []HookFn
}

// NewHooks returns an empty hook registry.
func NewHooks() *Hooks {
	return &Hooks{}
}

// OnBuildEnd registers fn as build-end hook.
func (h *Hooks) OnBuildEnd(fn HookFn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buildEnd = append(h.buildEnd, fn)
}

// OnAggregateEnd registers fn as aggregate-end hook.
func (h *Hooks) OnAggregateEnd(fn HookFn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.aggregateEnd = append(h.aggregateEnd, fn)
}

func (h *Hooks) buildEndHooks() []HookFn {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]HookFn(nil), h.buildEnd...)
}

func (h *Hooks) aggregateEndHooks() []HookFn {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]HookFn(nil), h.aggregateEnd...)
}

// run calls all fns in registration order.
// A failing hook does not prevent the following ones from running, all
// errors are recorded in the build and returned joined.
func runHooks(ctx context.Context, b *Build, fns []HookFn) error {
	var errs []error

	for _, fn := range fns {
		if err := fn(ctx, b); err != nil {
			b.Fail(err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
