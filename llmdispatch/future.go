package llmdispatch

import (
	"context"

	"cultivation-world-simulator/engine"
)

// CallResult is what a Future eventually resolves to: either a parsed JSON
// object or an error.
type CallResult struct {
	Object map[string]any
	Err    error
}

// Future is the pending-LLM-result handle an action stores on itself
// across ticks (spec §4.5 step 1-2, §9 "Async control flow": "The step
// function is a finite-state machine: idle -> dispatched -> consuming ->
// done. Storing the handle on the action object avoids any callback
// indirection and makes cancellation trivial."). It wraps an
// engine.Future: every call this dispatcher hands out is scheduled as an
// engine activity (see dispatch.go), not a bespoke goroutine/channel pair.
type Future struct {
	fut    engine.Future
	cancel context.CancelFunc
}

func newFuture(fut engine.Future, cancel context.CancelFunc) *Future {
	return &Future{fut: fut, cancel: cancel}
}

// IsReady reports whether Get will return immediately, without blocking
// the calling step (spec §4.5 step 2 "polls the handle: if not done,
// return RUNNING").
func (f *Future) IsReady() bool {
	return f.fut.IsReady()
}

// Get blocks until the call resolves. Actions should only call it after
// IsReady returns true, to honor the "step never blocks" contract; Get
// itself still supports a context for tests and direct callers.
func (f *Future) Get(ctx context.Context) (CallResult, error) {
	var result CallResult
	if err := f.fut.Get(ctx, &result); err != nil {
		return CallResult{}, err
	}
	return result, nil
}

// Cancel discards a pending result (spec §5 "preempt synchronously
// cancels the in-flight LLM task"). Safe to call multiple times and after
// the Future has already resolved.
func (f *Future) Cancel() {
	if f.cancel != nil {
		f.cancel()
	}
}
