package dispatch

import (
	"context"
	"sync/atomic"
	"time"
)

// Sync executes handlers in the caller's goroutine.
type Sync struct {
	exec    *executor
	timeout time.Duration

	dispatched atomic.Uint64
	succeeded  atomic.Uint64
	failed     atomic.Uint64
	panicked   atomic.Uint64
}

// SyncOption configures a Sync dispatcher.
type SyncOption func(*Sync)

// WithSyncPanicHandler sets the panic handler.
func WithSyncPanicHandler(h PanicHandler) SyncOption {
	return func(d *Sync) {
		if h != nil {
			d.exec = newExecutor(h)
		}
	}
}

// WithSyncTimeout sets a default per-handler timeout.
func WithSyncTimeout(timeout time.Duration) SyncOption {
	return func(d *Sync) { d.timeout = timeout }
}

// NewSync creates a synchronous dispatcher.
func NewSync(opts ...SyncOption) *Sync {
	d := &Sync{exec: newExecutor(nil)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs the handler and blocks until it completes, times out,
// or panics.
func (d *Sync) Dispatch(ctx context.Context, event any, handler Handler) Result {
	d.dispatched.Add(1)

	result := d.exec.executeWithTimeout(ctx, event, handler, d.timeout)

	switch {
	case result.Panicked:
		d.panicked.Add(1)
	case result.Err != nil:
		d.failed.Add(1)
	case result.Success:
		d.succeeded.Add(1)
	}
	return result
}

// Stats returns dispatch counters.
func (d *Sync) Stats() SyncStats {
	return SyncStats{
		Dispatched: d.dispatched.Load(),
		Succeeded:  d.succeeded.Load(),
		Failed:     d.failed.Load(),
		Panicked:   d.panicked.Load(),
	}
}

// SyncStats contains counters for a Sync dispatcher.
type SyncStats struct {
	Dispatched uint64
	Succeeded  uint64
	Failed     uint64
	Panicked   uint64
}
