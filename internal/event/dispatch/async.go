package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Async executes handlers on a bounded worker pool.
type Async struct {
	queueSize   int
	workerCount int
	timeout     time.Duration

	mu      sync.Mutex // protects queue creation and close
	queue   chan asyncTask
	running atomic.Bool
	wg      sync.WaitGroup

	panicHandler PanicHandler

	enqueued  atomic.Uint64
	processed atomic.Uint64
	succeeded atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64
	dropped   atomic.Uint64
}

type asyncTask struct {
	ctx     context.Context
	event   any
	handler Handler
}

// AsyncOption configures an Async dispatcher.
type AsyncOption func(*Async)

// WithQueueSize sets the task queue capacity.
func WithQueueSize(size int) AsyncOption {
	return func(d *Async) {
		if size > 0 {
			d.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) AsyncOption {
	return func(d *Async) {
		if count > 0 {
			d.workerCount = count
		}
	}
}

// WithAsyncTimeout sets the per-handler execution timeout.
func WithAsyncTimeout(timeout time.Duration) AsyncOption {
	return func(d *Async) { d.timeout = timeout }
}

// WithAsyncPanicHandler sets the panic handler for worker execution.
func WithAsyncPanicHandler(h PanicHandler) AsyncOption {
	return func(d *Async) { d.panicHandler = h }
}

// NewAsync creates an asynchronous dispatcher.
func NewAsync(opts ...AsyncOption) *Async {
	d := &Async{
		queueSize:   4096,
		workerCount: 4,
		timeout:     5 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start starts the worker pool.
func (d *Async) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running.Load() {
		return ErrAlreadyRunning
	}
	d.queue = make(chan asyncTask, d.queueSize)
	d.running.Store(true)

	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return nil
}

// Stop stops the pool, draining queued tasks until ctx expires.
func (d *Async) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.running.Load() {
		d.mu.Unlock()
		return ErrNotRunning
	}
	d.running.Store(false)
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue queues an event for execution. Returns ErrQueueFull if the queue
// is at capacity.
func (d *Async) Enqueue(ctx context.Context, event any, handler Handler) error {
	if !d.running.Load() {
		return ErrNotRunning
	}

	select {
	case d.queue <- asyncTask{ctx: ctx, event: event, handler: handler}:
		d.enqueued.Add(1)
		return nil
	default:
		d.dropped.Add(1)
		return ErrQueueFull
	}
}

// worker drains the queue until it is closed.
func (d *Async) worker() {
	defer d.wg.Done()

	exec := newExecutor(d.panicHandler)
	for task := range d.queue {
		d.processed.Add(1)

		result := exec.executeWithTimeout(task.ctx, task.event, task.handler, d.timeout)
		switch {
		case result.Panicked:
			d.panicked.Add(1)
		case result.Err != nil, result.Skipped:
			d.failed.Add(1)
		case result.Success:
			d.succeeded.Add(1)
		}
	}
}

// QueueDepth returns the number of queued tasks, or 0 when stopped.
func (d *Async) QueueDepth() int {
	if !d.running.Load() {
		return 0
	}
	return len(d.queue)
}

// IsRunning reports whether the pool is started.
func (d *Async) IsRunning() bool {
	return d.running.Load()
}

// Stats returns dispatcher counters.
func (d *Async) Stats() AsyncStats {
	return AsyncStats{
		Enqueued:   d.enqueued.Load(),
		Processed:  d.processed.Load(),
		Succeeded:  d.succeeded.Load(),
		Failed:     d.failed.Load(),
		Panicked:   d.panicked.Load(),
		Dropped:    d.dropped.Load(),
		QueueDepth: d.QueueDepth(),
	}
}

// AsyncStats contains counters for an Async dispatcher.
type AsyncStats struct {
	Enqueued   uint64
	Processed  uint64
	Succeeded  uint64
	Failed     uint64
	Panicked   uint64
	Dropped    uint64
	QueueDepth int
}
