package work

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Sentinel errors for the loop.
var (
	// ErrLoopStopped is returned when posting to a stopped loop.
	ErrLoopStopped = errors.New("loop is stopped")

	// ErrLoopAlreadyRunning is returned when Run is called twice.
	ErrLoopAlreadyRunning = errors.New("loop is already running")
)

// Loop is a single-threaded cooperative task queue. Functions posted to it
// execute in order on the goroutine that calls Run. It is the serialization
// point for everything that touches editor state.
type Loop struct {
	queue chan func()

	mu      sync.Mutex // guards stop transition
	running atomic.Bool
	stopped atomic.Bool
	done    chan struct{}

	executed atomic.Uint64
}

// NewLoop creates a loop with the given queue capacity.
func NewLoop(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Loop{
		queue: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn for execution on the loop goroutine. It blocks if the
// queue is full and returns ErrLoopStopped once the loop has shut down.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		return nil
	}
	if l.stopped.Load() {
		return ErrLoopStopped
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// Run executes posted functions until Stop is called or ctx is cancelled.
// It must be called from exactly one goroutine; that goroutine becomes the
// loop goroutine.
func (l *Loop) Run(ctx context.Context) error {
	if l.running.Swap(true) {
		return ErrLoopAlreadyRunning
	}

	for {
		select {
		case fn, ok := <-l.queue:
			if !ok {
				return nil
			}
			fn()
			l.executed.Add(1)
		case <-ctx.Done():
			l.Stop()
			l.drain()
			return ctx.Err()
		case <-l.done:
			l.drain()
			return nil
		}
	}
}

// drain runs whatever was queued before shutdown.
func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.queue:
			fn()
			l.executed.Add(1)
		default:
			return
		}
	}
}

// Stop shuts the loop down. Already-queued functions still run; subsequent
// Post calls fail with ErrLoopStopped. Stop is idempotent.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.stopped.Swap(true) {
		close(l.done)
	}
}

// IsRunning reports whether Run has been entered and not yet returned.
func (l *Loop) IsRunning() bool {
	return l.running.Load() && !l.stopped.Load()
}

// Executed returns the number of functions the loop has run.
func (l *Loop) Executed() uint64 {
	return l.executed.Load()
}
