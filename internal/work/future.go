package work

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog/log"
)

// Future holds the eventual result of a function started with Go.
type Future[T any] struct {
	done chan struct{}

	mu     sync.Mutex
	value  T
	err    error
	polled bool
}

// PanicValueError is the error stored in a Future whose function panicked.
type PanicValueError struct {
	// Value is the value passed to panic().
	Value any
}

// Error implements the error interface.
func (e *PanicValueError) Error() string {
	return fmt.Sprintf("worker panicked: %v", e.Value)
}

// Go runs fn on a new worker goroutine and returns a Future for its result.
// A panic in fn is captured as a *PanicValueError rather than crashing the
// process; the stack is logged.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				log.Error().
					Interface("panic", r).
					Bytes("stack", stack).
					Msg("worker goroutine panicked")
				f.mu.Lock()
				f.err = &PanicValueError{Value: r}
				f.mu.Unlock()
			}
		}()

		v, err := fn()
		f.mu.Lock()
		f.value = v
		f.err = err
		f.mu.Unlock()
	}()

	return f
}

// Done returns a channel that is closed when the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the function completes and returns its result.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// TryResult returns the result without blocking. ok is false if the
// function has not completed yet.
func (f *Future[T]) TryResult() (value T, err error, ok bool) {
	select {
	case <-f.done:
		v, e := f.Result()
		return v, e, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Notify arranges for handler to run on the loop goroutine once the result
// is available. The handler never runs on the worker goroutine. If the loop
// has stopped by completion time, the result is dropped and an error logged.
func (f *Future[T]) Notify(loop *Loop, handler func(T, error)) {
	go func() {
		v, err := f.Result()
		if postErr := loop.Post(func() { handler(v, err) }); postErr != nil {
			log.Warn().
				Err(postErr).
				Msg("dropping worker result: loop stopped")
		}
	}()
}

// Then is a convenience for Go followed by Notify.
func Then[T any](loop *Loop, fn func() (T, error), handler func(T, error)) *Future[T] {
	f := Go(fn)
	f.Notify(loop, handler)
	return f
}
