package dispatch

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
)

// Handler processes a type-erased event.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// Result describes one handler execution.
type Result struct {
	// Success is true if the handler ran and returned nil.
	Success bool

	// Err is the error returned by the handler, if any.
	Err error

	// Skipped is true if the handler did not run (context cancelled).
	Skipped bool

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the recovered panic value.
	PanicValue any

	// Duration is how long the handler ran.
	Duration time.Duration
}

// PanicHandler is called when a handler panics.
type PanicHandler func(event any, panicValue any, stack []byte)

// defaultPanicHandler logs the panic. Panics are isolated per handler and
// never crash the process.
func defaultPanicHandler(event any, panicValue any, stack []byte) {
	log.Error().
		Interface("panic", panicValue).
		Type("event", event).
		Bytes("stack", stack).
		Msg("event handler panicked")
}

// executor runs a single handler with panic recovery and timing.
type executor struct {
	panicHandler PanicHandler
}

func newExecutor(h PanicHandler) *executor {
	if h == nil {
		h = defaultPanicHandler
	}
	return &executor{panicHandler: h}
}

// execute runs the handler and returns the result.
func (e *executor) execute(ctx context.Context, event any, handler Handler) (result Result) {
	select {
	case <-ctx.Done():
		return Result{Err: ctx.Err(), Skipped: true}
	default:
	}

	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			stack := debug.Stack()
			result.Success = false
			result.Panicked = true
			result.PanicValue = r

			// The panic handler must not take the process down either.
			func() {
				defer func() { _ = recover() }()
				e.panicHandler(event, r, stack)
			}()
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		result.Err = err
		return result
	}
	result.Success = true
	return result
}

// executeWithTimeout runs the handler under a deadline. The handler must
// respect context cancellation for the deadline to take effect.
func (e *executor) executeWithTimeout(ctx context.Context, event any, handler Handler, timeout time.Duration) Result {
	if timeout <= 0 {
		return e.execute(ctx, event, handler)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return e.execute(ctx, event, handler)
}
