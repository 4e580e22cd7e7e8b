// Package work runs blocking operations off the editor's loop and marshals
// their results back onto it.
//
// The editor is single-threaded and cooperative: all state mutation happens
// on one Loop goroutine. Go starts a callable on a worker goroutine and
// returns a Future; Notify posts the completion handler onto the Loop, so
// handlers always observe results on the loop goroutine, never the worker.
//
// There is no cancellation primitive: once started a worker runs to
// completion. Callables needing cancellation take a context and observe it
// themselves.
package work
