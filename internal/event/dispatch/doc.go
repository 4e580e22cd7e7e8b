// Package dispatch executes event handlers with panic recovery, timing,
// and optional timeouts. The Sync dispatcher runs handlers in the caller's
// goroutine; the Async dispatcher runs them on a bounded worker pool.
package dispatch
