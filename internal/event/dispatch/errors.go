package dispatch

import "errors"

var (
	// ErrAlreadyRunning is returned when Start is called on a running dispatcher.
	ErrAlreadyRunning = errors.New("dispatcher is already running")

	// ErrNotRunning is returned when operations require a started dispatcher.
	ErrNotRunning = errors.New("dispatcher is not running")

	// ErrQueueFull is returned when the async queue is at capacity.
	ErrQueueFull = errors.New("dispatch queue is full")
)
