package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the event bus.
var (
	// ErrBusNotRunning is returned when publishing on a stopped bus.
	ErrBusNotRunning = errors.New("event bus is not running")

	// ErrBusAlreadyRunning is returned when Start is called twice.
	ErrBusAlreadyRunning = errors.New("event bus is already running")

	// ErrQueueFull is returned when the async queue cannot accept more events.
	ErrQueueFull = errors.New("event queue is full")

	// ErrInvalidTopic is returned for empty or malformed topics.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrInvalidEvent is returned when an event's topic cannot be determined.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrNilHandler is returned when subscribing with a nil handler.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown subscription.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrHandlerPanic is returned when a handler panics during delivery.
	ErrHandlerPanic = errors.New("handler panicked")
)

// HandlerError wraps an error returned by a subscription's handler.
type HandlerError struct {
	// SubscriptionID identifies the failing subscription.
	SubscriptionID string

	// Topic is the pattern the handler was subscribed to.
	Topic Topic

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler error for subscription %s on %s: %v", e.SubscriptionID, e.Topic, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a panic raised by a handler.
type PanicError struct {
	// SubscriptionID identifies the panicking subscription.
	SubscriptionID string

	// Topic is the pattern the handler was subscribed to.
	Topic Topic

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace captured at recovery.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic for subscription %s on %s: %v", e.SubscriptionID, e.Topic, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
