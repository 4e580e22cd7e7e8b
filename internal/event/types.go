package event

import "context"

// Priority determines handler execution order. Lower values execute first.
type Priority int

const (
	// PriorityCritical is for the renderer and engine handlers that must run first.
	PriorityCritical Priority = 0

	// PriorityHigh is for core editor integrations.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority for plugins and tooling.
	PriorityNormal Priority = 200

	// PriorityLow is for metrics and logging handlers that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// DeliveryMode specifies how events are delivered to a subscription.
type DeliveryMode int

const (
	// DeliverySync executes the handler in the publisher's goroutine.
	DeliverySync DeliveryMode = iota

	// DeliveryAsync queues the event for delivery by worker goroutines.
	DeliveryAsync
)

// String returns a human-readable delivery mode name.
func (m DeliveryMode) String() string {
	switch m {
	case DeliverySync:
		return "sync"
	case DeliveryAsync:
		return "async"
	default:
		return "unknown"
	}
}

// Handler processes a type-erased event.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// TypedHandlerFunc handles events with a specific payload type.
type TypedHandlerFunc[T any] func(ctx context.Context, event Event[T]) error

// Typed adapts a TypedHandlerFunc to a generic Handler. Events whose type
// does not match are skipped silently.
func Typed[T any](fn TypedHandlerFunc[T]) Handler {
	return HandlerFunc(func(ctx context.Context, event any) error {
		if e, ok := event.(Event[T]); ok {
			return fn(ctx, e)
		}
		return nil
	})
}

// FilterFunc is a predicate for filtering events. Return true to deliver.
type FilterFunc func(event any) bool

// Stats contains event bus counters.
type Stats struct {
	// Published is the total number of events published.
	Published uint64

	// Delivered is the number of successful handler deliveries.
	Delivered uint64

	// Dropped is the number of events dropped (async queue full).
	Dropped uint64

	// HandlerErrors is the number of handlers that returned errors.
	HandlerErrors uint64

	// HandlerPanics is the number of handlers that panicked.
	HandlerPanics uint64

	// ActiveSubscriptions is the current number of active subscriptions.
	ActiveSubscriptions int

	// QueueDepth is the current async queue depth.
	QueueDepth int
}
