package event

import (
	"context"
	"sync/atomic"

	"github.com/urchin-editor/urchin/internal/event/dispatch"
)

// Bus is the editor's event bus. Components publish typed events and
// subscribe handlers to topic patterns; the returned Subscription token
// removes exactly that binding.
type Bus interface {
	// Publish sends an event using the default delivery path (sync).
	Publish(ctx context.Context, event any) error

	// PublishSync delivers the event to all matching sync subscriptions
	// before returning.
	PublishSync(ctx context.Context, event any) error

	// PublishAsync queues the event for delivery by worker goroutines.
	PublishAsync(ctx context.Context, event any) error

	// Subscribe binds a handler to a topic pattern.
	Subscribe(pattern Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)

	// SubscribeFunc binds a plain function to a topic pattern.
	SubscribeFunc(pattern Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)

	// Unsubscribe removes a subscription. Other subscriptions on the same
	// pattern are unaffected.
	Unsubscribe(sub Subscription) error

	// Start starts the bus and its async workers.
	Start() error

	// Stop stops the bus, draining queued async events until ctx expires.
	Stop(ctx context.Context) error

	// Stats returns current counters.
	Stats() Stats

	// IsRunning reports whether the bus has been started.
	IsRunning() bool
}

// busConfig holds bus-level settings.
type busConfig struct {
	asyncQueueSize   int
	asyncWorkerCount int
	panicHandler     dispatch.PanicHandler
}

// BusOption configures a Bus.
type BusOption func(*busConfig)

// WithAsyncQueueSize sets the async delivery queue capacity.
func WithAsyncQueueSize(n int) BusOption {
	return func(c *busConfig) {
		if n > 0 {
			c.asyncQueueSize = n
		}
	}
}

// WithAsyncWorkers sets the number of async delivery workers.
func WithAsyncWorkers(n int) BusOption {
	return func(c *busConfig) {
		if n > 0 {
			c.asyncWorkerCount = n
		}
	}
}

// WithPanicHandler sets the handler invoked when a subscriber panics.
func WithPanicHandler(h dispatch.PanicHandler) BusOption {
	return func(c *busConfig) { c.panicHandler = h }
}

// bus is the default Bus implementation.
type bus struct {
	reg *registry

	syncDispatcher  *dispatch.Sync
	asyncDispatcher *dispatch.Async

	running atomic.Bool

	published     atomic.Uint64
	delivered     atomic.Uint64
	dropped       atomic.Uint64
	handlerErrors atomic.Uint64
	handlerPanics atomic.Uint64
}

// NewBus creates an event bus with the given options.
func NewBus(opts ...BusOption) Bus {
	config := busConfig{
		asyncQueueSize:   4096,
		asyncWorkerCount: 4,
	}
	for _, opt := range opts {
		opt(&config)
	}

	b := &bus{reg: newRegistry()}
	b.syncDispatcher = dispatch.NewSync(
		dispatch.WithSyncPanicHandler(config.panicHandler),
	)
	b.asyncDispatcher = dispatch.NewAsync(
		dispatch.WithQueueSize(config.asyncQueueSize),
		dispatch.WithWorkerCount(config.asyncWorkerCount),
		dispatch.WithAsyncPanicHandler(config.panicHandler),
	)
	return b
}

// Start starts the bus.
func (b *bus) Start() error {
	if b.running.Load() {
		return ErrBusAlreadyRunning
	}
	if err := b.asyncDispatcher.Start(); err != nil {
		return err
	}
	b.running.Store(true)
	return nil
}

// Stop stops the bus gracefully.
func (b *bus) Stop(ctx context.Context) error {
	if !b.running.Swap(false) {
		return ErrBusNotRunning
	}
	return b.asyncDispatcher.Stop(ctx)
}

// IsRunning reports whether the bus is started.
func (b *bus) IsRunning() bool {
	return b.running.Load()
}

// Publish delivers the event synchronously. Sync delivery is the default:
// the editor's own loop is single-threaded and most handlers mutate state
// owned by it.
func (b *bus) Publish(ctx context.Context, event any) error {
	return b.PublishSync(ctx, event)
}

// PublishSync delivers the event to matching sync subscriptions in priority
// order, exactly once each, before returning.
func (b *bus) PublishSync(ctx context.Context, event any) error {
	if !b.running.Load() {
		return ErrBusNotRunning
	}

	t := extractTopic(event)
	if t == "" {
		return ErrInvalidEvent
	}

	subs := b.reg.matchActive(t)
	if len(subs) == 0 {
		return nil
	}
	b.published.Add(1)

	for _, sub := range subs {
		if sub.Config().DeliveryMode != DeliverySync {
			continue
		}
		if !sub.shouldDeliver(event) {
			continue
		}

		result := b.syncDispatcher.Dispatch(ctx, event, sub.Handler())
		switch {
		case result.Panicked:
			b.handlerPanics.Add(1)
		case result.Err != nil:
			b.handlerErrors.Add(1)
		case result.Success:
			b.delivered.Add(1)
		}

		if sub.Config().Once && result.Success {
			sub.Cancel()
			b.reg.remove(sub.ID())
		}
	}
	return nil
}

// PublishAsync queues the event for matching async subscriptions.
func (b *bus) PublishAsync(ctx context.Context, event any) error {
	if !b.running.Load() {
		return ErrBusNotRunning
	}

	t := extractTopic(event)
	if t == "" {
		return ErrInvalidEvent
	}

	subs := b.reg.matchActive(t)
	if len(subs) == 0 {
		return nil
	}
	b.published.Add(1)

	for _, sub := range subs {
		if sub.Config().DeliveryMode != DeliveryAsync {
			continue
		}
		if !sub.shouldDeliver(event) {
			continue
		}
		if err := b.asyncDispatcher.Enqueue(ctx, event, sub.Handler()); err != nil {
			// Queue full. Drop this delivery but keep trying the rest.
			b.dropped.Add(1)
		}
	}
	return nil
}

// Subscribe binds a handler to a topic pattern and returns its token.
func (b *bus) Subscribe(pattern Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := newSubscription(pattern, handler, opts...)
	b.reg.add(sub)
	return sub, nil
}

// SubscribeFunc binds a plain function to a topic pattern.
func (b *bus) SubscribeFunc(pattern Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe removes a subscription by its token.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()
	if !b.reg.remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Stats returns current bus counters.
func (b *bus) Stats() Stats {
	async := b.asyncDispatcher.Stats()
	return Stats{
		Published:           b.published.Load(),
		Delivered:           b.delivered.Load() + async.Succeeded,
		Dropped:             b.dropped.Load(),
		HandlerErrors:       b.handlerErrors.Load() + async.Failed,
		HandlerPanics:       b.handlerPanics.Load() + async.Panicked,
		ActiveSubscriptions: b.reg.countActive(),
		QueueDepth:          async.QueueDepth,
	}
}

// extractTopic determines the topic of a published value.
func extractTopic(event any) Topic {
	if tp, ok := event.(TopicProvider); ok {
		return tp.EventTopic()
	}
	return ""
}
