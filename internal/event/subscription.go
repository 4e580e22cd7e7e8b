package event

import "sync/atomic"

// SubscriptionState is the lifecycle state of a subscription.
type SubscriptionState int32

const (
	// StateActive means the subscription receives events.
	StateActive SubscriptionState = iota

	// StatePaused means delivery is temporarily suspended.
	StatePaused

	// StateCancelled means the subscription is permanently removed.
	StateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Subscription is the token returned by Bus.Subscribe. It identifies one
// binding between a topic pattern and a handler, distinct from every other
// binding on the same pattern, and can be used to remove exactly that
// binding.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Pattern returns the subscribed topic pattern.
	Pattern() Topic

	// State returns the current lifecycle state.
	State() SubscriptionState

	// IsActive returns true if the subscription can receive events.
	IsActive() bool

	// Pause temporarily stops delivery to this subscription.
	Pause()

	// Resume restarts delivery after a pause.
	Resume()

	// Cancel permanently cancels the subscription.
	Cancel()
}

// SubscriptionConfig holds per-subscription settings.
type SubscriptionConfig struct {
	// Priority determines execution order (lower first).
	Priority Priority

	// DeliveryMode selects sync or async delivery.
	DeliveryMode DeliveryMode

	// Filter, if set, must return true for an event to be delivered.
	Filter FilterFunc

	// Once auto-cancels the subscription after the first delivery.
	Once bool

	// Replace removes all existing subscriptions on the same exact
	// pattern before this one is added. The default is additive: a new
	// subscription runs alongside existing ones.
	Replace bool
}

// defaultSubscriptionConfig returns the default settings.
func defaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{
		Priority:     PriorityNormal,
		DeliveryMode: DeliverySync,
	}
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Priority = p }
}

// WithDeliveryMode sets the delivery mode.
func WithDeliveryMode(m DeliveryMode) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.DeliveryMode = m }
}

// WithFilter sets a delivery filter predicate.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Filter = f }
}

// WithOnce auto-cancels the subscription after its first delivery.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Once = true }
}

// WithReplace makes this subscription replace all existing subscriptions
// on the same exact pattern, mirroring the replace-instead-of-add binding
// semantics of classic GUI toolkits.
func WithReplace() SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Replace = true }
}

// subscription is the internal Subscription implementation.
type subscription struct {
	id      string
	pattern Topic
	handler Handler
	config  SubscriptionConfig
	state   atomic.Int32
}

func newSubscription(pattern Topic, h Handler, opts ...SubscriptionOption) *subscription {
	config := defaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&config)
	}
	s := &subscription{
		id:      generateID("sub"),
		pattern: pattern,
		handler: h,
		config:  config,
	}
	s.state.Store(int32(StateActive))
	return s
}

func (s *subscription) ID() string                 { return s.id }
func (s *subscription) Pattern() Topic             { return s.pattern }
func (s *subscription) Handler() Handler           { return s.handler }
func (s *subscription) Config() SubscriptionConfig { return s.config }

func (s *subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

func (s *subscription) IsActive() bool {
	return s.State() == StateActive
}

func (s *subscription) IsCancelled() bool {
	return s.State() == StateCancelled
}

func (s *subscription) Pause() {
	s.state.CompareAndSwap(int32(StateActive), int32(StatePaused))
}

func (s *subscription) Resume() {
	s.state.CompareAndSwap(int32(StatePaused), int32(StateActive))
}

func (s *subscription) Cancel() {
	s.state.Store(int32(StateCancelled))
}

// shouldDeliver reports whether the event passes state and filter checks.
func (s *subscription) shouldDeliver(event any) bool {
	if !s.IsActive() {
		return false
	}
	if s.config.Filter != nil && !s.config.Filter(event) {
		return false
	}
	return true
}
