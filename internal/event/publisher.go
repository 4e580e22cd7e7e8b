package event

import (
	"context"
	"time"
)

// timeNow allows tests to pin timestamps.
var timeNow = time.Now

// Publisher is a convenience wrapper that stamps published events with a
// fixed source identifier.
type Publisher struct {
	bus    Bus
	source string
}

// NewPublisher creates a Publisher for the given source (e.g. "buffer").
func NewPublisher(bus Bus, source string) *Publisher {
	return &Publisher{bus: bus, source: source}
}

// Publish wraps the payload in an Envelope and delivers it synchronously.
func (p *Publisher) Publish(ctx context.Context, t Topic, payload any) error {
	return p.bus.PublishSync(ctx, p.envelope(t, payload))
}

// PublishAsync wraps the payload in an Envelope and queues it.
func (p *Publisher) PublishAsync(ctx context.Context, t Topic, payload any) error {
	return p.bus.PublishAsync(ctx, p.envelope(t, payload))
}

func (p *Publisher) envelope(t Topic, payload any) Envelope {
	return Envelope{
		Topic:   t,
		Payload: payload,
		Meta: Metadata{
			ID:        generateID("evt"),
			Timestamp: timeNow(),
			Source:    p.source,
		},
	}
}

// Source returns the publisher's source identifier.
func (p *Publisher) Source() string {
	return p.source
}

// Bus returns the underlying bus.
func (p *Publisher) Bus() Bus {
	return p.bus
}

// Publish creates a typed Event[T] and delivers it synchronously.
func Publish[T any](ctx context.Context, p *Publisher, t Topic, payload T) error {
	return p.bus.PublishSync(ctx, New(t, payload, p.source))
}

// PublishAsync creates a typed Event[T] and queues it.
func PublishAsync[T any](ctx context.Context, p *Publisher, t Topic, payload T) error {
	return p.bus.PublishAsync(ctx, New(t, payload, p.source))
}
