package event

import (
	"strconv"
	"sync/atomic"
	"time"
)

// Event is an immutable event with a typed payload.
// The payload schema is fixed by T at the type level; every firing of a
// topic carries a payload of the type registered for it.
type Event[T any] struct {
	// Topic is the hierarchical event name (e.g. "buffer.content.changed").
	Topic Topic

	// Payload contains the event-specific data.
	Payload T

	// Meta contains standard event information.
	Meta Metadata
}

// Metadata is attached to every event.
type Metadata struct {
	// ID uniquely identifies this event instance within the process.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// idCounter backs generateID. Counter-based IDs are unique for the process
// lifetime, which is the only scope subscriptions and events live in.
var idCounter atomic.Uint64

// generateID returns a process-lifetime-unique identifier with the given
// prefix, e.g. "sub-42".
func generateID(prefix string) string {
	return prefix + "-" + strconv.FormatUint(idCounter.Add(1), 10)
}

// New creates an event with the given topic and payload.
func New[T any](t Topic, payload T, source string) Event[T] {
	return Event[T]{
		Topic:   t,
		Payload: payload,
		Meta: Metadata{
			ID:        generateID("evt"),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic returns the event's topic for type-erased handling.
func (e Event[T]) EventTopic() Topic {
	return e.Topic
}

// EventMetadata returns the event's metadata for type-erased handling.
func (e Event[T]) EventMetadata() Metadata {
	return e.Meta
}

// TopicProvider is implemented by values that carry their own topic.
type TopicProvider interface {
	EventTopic() Topic
}

// MetadataProvider is implemented by values that carry event metadata.
type MetadataProvider interface {
	EventMetadata() Metadata
}

// Envelope wraps an arbitrary payload for type-erased transport through
// the bus, such as delivery into plugins.
type Envelope struct {
	Topic   Topic
	Payload any
	Meta    Metadata
}

// EventTopic implements TopicProvider.
func (e Envelope) EventTopic() Topic {
	return e.Topic
}

// EventMetadata implements MetadataProvider.
func (e Envelope) EventMetadata() Metadata {
	return e.Meta
}

// Wrap converts a typed event into an Envelope.
func Wrap[T any](e Event[T]) Envelope {
	return Envelope{
		Topic:   e.Topic,
		Payload: e.Payload,
		Meta:    e.Meta,
	}
}
