// Package event implements the editor's typed event bus.
//
// Components publish events carrying arbitrary typed payloads and subscribe
// handlers to hierarchical topic patterns ("buffer.content.changed",
// "ui.key.*"). Subscribe returns a Subscription token that removes exactly
// that binding; multiple handlers may share a topic, or a subscription can
// opt into replace semantics with WithReplace.
//
// Delivery is synchronous by default: PublishSync invokes every matching
// active handler exactly once, in priority order, before returning. Handlers
// that must not block the editor loop subscribe with
// WithDeliveryMode(DeliveryAsync) and run on the dispatch worker pool.
//
// Payload types for the editor's own topics live in the events subpackage.
package event
