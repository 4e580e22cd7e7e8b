package events

import "github.com/urchin-editor/urchin/internal/event"

// Configuration topics.
const (
	// TopicConfigChanged is published when a setting changes.
	TopicConfigChanged event.Topic = "config.changed"
)

// ConfigChanged is the payload for TopicConfigChanged.
type ConfigChanged struct {
	// Key is the dotted settings path that changed ("ui.theme").
	Key string

	// Old is the previous raw JSON value, empty if unset.
	Old string

	// New is the new raw JSON value.
	New string
}
