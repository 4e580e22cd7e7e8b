package events

import "github.com/urchin-editor/urchin/internal/event"

// UI topics.
const (
	// TopicKeyPressed is the parent topic for key events. Individual keys
	// publish under it, e.g. "ui.key.tab".
	TopicKeyPressed event.Topic = "ui.key"

	// TopicKeyTab is published when the tab key is pressed.
	TopicKeyTab event.Topic = "ui.key.tab"

	// TopicViewportScrolled is published when a view's scroll position
	// changes.
	TopicViewportScrolled event.Topic = "ui.viewport.scrolled"
)

// KeyPressed is the payload for key topics.
type KeyPressed struct {
	// Name is the key name ("tab", "enter", "ctrl+s").
	Name string

	// Rune is the printable rune, if any.
	Rune rune
}

// ViewportScrolled is the payload for TopicViewportScrolled.
type ViewportScrolled struct {
	// ViewID identifies the scrolled view.
	ViewID string

	// First is the fraction of content above the visible window, in [0, 1].
	First float64

	// Last is the fraction of content above the bottom of the visible
	// window, in [0, 1].
	Last float64
}
