package events

import "github.com/urchin-editor/urchin/internal/event"

// Buffer event topics.
const (
	// TopicBufferContentChanged is published after buffer text changes in
	// any way. The payload lists every individual change applied.
	TopicBufferContentChanged event.Topic = "buffer.content.changed"

	// TopicBufferCursorMoved is published whenever the cursor moves,
	// whether by the user or programmatically.
	TopicBufferCursorMoved event.Topic = "buffer.cursor.moved"

	// TopicBufferCreated is published when a new buffer is created.
	TopicBufferCreated event.Topic = "buffer.created"

	// TopicBufferClosed is published when a buffer is closed.
	TopicBufferClosed event.Topic = "buffer.closed"
)

// Position is a location in a buffer.
type Position struct {
	// Line is the zero-based line number.
	Line int

	// Column is the zero-based column number (in bytes).
	Column int
}

// Change describes one contiguous text modification.
type Change struct {
	// Start is the beginning of the replaced range (inclusive).
	Start Position

	// End is the end of the replaced range (exclusive).
	End Position

	// OldLen is the byte length of the text that was replaced.
	OldLen int

	// NewText is the text now occupying the range.
	NewText string
}

// ContentChanged is the payload for TopicBufferContentChanged. Several
// changes may be applied at once; the list preserves application order.
type ContentChanged struct {
	// BufferID identifies the buffer that changed.
	BufferID string

	// Changes are the individual modifications, in order.
	Changes []Change
}

// CursorMoved is the payload for TopicBufferCursorMoved.
type CursorMoved struct {
	// BufferID identifies the buffer whose cursor moved.
	BufferID string

	// Position is the new cursor position.
	Position Position
}

// BufferCreated is the payload for TopicBufferCreated.
type BufferCreated struct {
	// BufferID identifies the new buffer.
	BufferID string

	// Path is the file backing the buffer, empty for scratch buffers.
	Path string
}

// BufferClosed is the payload for TopicBufferClosed.
type BufferClosed struct {
	// BufferID identifies the closed buffer.
	BufferID string
}
