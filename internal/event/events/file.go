package events

import "github.com/urchin-editor/urchin/internal/event"

// File lifecycle topics.
const (
	// TopicFileOpened is published after a file is opened into a buffer.
	TopicFileOpened event.Topic = "file.opened"

	// TopicFileSaved is published after a buffer is written to disk.
	TopicFileSaved event.Topic = "file.saved"

	// TopicFileBackedUp is published after a backup copy is written.
	TopicFileBackedUp event.Topic = "file.backedup"
)

// FileOpened is the payload for TopicFileOpened.
type FileOpened struct {
	// Path is the opened file.
	Path string

	// Size is the file size in bytes at open time.
	Size int64
}

// FileSaved is the payload for TopicFileSaved.
type FileSaved struct {
	// Path is the saved file.
	Path string

	// Size is the number of bytes written.
	Size int64
}

// FileBackedUp is the payload for TopicFileBackedUp.
type FileBackedUp struct {
	// Path is the original file.
	Path string

	// BackupPath is where the backup copy was written.
	BackupPath string
}
