// Package config is the editor's settings store. Settings live in a single
// JSON document addressed by dotted paths ("ui.theme", "editor.tabsize");
// changes are published on the event bus so components react instead of
// polling.
package config

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/urchin-editor/urchin/internal/event"
	"github.com/urchin-editor/urchin/internal/event/events"
	"github.com/urchin-editor/urchin/internal/fileio"
)

// defaultSettings is the document used when no settings file exists.
const defaultSettings = `{
  "editor": {
    "tabsize": 4,
    "insertspaces": true,
    "scrolloff": 3,
    "backup": {
      "enabled": true,
      "timestamped": false
    }
  },
  "ui": {
    "theme": "dusk",
    "foreground": "#d8dee9",
    "background": "#2e3440",
    "tooltip": {
      "delayms": 500
    }
  }
}`

// Store holds the settings document. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	raw  []byte
	path string
	pub  *event.Publisher
}

// Load reads the settings file at path. A missing file yields the default
// document; a malformed one is an error.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read settings %s: %w", path, err)
		}
		raw = []byte(defaultSettings)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("settings %s: malformed JSON", path)
	}
	return &Store{raw: raw, path: path}, nil
}

// AttachPublisher sets the publisher used to announce setting changes.
func (s *Store) AttachPublisher(pub *event.Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pub = pub
}

// Get returns the raw result at the dotted path.
func (s *Store) Get(path string) gjson.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gjson.GetBytes(s.raw, path)
}

// GetString returns the string at path, or fallback if unset.
func (s *Store) GetString(path, fallback string) string {
	if r := s.Get(path); r.Exists() {
		return r.String()
	}
	return fallback
}

// GetInt returns the integer at path, or fallback if unset.
func (s *Store) GetInt(path string, fallback int) int {
	if r := s.Get(path); r.Exists() {
		return int(r.Int())
	}
	return fallback
}

// GetBool returns the boolean at path, or fallback if unset.
func (s *Store) GetBool(path string, fallback bool) bool {
	if r := s.Get(path); r.Exists() {
		return r.Bool()
	}
	return fallback
}

// Set updates the value at the dotted path and publishes a config.changed
// event carrying the old and new raw values.
func (s *Store) Set(ctx context.Context, path string, value any) error {
	s.mu.Lock()
	old := gjson.GetBytes(s.raw, path).Raw
	raw, err := sjson.SetBytes(s.raw, path, value)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("set %s: %w", path, err)
	}
	s.raw = raw
	newRaw := gjson.GetBytes(s.raw, path).Raw
	pub := s.pub
	s.mu.Unlock()

	if pub != nil {
		return pub.Publish(ctx, events.TopicConfigChanged, events.ConfigChanged{
			Key: path,
			Old: old,
			New: newRaw,
		})
	}
	return nil
}

// Save writes the document back to its file atomically.
func (s *Store) Save() error {
	s.mu.RLock()
	raw := make([]byte, len(s.raw))
	copy(raw, s.raw)
	path := s.path
	s.mu.RUnlock()

	if err := fileio.WriteFileAtomic(path, raw, 0o644); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}
