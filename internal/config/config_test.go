package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/urchin-editor/urchin/internal/event"
	"github.com/urchin-editor/urchin/internal/event/events"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	ed := s.Editor()
	if ed.TabSize != 4 {
		t.Errorf("TabSize = %d, want 4", ed.TabSize)
	}
	if !ed.BackupOnSave {
		t.Error("BackupOnSave = false, want true by default")
	}
	if ui := s.UI(); ui.Theme != "dusk" {
		t.Errorf("Theme = %q, want %q", ui.Theme, "dusk")
	}
}

func TestLoad_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	doc := `{"editor": {"tabsize": 8}, "ui": {"theme": "noon"}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got := s.GetInt("editor.tabsize", 0); got != 8 {
		t.Errorf("editor.tabsize = %d, want 8", got)
	}
	if got := s.GetString("ui.theme", ""); got != "noon" {
		t.Errorf("ui.theme = %q, want %q", got, "noon")
	}
	// Unset paths fall back.
	if got := s.GetInt("editor.scrolloff", 3); got != 3 {
		t.Errorf("editor.scrolloff fallback = %d, want 3", got)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() succeeded on malformed JSON, want error")
	}
}

func TestStore_SetPublishesChange(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	bus := event.NewBus()
	if err := bus.Start(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = bus.Stop(ctx)
	}()
	s.AttachPublisher(event.NewPublisher(bus, "config"))

	var got events.ConfigChanged
	var calls int
	if _, err := bus.SubscribeFunc(events.TopicConfigChanged, func(_ context.Context, e any) error {
		calls++
		got = e.(event.Envelope).Payload.(events.ConfigChanged)
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.Set(context.Background(), "ui.theme", "noon"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	if calls != 1 {
		t.Fatalf("change handler fired %d times, want 1", calls)
	}
	if got.Key != "ui.theme" {
		t.Errorf("Key = %q", got.Key)
	}
	if got.Old != `"dusk"` || got.New != `"noon"` {
		t.Errorf("Old/New = %q/%q", got.Old, got.New)
	}
	if s.UI().Theme != "noon" {
		t.Errorf("Theme after Set = %q", s.UI().Theme)
	}
}

func TestStore_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Set(context.Background(), "editor.tabsize", 2); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := reloaded.Editor().TabSize; got != 2 {
		t.Errorf("TabSize after reload = %d, want 2", got)
	}
}
