package config

// Section accessors return snapshot structs. Mutating a snapshot does not
// change the store; use Store.Set for updates.

// EditorConfig is a snapshot of editing settings.
type EditorConfig struct {
	// TabSize is the number of columns a tab occupies.
	TabSize int

	// InsertSpaces inserts spaces when pressing Tab.
	InsertSpaces bool

	// ScrollOff is the minimum number of lines kept visible above and
	// below the cursor.
	ScrollOff int

	// BackupOnSave takes a backup copy before overwriting a file.
	BackupOnSave bool

	// TimestampedBackups keeps one backup per save instead of
	// overwriting a single backup file.
	TimestampedBackups bool
}

// Editor returns a snapshot of the editor section.
func (s *Store) Editor() EditorConfig {
	return EditorConfig{
		TabSize:            s.GetInt("editor.tabsize", 4),
		InsertSpaces:       s.GetBool("editor.insertspaces", true),
		ScrollOff:          s.GetInt("editor.scrolloff", 3),
		BackupOnSave:       s.GetBool("editor.backup.enabled", true),
		TimestampedBackups: s.GetBool("editor.backup.timestamped", false),
	}
}

// UIConfig is a snapshot of appearance settings.
type UIConfig struct {
	// Theme is the color theme name.
	Theme string

	// Foreground is the default text color as a hex string.
	Foreground string

	// Background is the default background color as a hex string.
	Background string

	// TooltipDelayMS is how long the cursor must hover before a tooltip
	// appears, in milliseconds.
	TooltipDelayMS int
}

// UI returns a snapshot of the ui section.
func (s *Store) UI() UIConfig {
	return UIConfig{
		Theme:          s.GetString("ui.theme", "dusk"),
		Foreground:     s.GetString("ui.foreground", "#d8dee9"),
		Background:     s.GetString("ui.background", "#2e3440"),
		TooltipDelayMS: s.GetInt("ui.tooltip.delayms", 500),
	}
}
