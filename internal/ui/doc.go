// Package ui provides the terminal UI glue around the renderer: tooltips,
// modal error dialogs, scrollbar wiring, and key-to-event binding. All
// drawing happens on the editor loop; nothing here is safe to call from
// worker goroutines.
package ui
