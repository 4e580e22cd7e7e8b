package ui

import (
	"sync"
	"time"

	"github.com/urchin-editor/urchin/internal/work"
)

// Tooltip is a small text popup anchored near a cell position.
type Tooltip struct {
	// Text is the tooltip content; it is word-wrapped to MaxWidth.
	Text string

	// X, Y anchor the popup's top-left corner.
	X, Y int

	// MaxWidth limits the popup width in cells. Zero means 40.
	MaxWidth int

	visible bool
}

// Show makes the tooltip visible.
func (t *Tooltip) Show() { t.visible = true }

// Hide makes the tooltip invisible.
func (t *Tooltip) Hide() { t.visible = false }

// Visible reports whether the tooltip is shown.
func (t *Tooltip) Visible() bool { return t.visible }

// Draw renders the tooltip if visible, clamping to the screen edges.
func (t *Tooltip) Draw(s Screen, theme Theme) {
	if !t.visible || t.Text == "" {
		return
	}

	maxWidth := t.MaxWidth
	if maxWidth <= 0 {
		maxWidth = 40
	}

	screenW, screenH := s.Size()
	if maxWidth > screenW {
		maxWidth = screenW
	}

	lines := wrapText(t.Text, maxWidth)
	boxW := 0
	for _, line := range lines {
		if w := displayWidth(line); w > boxW {
			boxW = w
		}
	}

	x, y := t.X, t.Y
	if x+boxW > screenW {
		x = screenW - boxW
	}
	if x < 0 {
		x = 0
	}
	if y+len(lines) > screenH {
		y = screenH - len(lines)
	}
	if y < 0 {
		y = 0
	}

	style := theme.tooltipStyle()
	for row, line := range lines {
		// Pad to the box width so the popup has a solid background.
		for col := 0; col < boxW; col++ {
			s.SetContent(x+col, y+row, ' ', nil, style)
		}
		DrawString(s, x, y+row, line, style)
	}
}

// TooltipManager owns the tooltips for one view and handles hover delays.
type TooltipManager struct {
	mu       sync.Mutex
	tooltips map[string]*Tooltip
	delay    time.Duration
	pending  map[string]*time.Timer
}

// NewTooltipManager creates a manager with the given hover delay.
func NewTooltipManager(delay time.Duration) *TooltipManager {
	return &TooltipManager{
		tooltips: make(map[string]*Tooltip),
		delay:    delay,
		pending:  make(map[string]*time.Timer),
	}
}

// Set registers or replaces the tooltip under id.
func (m *TooltipManager) Set(id string, t *Tooltip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tooltips[id] = t
}

// Get returns the tooltip under id.
func (m *TooltipManager) Get(id string) (*Tooltip, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tooltips[id]
	return t, ok
}

// ShowAfterHover shows the tooltip after the hover delay elapses. The show
// itself is posted to the loop so visibility only ever changes on the loop
// goroutine. A later Cancel or re-hover resets the timer.
func (m *TooltipManager) ShowAfterHover(loop *work.Loop, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tooltips[id]
	if !ok {
		return
	}
	if timer, ok := m.pending[id]; ok {
		timer.Stop()
	}
	m.pending[id] = time.AfterFunc(m.delay, func() {
		_ = loop.Post(t.Show)
	})
}

// Cancel stops a pending hover show and hides the tooltip.
func (m *TooltipManager) Cancel(loop *work.Loop, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if timer, ok := m.pending[id]; ok {
		timer.Stop()
		delete(m.pending, id)
	}
	if t, ok := m.tooltips[id]; ok {
		_ = loop.Post(t.Hide)
	}
}

// Draw renders all visible tooltips.
func (m *TooltipManager) Draw(s Screen, theme Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tooltips {
		t.Draw(s, theme)
	}
}
