package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
)

// ErrorDialog is a modal message box with a title, a body, and an optional
// monospaced detail section (typically a stack trace or command output).
type ErrorDialog struct {
	Title   string
	Message string
	Detail  string

	// MaxWidth limits the dialog width in cells. Zero means 60.
	MaxWidth int

	detailOpen bool
	done       bool
}

// NewErrorDialog builds a dialog for the given error text.
func NewErrorDialog(title, message, detail string) *ErrorDialog {
	return &ErrorDialog{Title: title, Message: message, Detail: detail}
}

// Done reports whether the dialog has been dismissed.
func (d *ErrorDialog) Done() bool { return d.done }

// HandleKey processes one key event. Enter and Escape dismiss; "d" toggles
// the detail section when one is present.
func (d *ErrorDialog) HandleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter, tcell.KeyEscape:
		d.done = true
	case tcell.KeyRune:
		if ev.Rune() == 'd' && d.Detail != "" {
			d.detailOpen = !d.detailOpen
		}
	}
}

// Draw renders the dialog centered on the screen.
func (d *ErrorDialog) Draw(s Screen, theme Theme) {
	maxWidth := d.MaxWidth
	if maxWidth <= 0 {
		maxWidth = 60
	}
	screenW, screenH := s.Size()
	if maxWidth > screenW-2 {
		maxWidth = screenW - 2
	}
	if maxWidth < 1 {
		maxWidth = 1
	}

	inner := maxWidth - 2
	lines := wrapText(d.Message, inner)
	if d.detailOpen {
		lines = append(lines, "")
		for _, dl := range strings.Split(d.Detail, "\n") {
			lines = append(lines, clipToWidth(dl, inner))
		}
	}

	footer := "enter: dismiss"
	if d.Detail != "" {
		footer = "enter: dismiss  d: details"
	}

	// Title row, body, blank, footer, plus one cell of padding each side.
	boxH := len(lines) + 4
	if boxH > screenH {
		boxH = screenH
	}
	boxW := maxWidth
	x := (screenW - boxW) / 2
	y := (screenH - boxH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	style := theme.dialogStyle()
	for row := 0; row < boxH; row++ {
		for col := 0; col < boxW; col++ {
			s.SetContent(x+col, y+row, ' ', nil, style)
		}
	}

	title := clipToWidth(d.Title, inner)
	DrawString(s, x+1, y, title, style.Bold(true))
	for i, line := range lines {
		if y+1+i >= y+boxH-2 {
			break
		}
		DrawString(s, x+1, y+1+i, line, style)
	}
	DrawString(s, x+1, y+boxH-1, clipToWidth(footer, inner), style.Dim(true))
}

// Run shows the dialog and blocks until it is dismissed, consuming all
// input. It must be called from the editor loop goroutine.
func (d *ErrorDialog) Run(s Screen, theme Theme) {
	log.Debug().Str("title", d.Title).Msg("error dialog shown")
	for !d.done {
		d.Draw(s, theme)
		s.Show()
		ev := s.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			d.HandleKey(ev)
		case *tcell.EventResize:
			s.Sync()
		case nil:
			// Screen was finalized under us.
			d.done = true
		}
	}
}

// clipToWidth truncates a line to the given cell width.
func clipToWidth(s string, width int) string {
	if displayWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := displayWidth(string(r))
		if used+w > width {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String()
}
