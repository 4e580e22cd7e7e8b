package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/urchin-editor/urchin/internal/color"
)

// Screen is the drawing surface. tcell's SimulationScreen satisfies it in
// tests.
type Screen = tcell.Screen

// Style is a terminal cell style.
type Style = tcell.Style

// Theme holds the colors the UI glue draws with.
type Theme struct {
	// Foreground is the default text color.
	Foreground color.Color

	// Background is the default background color.
	Background color.Color
}

// DefaultTheme is used when no settings are available.
func DefaultTheme() Theme {
	return Theme{
		Foreground: color.MustParse("#d8dee9"),
		Background: color.MustParse("#2e3440"),
	}
}

// Style returns the theme's default style.
func (t Theme) Style() Style {
	return tcell.StyleDefault.
		Foreground(color.ToTcell(t.Foreground)).
		Background(color.ToTcell(t.Background))
}

// tooltipStyle is the base style shifted toward the opposite luminance so
// the popup reads as a separate surface.
func (t Theme) tooltipStyle() Style {
	bg := color.Mix(t.Background, color.Invert(t.Background), 0.15)
	return tcell.StyleDefault.
		Foreground(color.ToTcell(t.Foreground)).
		Background(color.ToTcell(bg))
}

// dialogStyle highlights modal dialogs against the base surface.
func (t Theme) dialogStyle() Style {
	var accent color.Color
	if color.IsDark(t.Background) {
		accent = color.Lighten(t.Background, 0.25)
	} else {
		accent = color.Darken(t.Background, 0.25)
	}
	return tcell.StyleDefault.
		Foreground(color.ToTcell(t.Foreground)).
		Background(color.ToTcell(accent))
}
