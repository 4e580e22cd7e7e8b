// Package color provides the color arithmetic used by themes and the
// renderer: mixing, inversion, and lightness adjustment, with conversion
// between hex strings and terminal colors.
package color

import (
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color with float64 channels in [0, 1].
type Color = colorful.Color

// Parse parses a "#rrggbb" or "#rgb" hex string.
func Parse(hex string) (Color, error) {
	return colorful.Hex(hex)
}

// MustParse parses a hex string and panics on failure. For use with
// compile-time constant colors.
func MustParse(hex string) Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats a color as "#rrggbb".
func Hex(c Color) string {
	return c.Clamped().Hex()
}

// Mix blends a toward b by frac: 0 returns a, 1 returns b. The blend is a
// linear interpolation per channel, so Mix(a, b, f) == Mix(b, a, 1-f) and
// mixing a color with itself is the identity.
func Mix(a, b Color, frac float64) Color {
	frac = clamp01(frac)
	return Color{
		R: a.R*(1-frac) + b.R*frac,
		G: a.G*(1-frac) + b.G*frac,
		B: a.B*(1-frac) + b.B*frac,
	}
}

// Invert returns the channel-wise inverse. Applying it twice returns the
// original color.
func Invert(c Color) Color {
	return Color{R: 1 - c.R, G: 1 - c.G, B: 1 - c.B}
}

// Lighten mixes the color toward white by frac.
func Lighten(c Color, frac float64) Color {
	return Mix(c, Color{R: 1, G: 1, B: 1}, frac)
}

// Darken mixes the color toward black by frac.
func Darken(c Color, frac float64) Color {
	return Mix(c, Color{}, frac)
}

// Brightness returns the perceived luminance in [0, 1] using the Rec. 601
// coefficients.
func Brightness(c Color) float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// IsDark reports whether text on this background should be light.
func IsDark(c Color) bool {
	return Brightness(c) < 0.5
}

// ToTcell converts a color to a tcell RGB color for terminal rendering.
func ToTcell(c Color) tcell.Color {
	cc := c.Clamped()
	r, g, b := cc.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// FromTcell converts a tcell color. Named colors resolve through their RGB
// values.
func FromTcell(tc tcell.Color) Color {
	r, g, b := tc.TrueColor().RGB()
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
