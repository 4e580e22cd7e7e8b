package ui

import (
	"strings"

	"github.com/rivo/uniseg"
)

// displayWidth returns the number of terminal cells the string occupies,
// accounting for wide runes and grapheme clusters.
func displayWidth(s string) int {
	return uniseg.StringWidth(s)
}

// wrapText wraps text to the given cell width on word boundaries. Words
// wider than the limit are placed on their own line rather than split.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return nil
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		cur := words[0]
		for _, word := range words[1:] {
			if displayWidth(cur)+1+displayWidth(word) <= width {
				cur += " " + word
			} else {
				lines = append(lines, cur)
				cur = word
			}
		}
		lines = append(lines, cur)
	}
	return lines
}

// DrawString draws a string at (x, y), advancing by each rune's width.
func DrawString(s Screen, x, y int, text string, style Style) {
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		runes := []rune(cluster)
		if len(runes) == 0 {
			continue
		}
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += width
	}
}
