package ui

import (
	"context"

	"github.com/urchin-editor/urchin/internal/event"
	"github.com/urchin-editor/urchin/internal/event/events"
)

// Scrollbar tracks one view's vertical scroll position and draws a thumb in
// a single screen column. Position changes are published so other views of
// the same buffer can follow.
type Scrollbar struct {
	viewID string
	pub    *event.Publisher

	total   int
	visible int
	offset  int
}

// NewScrollbar creates a scrollbar for the given view. pub may be nil, in
// which case position changes are tracked but not published.
func NewScrollbar(viewID string, pub *event.Publisher) *Scrollbar {
	return &Scrollbar{viewID: viewID, pub: pub}
}

// Update sets the content metrics and publishes the new viewport fractions
// when they changed. total is the line count, visible the window height,
// offset the first visible line.
func (sb *Scrollbar) Update(ctx context.Context, total, visible, offset int) error {
	if total < 0 {
		total = 0
	}
	if offset < 0 {
		offset = 0
	}
	if total > 0 && offset > total-1 {
		offset = total - 1
	}

	changed := total != sb.total || visible != sb.visible || offset != sb.offset
	sb.total, sb.visible, sb.offset = total, visible, offset

	if !changed || sb.pub == nil {
		return nil
	}
	first, last := sb.Fractions()
	return sb.pub.Publish(ctx, events.TopicViewportScrolled, events.ViewportScrolled{
		ViewID: sb.viewID,
		First:  first,
		Last:   last,
	})
}

// Fractions returns the visible window as fractions of the content, the
// same shape a scrollbar set callback receives. Both are 0 and 1 when the
// whole content fits.
func (sb *Scrollbar) Fractions() (first, last float64) {
	if sb.total <= 0 || sb.visible >= sb.total {
		return 0, 1
	}
	first = float64(sb.offset) / float64(sb.total)
	last = float64(sb.offset+sb.visible) / float64(sb.total)
	if last > 1 {
		last = 1
	}
	return first, last
}

// Thumb returns the thumb's start row and height for a track of the given
// height. The thumb is always at least one cell tall and stays inside the
// track.
func (sb *Scrollbar) Thumb(trackHeight int) (start, size int) {
	if trackHeight <= 0 {
		return 0, 0
	}
	first, last := sb.Fractions()
	start = int(first * float64(trackHeight))
	size = int((last-first)*float64(trackHeight) + 0.5)
	if size < 1 {
		size = 1
	}
	if start+size > trackHeight {
		start = trackHeight - size
	}
	if start < 0 {
		start = 0
	}
	return start, size
}

// Draw renders the scrollbar in column x spanning trackHeight rows starting
// at row y.
func (sb *Scrollbar) Draw(s Screen, theme Theme, x, y, trackHeight int) {
	track := theme.Style().Dim(true)
	thumb := theme.Style().Reverse(true)
	start, size := sb.Thumb(trackHeight)
	for row := 0; row < trackHeight; row++ {
		style := track
		ch := '│'
		if row >= start && row < start+size {
			style = thumb
			ch = '█'
		}
		s.SetContent(x, y+row, ch, nil, style)
	}
}
