package core

// TextOverlay is a block of text pinned to a fixed viewport position.
// It does not scroll with the scene.
type TextOverlay struct {
	lines []string
}

// SetLines replaces the overlay contents. A nil overlay ignores the call.
func (o *TextOverlay) SetLines(lines []string) {
	if o == nil {
		return
	}
	o.lines = append(o.lines[:0], lines...)
}

// Lines returns the current overlay contents.
func (o *TextOverlay) Lines() []string {
	if o == nil {
		return nil
	}
	return o.lines
}

// Draw renders the overlay as a boxed panel with its top-left corner at (x, y).
// Nothing is drawn when the overlay is empty.
func (o *TextOverlay) Draw(dst *Screen, x, y int) {
	if o == nil || len(o.lines) == 0 {
		return
	}
	width := 0
	for _, l := range o.lines {
		width = max(width, len([]rune(l)))
	}
	w, h := width+4, len(o.lines)+2
	dst.FillRect(x, y, w, h, ' ', ColorDefault)
	dst.DrawBox(x, y, w, h, ColorGray)
	for i, l := range o.lines {
		dst.DrawText(x+2, y+1+i, l, ColorWhite)
	}
}
