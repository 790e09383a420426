package core

import "math"

// Viewport maps the fixed logical canvas onto the terminal cell grid.
// Overlays are positioned in logical units too, but ignore any camera offset.
type Viewport struct {
	LogicalW, LogicalH float64
	Cols, Rows         int
}

// NewViewport creates a viewport for a logical canvas shown in cols×rows cells.
func NewViewport(logicalW, logicalH float64, cols, rows int) Viewport {
	return Viewport{LogicalW: logicalW, LogicalH: logicalH, Cols: cols, Rows: rows}
}

// ToCell converts a logical point to the cell that contains it.
func (v Viewport) ToCell(p Vec2) (int, int) {
	if v.LogicalW <= 0 || v.LogicalH <= 0 {
		return 0, 0
	}
	x := int(math.Floor(p.X / v.LogicalW * float64(v.Cols)))
	y := int(math.Floor(p.Y / v.LogicalH * float64(v.Rows)))
	return Clamp(x, 0, max(v.Cols-1, 0)), Clamp(y, 0, max(v.Rows-1, 0))
}

// RectToCells converts a logical rectangle to a cell rectangle of at least 1×1.
func (v Viewport) RectToCells(r Rect) (x, y, w, h int) {
	x, y = v.ToCell(Vec2{X: r.X, Y: r.Y})
	if v.LogicalW <= 0 || v.LogicalH <= 0 {
		return x, y, 1, 1
	}
	w = max(int(math.Round(r.W/v.LogicalW*float64(v.Cols))), 1)
	h = max(int(math.Round(r.H/v.LogicalH*float64(v.Rows))), 1)
	return x, y, w, h
}
