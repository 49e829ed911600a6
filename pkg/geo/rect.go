package geo

// Rect is an axis-aligned box. Y grows downward, so Y is the top edge.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Inflate grows r by m on all four sides. A negative m shrinks it.
func (r Rect) Inflate(m float64) Rect {
	return Rect{
		X:      r.X - m,
		Y:      r.Y - m,
		Width:  r.Width + 2*m,
		Height: r.Height + 2*m,
	}
}

// IsFinite reports whether every field is a finite number.
func (r Rect) IsFinite() bool {
	return Pt(r.X, r.Y).IsFinite() && Pt(r.Width, r.Height).IsFinite()
}

// IsEmpty reports whether r has no area: a width or height that is not
// positive, or NaN.
func (r Rect) IsEmpty() bool {
	return !(r.Width > 0 && r.Height > 0)
}

// BoxesOverlap compares edges with strict inequalities, so boxes that only
// touch along an edge do not overlap. Callers filter empty boxes.
func BoxesOverlap(a, b Rect) bool {
	return a.X < b.X+b.Width &&
		a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height &&
		a.Y+a.Height > b.Y
}

// RectToPolygon returns the four corners of r, clockwise on screen
// starting from the top-left corner.
func RectToPolygon(r Rect) Polygon {
	return NewPolygon(
		Pt(r.X, r.Y),
		Pt(r.X+r.Width, r.Y),
		Pt(r.X+r.Width, r.Y+r.Height),
		Pt(r.X, r.Y+r.Height),
	)
}

// TrianglePolygon returns the apex-up triangle spanning the box (x, y, w, h):
// apex, bottom-left, bottom-right.
func TrianglePolygon(x, y, w, h float64) Polygon {
	return NewPolygon(
		Pt(x+w/2, y),
		Pt(x, y+h),
		Pt(x+w, y+h),
	)
}
