package common

// Int2 is an integer pair used for versions, resolutions, and positions.
type Int2 struct {
	X int
	Y int
}

// Rect is an axis-aligned integer rectangle with a top-left origin.
// Used for display bounds, window bounds, and viewport regions.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Right returns the exclusive right edge of the rectangle.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the exclusive bottom edge of the rectangle.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the overlapping region of r and o.
// The result is the zero Rect when the two do not overlap.
//
// Parameters:
//   - o: the rectangle to intersect with
//
// Returns:
//   - Rect: the intersection, or the zero Rect if empty
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the smallest rectangle containing both r and o.
// An empty operand is ignored.
//
// Parameters:
//   - o: the rectangle to merge with
//
// Returns:
//   - Rect: the bounding rectangle of both inputs
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.Right(), o.Right())
	y1 := max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}
