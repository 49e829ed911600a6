package geo

import "math"

// Polygon is a closed polygon defined by its vertices in order.
type Polygon struct {
	Vertices []Point `json:"vertices"`
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point) Polygon {
	return Polygon{Vertices: pts}
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsEmpty returns true if the polygon has fewer than 3 vertices.
func (p Polygon) IsEmpty() bool {
	return len(p.Vertices) < 3
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (p Polygon) Edge(i int) (Point, Point) {
	n := len(p.Vertices)
	return p.Vertices[i%n], p.Vertices[(i+1)%n]
}

// SignedArea returns the signed area using the shoelace formula.
// Positive means counterclockwise in a y-up frame, which is clockwise on screen.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Y
		area -= p.Vertices[j].X * p.Vertices[i].Y
	}
	return area / 2
}

// Area returns the unsigned area of the polygon.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// EnsureCCW returns the polygon with a positive signed area.
func (p Polygon) EnsureCCW() Polygon {
	if p.SignedArea() < 0 {
		return p.Reverse()
	}
	return p
}

// Reverse returns the polygon with reversed vertex order.
func (p Polygon) Reverse() Polygon {
	n := len(p.Vertices)
	rev := make([]Point, n)
	for i, v := range p.Vertices {
		rev[n-1-i] = v
	}
	return Polygon{Vertices: rev}
}

// BoundingBox returns the smallest axis-aligned box containing every vertex.
func (p Polygon) BoundingBox() Rect {
	if len(p.Vertices) == 0 {
		return Rect{}
	}
	minP := p.Vertices[0]
	maxP := p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		minP.X = math.Min(minP.X, v.X)
		minP.Y = math.Min(minP.Y, v.Y)
		maxP.X = math.Max(maxP.X, v.X)
		maxP.Y = math.Max(maxP.Y, v.Y)
	}
	return Rect{X: minP.X, Y: minP.Y, Width: maxP.X - minP.X, Height: maxP.Y - minP.Y}
}

// Contains returns true if the point is inside the polygon using ray casting.
func (p Polygon) Contains(pt Point) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Translate returns the polygon moved by (dx, dy).
func (p Polygon) Translate(dx, dy float64) Polygon {
	out := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = Point{v.X + dx, v.Y + dy}
	}
	return Polygon{Vertices: out}
}

// ScaleAbout returns the polygon scaled by s around anchor.
func (p Polygon) ScaleAbout(anchor Point, s float64) Polygon {
	out := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = anchor.Add(v.Sub(anchor).Scale(s))
	}
	return Polygon{Vertices: out}
}

// IsFinite reports whether every vertex is finite.
func (p Polygon) IsFinite() bool {
	for _, v := range p.Vertices {
		if !v.IsFinite() {
			return false
		}
	}
	return true
}

// PolygonsOverlap reports whether two convex polygons intersect, using the
// separating axis theorem over the edge normals of both polygons. Intervals
// that only touch count as overlapping. Degenerate polygons never overlap.
func PolygonsOverlap(p1, p2 Polygon) bool {
	if p1.IsEmpty() || p2.IsEmpty() {
		return false
	}
	for _, poly := range [2]Polygon{p1, p2} {
		n := len(poly.Vertices)
		for i := 0; i < n; i++ {
			a, b := poly.Edge(i)
			axis := b.Sub(a).Perp()
			min1, max1 := project(p1, axis)
			min2, max2 := project(p2, axis)
			if max1 < min2 || max2 < min1 {
				return false
			}
		}
	}
	return true
}

// project returns the interval covered by the polygon projected onto axis.
func project(p Polygon, axis Point) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range p.Vertices {
		d := v.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
