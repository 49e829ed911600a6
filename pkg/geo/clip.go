package geo

import "math"

// ClipToConvex clips the subject polygon to a convex clip polygon using
// the Sutherland-Hodgman algorithm. Returns the intersection polygon, or an
// empty polygon when they do not intersect.
func ClipToConvex(subject, clipper Polygon) Polygon {
	if subject.IsEmpty() || clipper.IsEmpty() {
		return Polygon{}
	}
	clipper = clipper.EnsureCCW()
	output := make([]Point, len(subject.Vertices))
	copy(output, subject.Vertices)

	clipN := len(clipper.Vertices)
	for i := 0; i < clipN; i++ {
		if len(output) == 0 {
			return Polygon{}
		}
		edgeStart := clipper.Vertices[i]
		edgeEnd := clipper.Vertices[(i+1)%clipN]
		input := output
		output = make([]Point, 0, len(input))

		for j := 0; j < len(input); j++ {
			current := input[j]
			next := input[(j+1)%len(input)]
			curInside := isInsideEdge(current, edgeStart, edgeEnd)
			nextInside := isInsideEdge(next, edgeStart, edgeEnd)

			if curInside && nextInside {
				output = append(output, next)
			} else if curInside && !nextInside {
				if ix, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
					output = append(output, ix)
				}
			} else if !curInside && nextInside {
				if ix, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
					output = append(output, ix)
				}
				output = append(output, next)
			}
		}
	}
	if len(output) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: output}
}

// isInsideEdge returns true if the point is on the inside of the directed
// edge from edgeStart to edgeEnd of a positively wound polygon.
func isInsideEdge(p, edgeStart, edgeEnd Point) bool {
	return edgeEnd.Sub(edgeStart).Cross(p.Sub(edgeStart)) >= 0
}

// lineIntersection returns the intersection point of lines (p1→p2) and (p3→p4).
func lineIntersection(p1, p2, p3, p4 Point) (Point, bool) {
	r := p2.Sub(p1)
	s := p4.Sub(p3)
	d := r.Cross(s)
	if math.Abs(d) < 1e-12 {
		return Point{}, false
	}
	t := p3.Sub(p1).Cross(s) / d
	return p1.Lerp(p2, t), true
}
