package dxf

import (
	"math"

	"seehuhn.de/go/geom/rect"
)

// closedFlag is bit 1 of group 70 on LWPOLYLINE entities.
const closedFlag = 1

// IsClosedPolyline reports whether e is an LWPOLYLINE with its closed flag set.
func (e Entity) IsClosedPolyline() bool {
	return e.Type == TypeLWPolyline && e.Flags&closedFlag != 0
}

// SignedArea returns the planar area enclosed by the vertices using the
// shoelace formula, in drawing units squared. Counter-clockwise winding is
// positive. Bulges are ignored: every segment is treated as straight.
// Fewer than three vertices enclose no area.
func (e Entity) SignedArea() float64 {
	n := len(e.Vertices)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a := e.Vertices[i]
		b := e.Vertices[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Bounds returns the axis-aligned bounding box of the vertices.
// It is the zero rectangle when there are no vertices.
func (e Entity) Bounds() rect.Rect {
	if len(e.Vertices) == 0 {
		return rect.Rect{}
	}
	first := e.Vertices[0]
	r := rect.Rect{LLx: first.X, LLy: first.Y, URx: first.X, URy: first.Y}
	for _, v := range e.Vertices[1:] {
		r.LLx = math.Min(r.LLx, v.X)
		r.LLy = math.Min(r.LLy, v.Y)
		r.URx = math.Max(r.URx, v.X)
		r.URy = math.Max(r.URy, v.Y)
	}
	return r
}
