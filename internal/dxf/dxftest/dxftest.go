// Package dxftest builds small ASCII DXF documents for tests.
package dxftest

import (
	"strconv"
	"strings"
)

// Point is an x/y vertex in drawing units.
type Point [2]float64

// Builder accumulates header variables and entities and renders them as DXF.
type Builder struct {
	header   strings.Builder
	entities strings.Builder
	handle   int
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{handle: 0x100}
}

// Rect returns the four corners of an axis-aligned w×h rectangle at (x, y),
// counter-clockwise.
func Rect(x, y, w, h float64) []Point {
	return []Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
}

// Reverse returns pts in the opposite winding order.
func Reverse(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// InsUnits sets the $INSUNITS header variable.
func (b *Builder) InsUnits(units int) *Builder {
	pair(&b.header, 9, "$INSUNITS")
	pair(&b.header, 70, strconv.Itoa(units))
	return b
}

// LWPolyline appends a model-space lightweight polyline.
func (b *Builder) LWPolyline(closed bool, pts ...Point) *Builder {
	return b.lwpolyline(closed, false, pts)
}

// PaperSpaceLWPolyline appends a lightweight polyline placed in paper space.
func (b *Builder) PaperSpaceLWPolyline(closed bool, pts ...Point) *Builder {
	return b.lwpolyline(closed, true, pts)
}

func (b *Builder) lwpolyline(closed, paper bool, pts []Point) *Builder {
	b.start("LWPOLYLINE")
	if paper {
		pair(&b.entities, 67, "1")
	}
	pair(&b.entities, 100, "AcDbPolyline")
	pair(&b.entities, 90, strconv.Itoa(len(pts)))
	flags := 0
	if closed {
		flags = 1
	}
	pair(&b.entities, 70, strconv.Itoa(flags))
	for _, p := range pts {
		pair(&b.entities, 10, num(p[0]))
		pair(&b.entities, 20, num(p[1]))
	}
	return b
}

// Line appends a LINE entity.
func (b *Builder) Line(from, to Point) *Builder {
	b.start("LINE")
	pair(&b.entities, 10, num(from[0]))
	pair(&b.entities, 20, num(from[1]))
	pair(&b.entities, 11, num(to[0]))
	pair(&b.entities, 21, num(to[1]))
	return b
}

// Circle appends a CIRCLE entity.
func (b *Builder) Circle(center Point, radius float64) *Builder {
	b.start("CIRCLE")
	pair(&b.entities, 10, num(center[0]))
	pair(&b.entities, 20, num(center[1]))
	pair(&b.entities, 40, num(radius))
	return b
}

// Bytes renders the complete document, EOF marker included.
func (b *Builder) Bytes() []byte {
	var sb strings.Builder
	pair(&sb, 999, "dxftest")
	if b.header.Len() > 0 {
		pair(&sb, 0, "SECTION")
		pair(&sb, 2, "HEADER")
		sb.WriteString(b.header.String())
		pair(&sb, 0, "ENDSEC")
	}
	pair(&sb, 0, "SECTION")
	pair(&sb, 2, "TABLES")
	pair(&sb, 0, "ENDSEC")
	pair(&sb, 0, "SECTION")
	pair(&sb, 2, "ENTITIES")
	sb.WriteString(b.entities.String())
	pair(&sb, 0, "ENDSEC")
	pair(&sb, 0, "EOF")
	return []byte(sb.String())
}

func (b *Builder) start(kind string) {
	pair(&b.entities, 0, kind)
	pair(&b.entities, 5, strconv.FormatInt(int64(b.handle), 16))
	pair(&b.entities, 8, "0")
	b.handle++
}

func pair(sb *strings.Builder, code int, value string) {
	c := strconv.Itoa(code)
	sb.WriteString(strings.Repeat(" ", max(0, 3-len(c))))
	sb.WriteString(c)
	sb.WriteByte('\n')
	sb.WriteString(value)
	sb.WriteByte('\n')
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
