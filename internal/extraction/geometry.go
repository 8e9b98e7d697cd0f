package extraction

import (
	"errors"
	"math"

	"seehuhn.de/go/geom/rect"

	"furnicost/internal/dxf"
)

const mm2PerM2 = 1_000_000

var errAreaOverflow = errors.New("polyline area is not a finite number")

// GeometryScan is the outcome of measuring the closed outlines of a DXF drawing.
type GeometryScan struct {
	AreaM2    float64
	AreaMM2   float64
	Entities  int
	Polylines int
	Bounds    rect.Rect
}

// GeometryAreaComputer measures closed lightweight polylines in model space.
// Drawing units are taken to be millimetres.
type GeometryAreaComputer struct {
	tempDir string
}

// NewGeometryAreaComputer spools drawings into tempDir while parsing.
// An empty tempDir means the OS temp directory.
func NewGeometryAreaComputer(tempDir string) *GeometryAreaComputer {
	return &GeometryAreaComputer{tempDir: tempDir}
}

func (g *GeometryAreaComputer) Compute(data []byte) (GeometryScan, error) {
	var doc *dxf.Document
	err := withTempFile(g.tempDir, "drawing-*.dxf", data, func(path string) error {
		var err error
		doc, err = dxf.ReadFile(path)
		return err
	})
	if err != nil {
		return GeometryScan{}, classify(FormatDXF, err)
	}

	var scan GeometryScan
	first := true
	for _, e := range doc.ModelSpace() {
		scan.Entities++
		if !e.IsClosedPolyline() {
			continue
		}
		scan.Polylines++
		scan.AreaMM2 += math.Abs(e.SignedArea())

		if len(e.Vertices) == 0 {
			continue
		}
		b := e.Bounds()
		if first {
			scan.Bounds = b
			first = false
			continue
		}
		scan.Bounds = rect.Rect{
			LLx: math.Min(scan.Bounds.LLx, b.LLx),
			LLy: math.Min(scan.Bounds.LLy, b.LLy),
			URx: math.Max(scan.Bounds.URx, b.URx),
			URy: math.Max(scan.Bounds.URy, b.URy),
		}
	}
	if math.IsNaN(scan.AreaMM2) || math.IsInf(scan.AreaMM2, 0) {
		return GeometryScan{}, classify(FormatDXF, errAreaOverflow)
	}
	scan.AreaM2 = roundCents(scan.AreaMM2 / mm2PerM2)
	return scan, nil
}

// roundCents rounds to two decimals, halves away from zero.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
