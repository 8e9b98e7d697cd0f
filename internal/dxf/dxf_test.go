package dxf_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnicost/internal/dxf"
	"furnicost/internal/dxf/dxftest"
)

func TestParse(t *testing.T) {
	data := dxftest.New().
		InsUnits(4).
		LWPolyline(true, dxftest.Rect(0, 0, 1000, 1500)...).
		LWPolyline(false, dxftest.Rect(0, 0, 10, 10)...).
		Line(dxftest.Point{0, 0}, dxftest.Point{5, 5}).
		PaperSpaceLWPolyline(true, dxftest.Rect(0, 0, 210, 297)...).
		Bytes()

	doc, err := dxf.Parse(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "4", doc.Header["$INSUNITS"])
	require.Len(t, doc.Entities, 4)

	first := doc.Entities[0]
	assert.Equal(t, dxf.TypeLWPolyline, first.Type)
	assert.Equal(t, "0", first.Layer)
	assert.NotEmpty(t, first.Handle)
	assert.True(t, first.IsClosedPolyline())
	assert.Len(t, first.Vertices, 4)
	assert.Equal(t, 1500.0, first.Vertices[2].Y)

	assert.False(t, doc.Entities[1].IsClosedPolyline())
	assert.Equal(t, dxf.TypeLine, doc.Entities[2].Type)
	assert.Empty(t, doc.Entities[2].Vertices)
	assert.True(t, doc.Entities[3].PaperSpace)

	model := doc.ModelSpace()
	assert.Len(t, model, 3)
	for _, e := range model {
		assert.False(t, e.PaperSpace)
	}
}

func TestParse_NoEntities(t *testing.T) {
	doc, err := dxf.Parse(bytes.NewReader(dxftest.New().Bytes()))
	require.NoError(t, err)
	assert.Empty(t, doc.Entities)
	assert.Empty(t, doc.ModelSpace())
}

func TestParse_CRLF(t *testing.T) {
	data := strings.ReplaceAll(string(dxftest.New().LWPolyline(true, dxftest.Rect(0, 0, 2, 3)...).Bytes()), "\n", "\r\n")

	doc, err := dxf.Parse(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, doc.Entities, 1)
	assert.InDelta(t, 6.0, doc.Entities[0].SignedArea(), 1e-9)
}

func TestParse_Errors(t *testing.T) {
	valid := string(dxftest.New().LWPolyline(true, dxftest.Rect(0, 0, 2, 3)...).Bytes())

	tests := []struct {
		name    string
		input   string
		wantErr error
		syntax  bool
	}{
		{name: "empty", input: "", wantErr: dxf.ErrEmpty},
		{name: "binary", input: "AutoCAD Binary DXF\r\n\x1a\x00garbage", wantErr: dxf.ErrBinary},
		{name: "not a dxf", input: "%PDF-1.4\nhello\n", syntax: true},
		{name: "truncated before EOF", input: strings.TrimSuffix(valid, "  0\nEOF\n"), wantErr: dxf.ErrMissingEOF},
		{name: "truncated inside section", input: valid[:strings.Index(valid, "ENDSEC")-4], wantErr: dxf.ErrUnterminatedSection},
		{name: "dangling group code", input: "  0\nSECTION\n  2\n", syntax: true},
		{name: "bad coordinate", input: strings.Replace(valid, "\n 20\n0\n", "\n 20\nabc\n", 1), syntax: true},
		{name: "nan coordinate", input: strings.Replace(valid, "\n 20\n0\n", "\n 20\nnan\n", 1), syntax: true},
		{name: "infinite coordinate", input: strings.Replace(valid, "\n 20\n0\n", "\n 20\n-Inf\n", 1), syntax: true},
		{name: "overflowing coordinate", input: strings.Replace(valid, "\n 20\n0\n", "\n 20\n1e999\n", 1), syntax: true},
		{name: "entity data before entity", input: "  0\nSECTION\n  2\nENTITIES\n  8\n0\n  0\nENDSEC\n  0\nEOF\n", syntax: true},
		{name: "stray top level structure", input: "  0\nLWPOLYLINE\n  0\nEOF\n", syntax: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := dxf.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, doc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.syntax {
				var se *dxf.SyntaxError
				assert.True(t, errors.As(err, &se), "expected SyntaxError, got %v", err)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.dxf")
	require.NoError(t, os.WriteFile(path, dxftest.New().LWPolyline(true, dxftest.Rect(0, 0, 1, 1)...).Bytes(), 0o600))

	doc, err := dxf.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Entities, 1)

	_, err = dxf.ReadFile(filepath.Join(t.TempDir(), "missing.dxf"))
	assert.Error(t, err)
}
