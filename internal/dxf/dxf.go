// Package dxf reads the subset of ASCII DXF needed to measure drawings:
// header variables and the entities of the ENTITIES section, with
// LWPOLYLINE vertices decoded into planar coordinates.
//
// A DXF file is a flat sequence of group-code/value line pairs. Group code 0
// starts a new structure (SECTION, ENDSEC, an entity type, EOF); every other
// code attaches a value to the structure currently open.
package dxf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/vec"
)

// Entity type tags.
const (
	TypeLWPolyline = "LWPOLYLINE"
	TypePolyline   = "POLYLINE"
	TypeVertex     = "VERTEX"
	TypeLine       = "LINE"
	TypeCircle     = "CIRCLE"
	TypeArc        = "ARC"
)

// binarySentinel opens every binary DXF file.
const binarySentinel = "AutoCAD Binary DXF"

var (
	ErrEmpty               = errors.New("dxf: empty input")
	ErrBinary              = errors.New("dxf: binary DXF is not supported")
	ErrMissingEOF          = errors.New("dxf: missing EOF marker")
	ErrUnterminatedSection = errors.New("dxf: section not terminated by ENDSEC")
)

// SyntaxError reports a malformed group pair together with its line number.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("dxf: line %d: %s", e.Line, e.Msg)
}

// Document is the parsed content of a DXF file.
type Document struct {
	// Header maps header variable names (e.g. "$INSUNITS") to their first value.
	Header   map[string]string
	Entities []Entity
}

// ModelSpace returns the entities of the drawing space, skipping those
// flagged as paper space (group 67 = 1).
func (d *Document) ModelSpace() []Entity {
	out := make([]Entity, 0, len(d.Entities))
	for _, e := range d.Entities {
		if !e.PaperSpace {
			out = append(out, e)
		}
	}
	return out
}

// Entity is a drawing primitive. Only LWPOLYLINE entities carry vertices.
type Entity struct {
	Type       string
	Handle     string
	Layer      string
	PaperSpace bool
	// Flags holds group 70. For LWPOLYLINE bit 1 means closed.
	Flags    int
	Vertices []vec.Vec2
}

// ReadFile parses the DXF file at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads an ASCII DXF document from r.
func Parse(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(binarySentinel))
	if len(head) == 0 {
		if err != nil && err != io.EOF {
			return nil, err
		}
		return nil, ErrEmpty
	}
	if bytes.Equal(head, []byte(binarySentinel)) {
		return nil, ErrBinary
	}

	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	p := &parser{sc: sc}

	doc := &Document{Header: map[string]string{}}
	for {
		g, err := p.next()
		if err == io.EOF {
			return nil, ErrMissingEOF
		}
		if err != nil {
			return nil, err
		}
		if g.code == 999 {
			continue
		}
		if g.code != 0 {
			return nil, p.errorf("expected group code 0, got %d", g.code)
		}

		switch g.value {
		case "EOF":
			return doc, nil
		case "SECTION":
			name, err := p.next()
			if err == io.EOF {
				return nil, ErrUnterminatedSection
			}
			if err != nil {
				return nil, err
			}
			if name.code != 2 {
				return nil, p.errorf("expected section name, got group code %d", name.code)
			}
			if err := p.section(doc, name.value); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorf("unexpected %q outside of a section", g.value)
		}
	}
}

type group struct {
	code  int
	value string
}

type parser struct {
	sc   *bufio.Scanner
	line int
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) next() (group, error) {
	codeLine, ok := p.scan()
	if !ok {
		if err := p.sc.Err(); err != nil {
			return group{}, err
		}
		return group{}, io.EOF
	}
	code, err := strconv.Atoi(strings.TrimSpace(codeLine))
	if err != nil {
		return group{}, p.errorf("invalid group code %q", codeLine)
	}

	value, ok := p.scan()
	if !ok {
		if err := p.sc.Err(); err != nil {
			return group{}, err
		}
		return group{}, p.errorf("group code %d has no value", code)
	}
	return group{code: code, value: strings.TrimSpace(value)}, nil
}

func (p *parser) scan() (string, bool) {
	if !p.sc.Scan() {
		return "", false
	}
	p.line++
	return strings.TrimSuffix(p.sc.Text(), "\r"), true
}

func (p *parser) section(doc *Document, name string) error {
	switch name {
	case "HEADER":
		return p.header(doc)
	case "ENTITIES":
		return p.entities(doc)
	default:
		return p.skipSection()
	}
}

func (p *parser) skipSection() error {
	for {
		g, err := p.next()
		if err == io.EOF {
			return ErrUnterminatedSection
		}
		if err != nil {
			return err
		}
		if g.code == 0 && g.value == "ENDSEC" {
			return nil
		}
		if g.code == 0 && g.value == "EOF" {
			return ErrUnterminatedSection
		}
	}
}

func (p *parser) header(doc *Document) error {
	var variable string
	for {
		g, err := p.next()
		if err == io.EOF {
			return ErrUnterminatedSection
		}
		if err != nil {
			return err
		}
		switch {
		case g.code == 0 && g.value == "ENDSEC":
			return nil
		case g.code == 0 && g.value == "EOF":
			return ErrUnterminatedSection
		case g.code == 9:
			variable = g.value
		case variable != "":
			if _, seen := doc.Header[variable]; !seen {
				doc.Header[variable] = g.value
			}
		}
	}
}

func (p *parser) entities(doc *Document) error {
	var cur *Entity
	flush := func() {
		if cur != nil {
			doc.Entities = append(doc.Entities, *cur)
			cur = nil
		}
	}

	for {
		g, err := p.next()
		if err == io.EOF {
			return ErrUnterminatedSection
		}
		if err != nil {
			return err
		}

		if g.code == 0 {
			flush()
			switch g.value {
			case "ENDSEC":
				return nil
			case "EOF":
				return ErrUnterminatedSection
			}
			cur = &Entity{Type: g.value}
			continue
		}
		if cur == nil {
			return p.errorf("group code %d before any entity", g.code)
		}
		if err := p.apply(cur, g); err != nil {
			return err
		}
	}
}

func (p *parser) apply(e *Entity, g group) error {
	switch g.code {
	case 5:
		e.Handle = g.value
	case 8:
		e.Layer = g.value
	case 67:
		n, err := p.integer(g)
		if err != nil {
			return err
		}
		e.PaperSpace = n == 1
	case 70:
		n, err := p.integer(g)
		if err != nil {
			return err
		}
		e.Flags = n
	case 10:
		if e.Type != TypeLWPolyline {
			return nil
		}
		x, err := p.float(g)
		if err != nil {
			return err
		}
		e.Vertices = append(e.Vertices, vec.Vec2{X: x})
	case 20:
		if e.Type != TypeLWPolyline {
			return nil
		}
		y, err := p.float(g)
		if err != nil {
			return err
		}
		if len(e.Vertices) == 0 {
			return p.errorf("y coordinate without x coordinate")
		}
		e.Vertices[len(e.Vertices)-1].Y = y
	}
	return nil
}

func (p *parser) integer(g group) (int, error) {
	n, err := strconv.Atoi(g.value)
	if err != nil {
		return 0, p.errorf("group code %d: invalid integer %q", g.code, g.value)
	}
	return n, nil
}

func (p *parser) float(g group) (float64, error) {
	f, err := strconv.ParseFloat(g.value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, p.errorf("group code %d: invalid number %q", g.code, g.value)
	}
	return f, nil
}
