package extraction

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/tsawler/tabula/reader"
	tabtext "github.com/tsawler/tabula/text"
)

// Engine names accepted by NewTextSource.
const (
	EngineLedongthuc = "ledongthuc"
	EngineTabula     = "tabula"
)

// TextSource turns a PDF byte stream into the plain text of each page, in page order.
type TextSource interface {
	PageTexts(data []byte) ([]string, error)
}

// NewTextSource returns the PDF text engine registered under name.
// An empty name selects the default engine.
func NewTextSource(name, tempDir string) (TextSource, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineLedongthuc:
		return LedongthucSource{}, nil
	case EngineTabula:
		return TabulaSource{TempDir: tempDir}, nil
	default:
		return nil, fmt.Errorf("unknown pdf engine %q", name)
	}
}

// LedongthucSource reads PDFs in memory with github.com/ledongthuc/pdf.
type LedongthucSource struct{}

func (LedongthucSource) PageTexts(data []byte) (pages []string, err error) {
	// The parser panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf parser: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		fonts := make(map[string]*pdf.Font)
		for _, name := range p.Fonts() {
			f := p.Font(name)
			fonts[name] = &f
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// TabulaSource reads PDFs with github.com/tsawler/tabula. The reader works on
// files, so the bytes are spooled into TempDir for the duration of the call.
type TabulaSource struct {
	TempDir string
}

func (s TabulaSource) PageTexts(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf parser: %v", r)
		}
	}()

	err = withTempFile(s.TempDir, "drawing-*.pdf", data, func(path string) error {
		r, err := reader.Open(path)
		if err != nil {
			return err
		}
		defer r.Close()

		n, err := r.PageCount()
		if err != nil {
			return err
		}
		pages = make([]string, 0, n)
		for i := 0; i < n; i++ {
			page, err := r.GetPage(i)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			frags, err := r.ExtractTextFragments(page)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			pages = append(pages, joinFragments(frags))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// joinFragments lays positioned fragments out top to bottom, left to right.
// Fragments are taken from the top down; each one joins the current line when
// its baseline is within half a glyph height of the line's first fragment.
func joinFragments(frags []tabtext.TextFragment) string {
	if len(frags) == 0 {
		return ""
	}
	sorted := make([]tabtext.TextFragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines [][]tabtext.TextFragment
	for _, f := range sorted {
		if n := len(lines); n > 0 && sameLine(lines[n-1][0], f) {
			lines[n-1] = append(lines[n-1], f)
			continue
		}
		lines = append(lines, []tabtext.TextFragment{f})
	}

	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sort.SliceStable(line, func(a, b int) bool { return line[a].X < line[b].X })
		for j, f := range line {
			if j > 0 {
				prev := line[j-1]
				if f.X-(prev.X+prev.Width) > f.FontSize*0.2 {
					sb.WriteByte(' ')
				}
			}
			sb.WriteString(f.Text)
		}
	}
	return sb.String()
}

func sameLine(a, b tabtext.TextFragment) bool {
	tol := math.Max(a.Height, b.Height) / 2
	if tol == 0 {
		tol = 1
	}
	return math.Abs(a.Y-b.Y) < tol
}
