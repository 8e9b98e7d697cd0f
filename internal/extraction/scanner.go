package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// areaPattern matches an area annotation such as "2.5 m2", "12m²" or "3. m2".
// The gap before the unit may hold any Unicode white space, such as U+00A0.
// Digits are ASCII.
var areaPattern = regexp.MustCompile(`(\d+\.?\d*)[\s\p{Z}\v\x{1c}-\x{1f}\x{85}]*(?:m2|m²)`)

// Annotation is one area label found in drawing text.
type Annotation struct {
	Page  int     `json:"page"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Text  string  `json:"text"`
}

// ScanText returns the area annotations in one page of text, left to right.
// Numbers too large to represent are skipped.
func ScanText(page int, s string) []Annotation {
	var out []Annotation
	for _, m := range areaPattern.FindAllStringSubmatch(s, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || math.IsInf(v, 0) {
			continue
		}
		unit := "m2"
		if strings.HasSuffix(m[0], "m²") {
			unit = "m²"
		}
		out = append(out, Annotation{Page: page, Value: v, Unit: unit, Text: m[0]})
	}
	return out
}

// SumAnnotations adds annotation values in order.
func SumAnnotations(anns []Annotation) float64 {
	var total float64
	for _, a := range anns {
		total += a.Value
	}
	return total
}

// TextScan is the outcome of scanning a PDF for area labels.
type TextScan struct {
	AreaM2      float64
	Pages       int
	Annotations []Annotation
}

// TextAreaScanner sums the area labels written in a PDF's text layer.
// Each page is scanned on its own so a label never spans a page break.
type TextAreaScanner struct {
	source TextSource
}

func NewTextAreaScanner(source TextSource) *TextAreaScanner {
	if source == nil {
		source = LedongthucSource{}
	}
	return &TextAreaScanner{source: source}
}

func (s *TextAreaScanner) Scan(data []byte) (TextScan, error) {
	pages, err := s.source.PageTexts(data)
	if err != nil {
		return TextScan{}, classify(FormatPDF, err)
	}

	scan := TextScan{Pages: len(pages)}
	for i, text := range pages {
		scan.Annotations = append(scan.Annotations, ScanText(i+1, text)...)
	}
	scan.AreaM2 = SumAnnotations(scan.Annotations)
	return scan, nil
}
