package extraction

import (
	"fmt"

	"go.uber.org/zap"
)

// Result is the area detected in a drawing. When Diagnostic is set AreaM2 is zero.
type Result struct {
	AreaM2      float64      `json:"area_m2"`
	Diagnostic  string       `json:"diagnostic,omitempty"`
	Format      Format       `json:"format"`
	Supported   bool         `json:"supported"`
	Polylines   int          `json:"polylines,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Outcome classifies the result for metrics and logs.
func (r Result) Outcome() string {
	switch {
	case !r.Supported:
		return OutcomeUnsupported
	case r.Diagnostic != "":
		return OutcomeFailed
	case r.AreaM2 > 0:
		return OutcomeDetected
	default:
		return OutcomeEmpty
	}
}

// Extractor picks the extraction path for a drawing from its extension and
// folds every failure into a zero area with a diagnostic.
type Extractor struct {
	text     *TextAreaScanner
	geometry *GeometryAreaComputer
	logger   *zap.Logger
	metrics  *Metrics
}

type Option func(*Extractor)

func WithLogger(l *zap.Logger) Option {
	return func(x *Extractor) {
		if l != nil {
			x.logger = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(x *Extractor) { x.metrics = m }
}

// NewExtractor builds an Extractor reading PDF text through source and
// spooling DXF files into tempDir.
func NewExtractor(source TextSource, tempDir string, opts ...Option) *Extractor {
	x := &Extractor{
		text:     NewTextAreaScanner(source),
		geometry: NewGeometryAreaComputer(tempDir),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract returns the area of the drawing in data. ext is matched
// case-insensitively; anything other than pdf or dxf yields zero with no
// diagnostic. Extract never panics.
func (x *Extractor) Extract(data []byte, ext string) (res Result) {
	format, ok := ParseFormat(ext)
	res = Result{Format: format, Supported: ok}

	defer func() {
		if r := recover(); r != nil {
			res = Result{Format: format, Supported: ok, Diagnostic: fmt.Sprintf("%s extraction aborted: %v", format, r)}
		}
		x.record(res)
	}()

	switch format {
	case FormatPDF:
		scan, err := x.text.Scan(data)
		if err != nil {
			res.Diagnostic = err.Error()
			return res
		}
		res.AreaM2 = scan.AreaM2
		res.Annotations = scan.Annotations
	case FormatDXF:
		scan, err := x.geometry.Compute(data)
		if err != nil {
			res.Diagnostic = err.Error()
			return res
		}
		res.AreaM2 = scan.AreaM2
		res.Polylines = scan.Polylines
	}
	return res
}

func (x *Extractor) record(res Result) {
	x.metrics.observe(res)

	fields := []zap.Field{
		zap.String("format", string(res.Format)),
		zap.Float64("area_m2", res.AreaM2),
		zap.String("outcome", res.Outcome()),
	}
	if res.Diagnostic != "" {
		x.logger.Warn("drawing_extraction_failed", append(fields, zap.String("diagnostic", res.Diagnostic))...)
		return
	}
	x.logger.Debug("drawing_extracted", fields...)
}
