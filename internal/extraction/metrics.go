package extraction

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for drawing_extractions_total.
const (
	OutcomeDetected    = "detected"
	OutcomeEmpty       = "empty"
	OutcomeFailed      = "failed"
	OutcomeUnsupported = "unsupported"
)

// Metrics counts extractions per format and outcome. A nil *Metrics records nothing.
type Metrics struct {
	extractions *prometheus.CounterVec
	area        *prometheus.HistogramVec
}

// NewMetrics registers the extraction collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drawing_extractions_total",
				Help: "Total number of drawing area extractions.",
			},
			[]string{"format", "outcome"},
		),
		area: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "drawing_extracted_area_m2",
				Help:    "Area detected in drawings, in square metres.",
				Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"format"},
		),
	}

	for _, c := range []prometheus.Collector{m.extractions, m.area} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(res Result) {
	if m == nil {
		return
	}
	format := string(res.Format)
	outcome := res.Outcome()
	if outcome == OutcomeUnsupported {
		format = "other"
	}
	m.extractions.WithLabelValues(format, outcome).Inc()
	if outcome == OutcomeDetected {
		m.area.WithLabelValues(format).Observe(res.AreaM2)
	}
}
