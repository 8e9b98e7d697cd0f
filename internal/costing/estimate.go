package costing

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownMaterial = errors.New("unknown material")
	ErrInvalidInput    = errors.New("invalid estimate input")
	ErrInvalidPrice    = errors.New("invalid price")
)

// Surface is one side of a construction. When AreaM2 is set it wins;
// otherwise the area comes from LengthCM × HeightCM.
type Surface struct {
	AreaM2   float64 `json:"area_m2,omitempty"`
	LengthCM float64 `json:"length_cm,omitempty"`
	HeightCM float64 `json:"height_cm,omitempty"`
	Material string  `json:"material"`
}

// Area returns the surface in square metres.
func (s Surface) Area() float64 {
	if s.AreaM2 > 0 {
		return round2(s.AreaM2)
	}
	return AreaFromCentimeters(s.LengthCM, s.HeightCM)
}

// IsZero reports whether no size was given.
func (s Surface) IsZero() bool {
	return s.AreaM2 == 0 && s.LengthCM == 0 && s.HeightCM == 0
}

type Input struct {
	Exterior          Surface
	Interior          Surface
	DrawerCount       int
	ManualCost        float64
	CommissionPercent float64
}

// Breakdown is an itemized estimate. Amounts are euros rounded to cents.
type Breakdown struct {
	ExteriorAreaM2    float64 `json:"exterior_area_m2"`
	ExteriorMaterial  string  `json:"exterior_material"`
	ExteriorCost      float64 `json:"exterior_cost"`
	InteriorAreaM2    float64 `json:"interior_area_m2"`
	InteriorMaterial  string  `json:"interior_material"`
	InteriorCost      float64 `json:"interior_cost"`
	DrawerCount       int     `json:"drawer_count"`
	DrawersCost       float64 `json:"drawers_cost"`
	TotalCost         float64 `json:"total_cost"`
	ManualCost        float64 `json:"manual_cost"`
	CommissionPercent float64 `json:"commission_percent"`
	CommissionAmount  float64 `json:"commission_amount"`
	FinalCost         float64 `json:"final_cost"`
}

// AreaFromCentimeters converts a length and height in cm to m², rounded to two decimals.
func AreaFromCentimeters(lengthCM, heightCM float64) float64 {
	return round2(lengthCM * heightCM / 10000)
}

// Estimate prices a construction. The commission applies to ManualCost when
// it is positive and to the computed total otherwise; with a manual cost the
// final price is ManualCost plus commission and the material costs are
// informational only.
func Estimate(s Settings, in Input) (Breakdown, error) {
	if err := in.validate(); err != nil {
		return Breakdown{}, err
	}
	extPrice, err := s.PriceOf(in.Exterior.Material)
	if err != nil {
		return Breakdown{}, fmt.Errorf("exterior: %w", err)
	}
	intPrice, err := s.PriceOf(in.Interior.Material)
	if err != nil {
		return Breakdown{}, fmt.Errorf("interior: %w", err)
	}

	b := Breakdown{
		ExteriorAreaM2:    in.Exterior.Area(),
		ExteriorMaterial:  in.Exterior.Material,
		InteriorAreaM2:    in.Interior.Area(),
		InteriorMaterial:  in.Interior.Material,
		DrawerCount:       in.DrawerCount,
		ManualCost:        round2(in.ManualCost),
		CommissionPercent: in.CommissionPercent,
	}
	ext := b.ExteriorAreaM2 * extPrice
	inn := b.InteriorAreaM2 * intPrice
	drawers := float64(in.DrawerCount) * s.DrawerPrice
	total := ext + inn + drawers

	base := total
	if in.ManualCost > 0 {
		base = in.ManualCost
	}
	commission := base * in.CommissionPercent / 100

	b.ExteriorCost = round2(ext)
	b.InteriorCost = round2(inn)
	b.DrawersCost = round2(drawers)
	b.TotalCost = round2(total)
	b.CommissionAmount = round2(commission)
	b.FinalCost = round2(base + commission)
	return b, nil
}

func (in Input) validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"exterior area", in.Exterior.AreaM2},
		{"exterior length", in.Exterior.LengthCM},
		{"exterior height", in.Exterior.HeightCM},
		{"interior area", in.Interior.AreaM2},
		{"interior length", in.Interior.LengthCM},
		{"interior height", in.Interior.HeightCM},
		{"manual cost", in.ManualCost},
	} {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidInput, f.name)
		}
	}
	if in.DrawerCount < 0 {
		return fmt.Errorf("%w: drawer count must not be negative", ErrInvalidInput)
	}
	if in.CommissionPercent < 0 || in.CommissionPercent > 100 || math.IsNaN(in.CommissionPercent) {
		return fmt.Errorf("%w: commission percent must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
