package model

import "time"

// Drawing describes the technical drawing an estimate was seeded from.
// It is empty when the estimate was entered by hand.
type Drawing struct {
	StorageKey     string  `json:"storage_key,omitempty"`
	Filename       string  `json:"filename,omitempty"`
	Format         string  `json:"format,omitempty"`
	DetectedAreaM2 float64 `json:"detected_area_m2"`
	Diagnostic     string  `json:"diagnostic,omitempty"`
}

// Estimate is a stored furniture cost estimate. Amounts are in euros.
// This is a pure domain model with no persistence tags.
type Estimate struct {
	ID                string    `json:"id"`
	Drawing           Drawing   `json:"drawing"`
	ExteriorAreaM2    float64   `json:"exterior_area_m2"`
	ExteriorMaterial  string    `json:"exterior_material"`
	InteriorAreaM2    float64   `json:"interior_area_m2"`
	InteriorMaterial  string    `json:"interior_material"`
	DrawerCount       int       `json:"drawer_count"`
	ExteriorCost      float64   `json:"exterior_cost"`
	InteriorCost      float64   `json:"interior_cost"`
	DrawersCost       float64   `json:"drawers_cost"`
	TotalCost         float64   `json:"total_cost"`
	ManualCost        float64   `json:"manual_cost"`
	CommissionPercent float64   `json:"commission_percent"`
	CommissionAmount  float64   `json:"commission_amount"`
	FinalCost         float64   `json:"final_cost"`
	CreatedAt         time.Time `json:"created_at"`
}

// HasDrawing reports whether a drawing object is stored for the estimate.
func (e Estimate) HasDrawing() bool {
	return e.Drawing.StorageKey != ""
}
