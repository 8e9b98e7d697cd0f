package costing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// DefaultDrawerPrice is the price of one drawer in euros.
const DefaultDrawerPrice = 250

// Settings holds the price tables used for an estimate. Prices are euros per
// square metre. Settings are loaded once and passed explicitly.
type Settings struct {
	MaterialPrices  map[string]float64 `json:"material_prices"`
	ReferencePrices map[string]float64 `json:"reference_prices"`
	DrawerPrice     float64            `json:"drawer_price"`
}

// DefaultSettings returns the built-in price tables.
func DefaultSettings() Settings {
	return Settings{
		MaterialPrices: map[string]float64{
			"Καπλαμάς": 130,
			"Λάκα":     95,
			"Μελαμίνη": 60,
		},
		ReferencePrices: map[string]float64{
			"Καπλαμάς Δρυς":               130,
			"Καπλαμάς Δρυς με ταμπλά":     140,
			"Καπλαμάς Δρυς με πηχάκια":    145,
			"Καπλαμάς Καρυδιά":            135,
			"Καπλαμάς Καρυδιά με ταμπλά":  145,
			"Καπλαμάς Καρυδιά με πηχάκια": 150,
			"MDF Λάκα":                    95,
			"MDF Λάκα με ταμπλά":          105,
			"MDF Λάκα με πηχάκια":         110,
			"MDF Άβαφο":                   70,
			"Κόντρα Πλακέ Λάκα":           100,
			"Κόντρα Πλακέ Άβαφο":          80,
			"Μελαμίνη":                    60,
		},
		DrawerPrice: DefaultDrawerPrice,
	}
}

// LoadSettings reads a JSON price file over the defaults. Tables present in
// the file replace the default tables; a missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read price file: %w", err)
	}

	var file struct {
		MaterialPrices  map[string]float64 `json:"material_prices"`
		ReferencePrices map[string]float64 `json:"reference_prices"`
		DrawerPrice     *float64           `json:"drawer_price"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return Settings{}, fmt.Errorf("parse price file %s: %w", path, err)
	}
	if len(file.MaterialPrices) > 0 {
		s.MaterialPrices = file.MaterialPrices
	}
	if len(file.ReferencePrices) > 0 {
		s.ReferencePrices = file.ReferencePrices
	}
	if file.DrawerPrice != nil {
		s.DrawerPrice = *file.DrawerPrice
	}

	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("price file %s: %w", path, err)
	}
	return s, nil
}

// Validate rejects negative prices and an empty material table.
func (s Settings) Validate() error {
	if len(s.MaterialPrices) == 0 {
		return fmt.Errorf("%w: no materials", ErrInvalidPrice)
	}
	for name, p := range s.MaterialPrices {
		if p < 0 {
			return fmt.Errorf("%w: material %q is %v", ErrInvalidPrice, name, p)
		}
	}
	for name, p := range s.ReferencePrices {
		if p < 0 {
			return fmt.Errorf("%w: reference %q is %v", ErrInvalidPrice, name, p)
		}
	}
	if s.DrawerPrice < 0 {
		return fmt.Errorf("%w: drawer price is %v", ErrInvalidPrice, s.DrawerPrice)
	}
	return nil
}

// Materials lists the costing materials in name order.
func (s Settings) Materials() []string {
	names := make([]string, 0, len(s.MaterialPrices))
	for name := range s.MaterialPrices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PriceOf returns the price per square metre of a costing material.
func (s Settings) PriceOf(material string) (float64, error) {
	p, ok := s.MaterialPrices[material]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMaterial, material)
	}
	return p, nil
}
