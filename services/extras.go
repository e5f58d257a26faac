package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ExtrasTable is the fixed price list for channel add-ons.
type ExtrasTable struct {
	BlockagePrice float64
	OutletPrice   float64
}

// DefaultExtras holds the shop's standard add-on prices.
var DefaultExtras = ExtrasTable{BlockagePrice: 10, OutletPrice: 15}

var errBadExtraPrice = errors.New("must be a finite price of at least 0")

// Validate rejects negative and non-finite add-on prices.
func (t ExtrasTable) Validate() error {
	for _, p := range []struct {
		name  string
		price float64
	}{
		{"blockage price", t.BlockagePrice},
		{"outlet price", t.OutletPrice},
	} {
		if math.IsNaN(p.price) || math.IsInf(p.price, 0) || p.price < 0 {
			return fmt.Errorf("%s %v: %w", p.name, p.price, errBadExtraPrice)
		}
	}
	return nil
}

// Extras records the add-on counts of a line and what they cost.
type Extras struct {
	Blockages int
	Outlets   int
	Price     float64
}

// Price sums the add-on cost for the given counts.
func (t ExtrasTable) Price(blockages, outlets int) float64 {
	return float64(blockages)*t.BlockagePrice + float64(outlets)*t.OutletPrice
}

// Extras builds the extras record for the given counts.
func (t ExtrasTable) Extras(blockages, outlets int) Extras {
	return Extras{
		Blockages: blockages,
		Outlets:   outlets,
		Price:     t.Price(blockages, outlets),
	}
}

// Any reports whether at least one add-on was ordered.
func (x Extras) Any() bool {
	return x.Blockages > 0 || x.Outlets > 0
}

// Label is the suffix appended to a product name on quotes.
func (x Extras) Label() string {
	if !x.Any() {
		return ""
	}
	var parts []string
	if x.Blockages > 0 {
		parts = append(parts, fmt.Sprintf("Blockage: %d", x.Blockages))
	}
	if x.Outlets > 0 {
		parts = append(parts, fmt.Sprintf("Outlet: %d", x.Outlets))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
