package services

import (
	"errors"
	"fmt"
	"math"
)

// ErrProductNotSelected is returned when a selection has no product.
var ErrProductNotSelected = errors.New("no product selected")

// FieldError is a validation failure tied to one form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PriceState says whether FinalPrice still follows the pricing formula.
type PriceState string

const (
	PriceComputed   PriceState = "computed"
	PriceOverridden PriceState = "overridden"
)

// Selection is the raw input collected by the pricing form.
type Selection struct {
	ProductID       string
	Pieces          int
	LengthCm        float64 // per-piece length, length products only
	Painted         bool
	DiscountPercent float64
	Blockages       int
	Outlets         int
}

// LineItem is one priced entry of a quote.
//
// Quantity is the billed quantity: the piece count for piece products, and
// the clamped per-piece length in meters for length products. Pieces and
// LengthCm keep what the user entered.
type LineItem struct {
	ID           string
	ProductID    string
	ProductName  string
	CategoryID   string
	CategoryName string

	Unit        UnitKind
	Pieces      int
	LengthCm    float64
	Quantity    float64
	MinQuantity float64

	Painted         bool
	DiscountPercent float64
	BasePrice       float64

	PriceBeforeDiscount float64
	DiscountAmount      float64
	PriceAfterDiscount  float64
	TaxAmount           float64
	FinalPrice          float64

	Extras     Extras
	PriceState PriceState
}

// BuildLineItem validates a selection against the catalog and prices it.
// The returned item has no ID; the quote assigns one on add.
func BuildLineItem(catalog Catalog, sel Selection, extras ExtrasTable) (LineItem, error) {
	if sel.ProductID == "" {
		return LineItem{}, ErrProductNotSelected
	}
	product, ok := catalog.Product(sel.ProductID)
	if !ok {
		return LineItem{}, &FieldError{Field: "product", Message: "Selected product no longer exists"}
	}
	category, _ := catalog.Category(product.CategoryID)

	if sel.Pieces < 1 {
		return LineItem{}, &FieldError{Field: "pieces", Message: "Quantity must be at least 1"}
	}
	if !ValidDiscount(sel.DiscountPercent) {
		return LineItem{}, &FieldError{Field: "discount", Message: "Discount must be between 0 and 100"}
	}
	if sel.Blockages < 0 || sel.Outlets < 0 {
		return LineItem{}, &FieldError{Field: "extras", Message: "Add-on counts cannot be negative"}
	}

	unit := product.Unit
	if category.PieceOnly {
		unit = UnitPiece
	}

	item := LineItem{
		ProductID:       product.ID,
		ProductName:     product.Name,
		CategoryID:      product.CategoryID,
		CategoryName:    category.Name,
		Unit:            unit,
		Pieces:          sel.Pieces,
		Painted:         sel.Painted,
		DiscountPercent: sel.DiscountPercent,
		BasePrice:       product.UnitPrice(sel.Painted),
		PriceState:      PriceComputed,
	}

	switch unit {
	case UnitLength:
		if math.IsNaN(sel.LengthCm) || math.IsInf(sel.LengthCm, 0) || !(sel.LengthCm > 0) {
			return LineItem{}, &FieldError{Field: "length", Message: "Length must be greater than 0"}
		}
		item.LengthCm = sel.LengthCm
		item.MinQuantity = product.MinimumBillable()
		item.Quantity = BilledLength(sel.LengthCm, item.MinQuantity)
	default:
		item.Quantity = float64(sel.Pieces)
	}

	if category.ExtrasEligible {
		item.Extras = extras.Extras(sel.Blockages, sel.Outlets)
	}

	item.apply(item.Recompute())
	return item, nil
}

// Recompute prices the item again from its stored inputs.
func (it LineItem) Recompute() LinePrice {
	return CalcLinePrice(LinePriceInput{
		UnitBasePrice:   it.BasePrice,
		Quantity:        it.Quantity,
		DiscountPercent: it.DiscountPercent,
		MinimumQuantity: it.MinQuantity,
		Unit:            it.Unit,
		ExtrasPrice:     it.Extras.Price,
	})
}

// Consistent reports whether FinalPrice matches the formula. Overridden
// items are always consistent.
func (it LineItem) Consistent() bool {
	if it.PriceState == PriceOverridden {
		return true
	}
	want := it.Recompute().FinalPriceWithTax
	return math.Abs(want-it.FinalPrice) <= 1e-9*math.Max(1, math.Abs(want))
}

func (it *LineItem) apply(p LinePrice) {
	it.Quantity = p.BilledQuantity
	it.PriceBeforeDiscount = p.PriceBeforeDiscount
	it.DiscountAmount = p.DiscountAmount
	it.PriceAfterDiscount = p.PriceAfterDiscount
	it.TaxAmount = p.TaxAmount
	it.FinalPrice = p.FinalPriceWithTax
}

// DisplayName is the product name with any add-on suffix.
func (it LineItem) DisplayName() string {
	if label := it.Extras.Label(); label != "" {
		return it.ProductName + " " + label
	}
	return it.ProductName
}

// QuantityLabel renders pieces and per-piece length as separate dimensions.
func (it LineItem) QuantityLabel() string {
	pieces := fmt.Sprintf("%d pcs", it.Pieces)
	if it.Unit != UnitLength {
		return pieces
	}
	if it.LengthCm < 100 {
		return fmt.Sprintf("%s × %s cm", pieces, formatQty(it.LengthCm))
	}
	return fmt.Sprintf("%s × %.2f m", pieces, it.LengthCm/100)
}

// FinishLabel names the paint state.
func (it LineItem) FinishLabel() string {
	if it.Painted {
		return "Painted"
	}
	return "Unpainted"
}
