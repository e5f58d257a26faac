package services

// TaxRate is the flat sales tax applied to every discounted line amount.
const TaxRate = 0.15

// DefaultMinimumLength is the billable minimum, in meters, for length products
// that do not carry their own minimum.
const DefaultMinimumLength = 0.5

// DiscountTiers are the preset discount percentages offered on the pricing form.
// Any other percentage between 0 and 100 is accepted as a custom discount.
var DiscountTiers = []float64{0, 15, 20, 30, 40}

// UnitKind says how a product is sold.
type UnitKind string

const (
	UnitPiece  UnitKind = "piece"
	UnitLength UnitKind = "length"
)

// ParseUnitKind accepts the stored and exported spellings of a unit kind.
// "meter" is the spelling used by catalog data files.
func ParseUnitKind(s string) (UnitKind, bool) {
	switch s {
	case "piece", "pieces", "pcs":
		return UnitPiece, true
	case "length", "meter", "meters", "m":
		return UnitLength, true
	}
	return "", false
}

// LinePriceInput holds everything the engine needs to price one line.
// UnitBasePrice is already resolved from the painted/unpainted tier.
type LinePriceInput struct {
	UnitBasePrice   float64
	Quantity        float64
	DiscountPercent float64
	MinimumQuantity float64
	Unit            UnitKind
	ExtrasPrice     float64
}

// LinePrice is the breakdown for a single priced line.
type LinePrice struct {
	BilledQuantity      float64
	PriceBeforeDiscount float64 // UnitBasePrice * BilledQuantity
	DiscountAmount      float64 // PriceBeforeDiscount * DiscountPercent / 100
	PriceAfterDiscount  float64 // PriceBeforeDiscount - DiscountAmount
	TaxAmount           float64 // PriceAfterDiscount * TaxRate
	ExtrasPrice         float64
	FinalPriceWithTax   float64 // PriceAfterDiscount + TaxAmount + ExtrasPrice
}

// CalcLinePrice prices one line: clamp, gross, discount, tax, then extras.
// Extras are added after tax and are never taxed themselves.
// Inputs are assumed valid; callers reject missing products and
// non-positive quantities before getting here.
func CalcLinePrice(in LinePriceInput) LinePrice {
	billed := in.Quantity
	if in.Unit == UnitLength && billed < in.MinimumQuantity {
		billed = in.MinimumQuantity
	}

	before := in.UnitBasePrice * billed
	discount := before * (in.DiscountPercent / 100)
	after := before - discount
	tax := after * TaxRate

	return LinePrice{
		BilledQuantity:      billed,
		PriceBeforeDiscount: before,
		DiscountAmount:      discount,
		PriceAfterDiscount:  after,
		TaxAmount:           tax,
		ExtrasPrice:         in.ExtrasPrice,
		FinalPriceWithTax:   after + tax + in.ExtrasPrice,
	}
}

// BilledLength converts an entered length in centimeters to billed meters,
// raising it to minimum when it falls short.
func BilledLength(lengthCm, minimum float64) float64 {
	meters := lengthCm / 100
	if meters < minimum {
		return minimum
	}
	return meters
}

// IsDiscountTier reports whether pct is one of the preset tiers.
func IsDiscountTier(pct float64) bool {
	for _, t := range DiscountTiers {
		if t == pct {
			return true
		}
	}
	return false
}

// ValidDiscount reports whether pct lies within [0, 100]. NaN never does.
func ValidDiscount(pct float64) bool {
	return pct >= 0 && pct <= 100
}
