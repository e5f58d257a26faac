package services

import "sort"

// Category partitions the catalog. PieceOnly categories only hold piece
// products; ExtrasEligible categories accept blockage/outlet add-ons.
type Category struct {
	ID             string
	Name           string
	PieceOnly      bool
	ExtrasEligible bool
}

// Product is a catalog entry with a painted and an unpainted unit price.
// For length products prices are per meter and MinQuantity is the minimum
// billable length in meters.
type Product struct {
	ID             string
	Name           string
	CategoryID     string
	PaintedPrice   float64
	UnpaintedPrice float64
	Unit           UnitKind
	MinQuantity    float64
	ImageURL       string
}

// UnitPrice returns the price tier matching the paint state.
func (p Product) UnitPrice(painted bool) float64 {
	if painted {
		return p.PaintedPrice
	}
	return p.UnpaintedPrice
}

// MinimumBillable is the clamp floor used for length products.
func (p Product) MinimumBillable() float64 {
	if p.MinQuantity > 0 {
		return p.MinQuantity
	}
	return DefaultMinimumLength
}

// Catalog is a read-only snapshot of categories and products.
type Catalog struct {
	Categories []Category
	Products   []Product
}

// Category looks up a category by id.
func (c Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Product looks up a product by id.
func (c Catalog) Product(id string) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ProductsIn returns the products of one category sorted by name.
func (c Catalog) ProductsIn(categoryID string) []Product {
	var out []Product
	for _, p := range c.Products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CategoryName returns the display name for a category id, or "" if unknown.
func (c Catalog) CategoryName(id string) string {
	cat, _ := c.Category(id)
	return cat.Name
}
