package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type categoryDef struct {
	name           string
	pieceOnly      bool
	extrasEligible bool
	products       []productDef
}

type productDef struct {
	name           string
	paintedPrice   float64
	unpaintedPrice float64
	unit           string
	minQuantity    float64
}

// defaultCatalog is the shop's starting catalog. Grilles, vents, mesh and
// mesh with frame are sold by the piece; channels take blockage/outlet add-ons.
var defaultCatalog = []categoryDef{
	{name: "Grilles", pieceOnly: true, products: []productDef{
		{name: "Grille 20x20", paintedPrice: 25, unpaintedPrice: 20, unit: "piece", minQuantity: 1},
	}},
	{name: "Channels", extrasEligible: true, products: []productDef{
		{name: "Channel 10x10", paintedPrice: 15, unpaintedPrice: 12, unit: "length", minQuantity: 0.5},
	}},
	{name: "Inspection Covers", products: []productDef{
		{name: "Inspection Cover 30x30", paintedPrice: 35, unpaintedPrice: 30, unit: "piece", minQuantity: 1},
	}},
	{name: "Tank Covers"},
	{name: "Gutters"},
	{name: "Vents", pieceOnly: true},
	{name: "Mesh", pieceOnly: true},
	{name: "Mesh with Frame"},
	{name: "Accessories", pieceOnly: true},
	{name: "Paint Service"},
	{name: "Supports"},
}

// Seed populates the database with the default catalog.
// It is idempotent: if any category already exists, it returns nil without
// creating duplicates.
func Seed(app *pocketbase.PocketBase) error {
	categoriesCol, err := app.FindCollectionByNameOrId("categories")
	if err != nil {
		return fmt.Errorf("seed: categories collection not found: %w", err)
	}

	existing, err := app.FindAllRecords(categoriesCol)
	if err != nil {
		return fmt.Errorf("seed: could not query categories: %w", err)
	}
	if len(existing) > 0 {
		log.Println("seed: catalog already present, skipping seed")
		return nil
	}

	productsCol, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return fmt.Errorf("seed: products collection not found: %w", err)
	}

	return app.RunInTransaction(func(txApp core.App) error {
		productCount := 0
		for i, cd := range defaultCatalog {
			cat := core.NewRecord(categoriesCol)
			cat.Set("name", cd.name)
			cat.Set("piece_only", cd.pieceOnly)
			cat.Set("extras_eligible", cd.extrasEligible)
			cat.Set("sort_order", i+1)
			if err := txApp.Save(cat); err != nil {
				return fmt.Errorf("seed: save category %q: %w", cd.name, err)
			}

			for _, pd := range cd.products {
				p := core.NewRecord(productsCol)
				p.Set("name", pd.name)
				p.Set("category", cat.Id)
				p.Set("painted_price", pd.paintedPrice)
				p.Set("unpainted_price", pd.unpaintedPrice)
				p.Set("unit", pd.unit)
				p.Set("min_quantity", pd.minQuantity)
				if err := txApp.Save(p); err != nil {
					return fmt.Errorf("seed: save product %q: %w", pd.name, err)
				}
				productCount++
			}
		}
		log.Printf("seed: created %d categories and %d products", len(defaultCatalog), productCount)
		return nil
	})
}
