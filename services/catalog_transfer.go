package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// flexID accepts ids written either as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

type categoryJSON struct {
	ID             flexID `json:"id"`
	Name           string `json:"name"`
	PieceOnly      bool   `json:"pieceOnly,omitempty"`
	ExtrasEligible bool   `json:"extrasEligible,omitempty"`
}

type productJSON struct {
	ID             flexID   `json:"id"`
	Name           string   `json:"name"`
	CategoryID     flexID   `json:"categoryId"`
	PaintedPrice   float64  `json:"paintedPrice"`
	UnpaintedPrice float64  `json:"unpaintedPrice"`
	Unit           string   `json:"unit"`
	MinQuantity    *float64 `json:"minQuantity,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty"`
}

// catalogFile is the backup format. A collection missing from an imported
// file leaves the stored collection untouched.
type catalogFile struct {
	Categories *[]categoryJSON `json:"categories"`
	Products   *[]productJSON  `json:"products"`
}

// CatalogExportFilename names a backup taken on the given day.
func CatalogExportFilename(t time.Time) string {
	return "alsaleh_data_" + t.Format("2006-01-02") + ".json"
}

// ExportCatalogJSON writes the catalog in the backup format.
func ExportCatalogJSON(cat Catalog) ([]byte, error) {
	cats := make([]categoryJSON, 0, len(cat.Categories))
	for _, c := range cat.Categories {
		cats = append(cats, categoryJSON{
			ID:             flexID(c.ID),
			Name:           c.Name,
			PieceOnly:      c.PieceOnly,
			ExtrasEligible: c.ExtrasEligible,
		})
	}
	prods := make([]productJSON, 0, len(cat.Products))
	for _, p := range cat.Products {
		unit := "piece"
		var minQty *float64
		if p.Unit == UnitLength {
			unit = "meter"
			m := p.MinQuantity
			minQty = &m
		}
		prods = append(prods, productJSON{
			ID:             flexID(p.ID),
			Name:           p.Name,
			CategoryID:     flexID(p.CategoryID),
			PaintedPrice:   p.PaintedPrice,
			UnpaintedPrice: p.UnpaintedPrice,
			Unit:           unit,
			MinQuantity:    minQty,
			ImageURL:       p.ImageURL,
		})
	}
	return json.MarshalIndent(catalogFile{Categories: &cats, Products: &prods}, "", "  ")
}

// CatalogReplacement describes an import. Category IDs are the ids used in
// the file; product CategoryIDs refer to them, or to stored ids when the
// categories are not replaced.
type CatalogReplacement struct {
	ReplaceCategories bool
	Categories        []Category
	ReplaceProducts   bool
	Products          []Product
}

// ImportSummary reports what an import stored.
type ImportSummary struct {
	Categories int
	Products   int
	Dropped    int // existing products whose category disappeared
}

// ErrEmptyCatalogFile is returned when a backup holds neither collection.
var ErrEmptyCatalogFile = errors.New("file contains no categories or products")

// ParseCatalogJSON decodes and validates a backup file against the current
// catalog.
func ParseCatalogJSON(current Catalog, data []byte) (CatalogReplacement, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return CatalogReplacement{}, fmt.Errorf("invalid catalog file: %w", err)
	}
	if file.Categories == nil && file.Products == nil {
		return CatalogReplacement{}, ErrEmptyCatalogFile
	}

	var r CatalogReplacement
	errs := ValidationErrors{}
	target := current

	if file.Categories != nil {
		r.ReplaceCategories = true
		target = Catalog{Products: current.Products}
		for i, c := range *file.Categories {
			cat := Category{
				ID:             strings.TrimSpace(string(c.ID)),
				Name:           strings.TrimSpace(c.Name),
				PieceOnly:      c.PieceOnly,
				ExtrasEligible: c.ExtrasEligible,
			}
			if cat.ID == "" {
				cat.ID = strconv.Itoa(i + 1)
			}
			if cat.Name == "" {
				errs[fmt.Sprintf("categories[%d]", i)] = "name is required"
			}
			r.Categories = append(r.Categories, cat)
		}
		target.Categories = r.Categories
	}

	if file.Products != nil {
		r.ReplaceProducts = true
		for i, pj := range *file.Products {
			unit, ok := ParseUnitKind(strings.ToLower(strings.TrimSpace(pj.Unit)))
			if !ok {
				errs[fmt.Sprintf("products[%d]", i)] = fmt.Sprintf("unknown unit %q", pj.Unit)
				continue
			}
			p := Product{
				ID:             string(pj.ID),
				Name:           pj.Name,
				CategoryID:     string(pj.CategoryID),
				PaintedPrice:   pj.PaintedPrice,
				UnpaintedPrice: pj.UnpaintedPrice,
				Unit:           unit,
				ImageURL:       pj.ImageURL,
			}
			if pj.MinQuantity != nil {
				p.MinQuantity = *pj.MinQuantity
			}
			p = NormalizeProduct(p)
			if perrs := ValidateProduct(target, p); len(perrs) > 0 {
				errs[fmt.Sprintf("products[%d]", i)] = perrs.Error()
				continue
			}
			r.Products = append(r.Products, p)
		}
	}

	if len(errs) > 0 {
		return CatalogReplacement{}, errs
	}
	return r, nil
}

// ImportCatalogJSON parses a backup and applies it in one transaction.
func (s *CatalogStore) ImportCatalogJSON(data []byte) (ImportSummary, error) {
	r, err := ParseCatalogJSON(s.Snapshot(), data)
	if err != nil {
		return ImportSummary{}, err
	}
	return s.Replace(r)
}

// Replace swaps out the requested collections inside a transaction and
// reloads the snapshot. When only categories are replaced, existing products
// are carried over if their category id is still present.
func (s *CatalogStore) Replace(r CatalogReplacement) (ImportSummary, error) {
	var summary ImportSummary

	err := s.app.RunInTransaction(func(txApp core.App) error {
		current, err := loadCatalog(txApp)
		if err != nil {
			return err
		}

		products := r.Products
		if !r.ReplaceProducts {
			products = current.Products
		}

		idMap := make(map[string]string)
		if r.ReplaceCategories {
			if err := deleteAll(txApp, "products"); err != nil {
				return err
			}
			if err := deleteAll(txApp, "categories"); err != nil {
				return err
			}
			col, err := txApp.FindCollectionByNameOrId("categories")
			if err != nil {
				return fmt.Errorf("find categories collection: %w", err)
			}
			for i, c := range r.Categories {
				rec := core.NewRecord(col)
				setCategoryFields(rec, c, i+1)
				if err := txApp.Save(rec); err != nil {
					return fmt.Errorf("save category %q: %w", c.Name, err)
				}
				idMap[c.ID] = rec.Id
				summary.Categories++
			}
		} else {
			for _, c := range current.Categories {
				idMap[c.ID] = c.ID
			}
			if err := deleteAll(txApp, "products"); err != nil {
				return err
			}
		}

		col, err := txApp.FindCollectionByNameOrId("products")
		if err != nil {
			return fmt.Errorf("find products collection: %w", err)
		}
		for _, p := range products {
			catID, ok := idMap[p.CategoryID]
			if !ok {
				summary.Dropped++
				continue
			}
			p.CategoryID = catID
			rec := core.NewRecord(col)
			setProductFields(rec, p)
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("save product %q: %w", p.Name, err)
			}
			summary.Products++
		}
		return nil
	})
	if err != nil {
		return ImportSummary{}, err
	}
	return summary, s.Reload()
}

func deleteAll(app core.App, collection string) error {
	records, err := app.FindAllRecords(collection)
	if err != nil {
		return fmt.Errorf("load %s: %w", collection, err)
	}
	for _, rec := range records {
		if err := app.Delete(rec); err != nil {
			return fmt.Errorf("delete %s %s: %w", collection, rec.Id, err)
		}
	}
	return nil
}
