package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pocketbase/pocketbase/core"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
)

// ValidationErrors maps form fields to messages.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + v[k]
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// CatalogStore persists categories and products in pocketbase collections and
// serves an in-memory snapshot to the pricing screens. Every mutation writes
// through to the database and then reloads the snapshot.
type CatalogStore struct {
	app core.App

	mu       sync.RWMutex
	snapshot Catalog
}

// NewCatalogStore returns a store bound to app. Call Reload before use.
func NewCatalogStore(app core.App) *CatalogStore {
	return &CatalogStore{app: app}
}

// Snapshot returns a copy of the current catalog.
func (s *CatalogStore) Snapshot() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Catalog{
		Categories: append([]Category(nil), s.snapshot.Categories...),
		Products:   append([]Product(nil), s.snapshot.Products...),
	}
}

// Reload replaces the snapshot with what is stored in the database.
func (s *CatalogStore) Reload() error {
	cat, err := loadCatalog(s.app)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshot = cat
	s.mu.Unlock()
	return nil
}

func loadCatalog(app core.App) (Catalog, error) {
	catRecords, err := app.FindAllRecords("categories")
	if err != nil {
		return Catalog{}, fmt.Errorf("load categories: %w", err)
	}
	sort.SliceStable(catRecords, func(i, j int) bool {
		a, b := catRecords[i], catRecords[j]
		if a.GetInt("sort_order") != b.GetInt("sort_order") {
			return a.GetInt("sort_order") < b.GetInt("sort_order")
		}
		return a.GetString("name") < b.GetString("name")
	})

	prodRecords, err := app.FindAllRecords("products")
	if err != nil {
		return Catalog{}, fmt.Errorf("load products: %w", err)
	}
	sort.SliceStable(prodRecords, func(i, j int) bool {
		return prodRecords[i].GetString("name") < prodRecords[j].GetString("name")
	})

	cat := Catalog{
		Categories: make([]Category, 0, len(catRecords)),
		Products:   make([]Product, 0, len(prodRecords)),
	}
	for _, rec := range catRecords {
		cat.Categories = append(cat.Categories, categoryFromRecord(rec))
	}
	for _, rec := range prodRecords {
		cat.Products = append(cat.Products, productFromRecord(rec))
	}
	return cat, nil
}

func categoryFromRecord(rec *core.Record) Category {
	return Category{
		ID:             rec.Id,
		Name:           rec.GetString("name"),
		PieceOnly:      rec.GetBool("piece_only"),
		ExtrasEligible: rec.GetBool("extras_eligible"),
	}
}

func productFromRecord(rec *core.Record) Product {
	unit, ok := ParseUnitKind(rec.GetString("unit"))
	if !ok {
		unit = UnitPiece
	}
	return Product{
		ID:             rec.Id,
		Name:           rec.GetString("name"),
		CategoryID:     rec.GetString("category"),
		PaintedPrice:   rec.GetFloat("painted_price"),
		UnpaintedPrice: rec.GetFloat("unpainted_price"),
		Unit:           unit,
		MinQuantity:    rec.GetFloat("min_quantity"),
		ImageURL:       rec.GetString("image_url"),
	}
}

func setCategoryFields(rec *core.Record, c Category, sortOrder int) {
	rec.Set("name", c.Name)
	rec.Set("piece_only", c.PieceOnly)
	rec.Set("extras_eligible", c.ExtrasEligible)
	rec.Set("sort_order", sortOrder)
}

func setProductFields(rec *core.Record, p Product) {
	rec.Set("name", p.Name)
	rec.Set("category", p.CategoryID)
	rec.Set("painted_price", p.PaintedPrice)
	rec.Set("unpainted_price", p.UnpaintedPrice)
	rec.Set("unit", string(p.Unit))
	rec.Set("min_quantity", p.MinQuantity)
	rec.Set("image_url", p.ImageURL)
}

// NormalizeProduct trims text and fills in the unit minimum: length products
// without one get DefaultMinimumLength, piece products always get 1.
func NormalizeProduct(p Product) Product {
	p.Name = strings.TrimSpace(p.Name)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	if p.Unit == "" {
		p.Unit = UnitPiece
	}
	switch p.Unit {
	case UnitLength:
		if p.MinQuantity <= 0 {
			p.MinQuantity = DefaultMinimumLength
		}
	default:
		p.MinQuantity = 1
	}
	return p
}

// ValidateProduct checks a normalized product against the catalog.
func ValidateProduct(catalog Catalog, p Product) ValidationErrors {
	errs := ValidationErrors{}
	if p.Name == "" {
		errs["name"] = "Product name is required"
	}
	category, ok := catalog.Category(p.CategoryID)
	if p.CategoryID == "" || !ok {
		errs["category"] = "Category is required"
	}
	if p.PaintedPrice <= 0 {
		errs["painted_price"] = "Painted price must be greater than 0"
	}
	if p.UnpaintedPrice <= 0 {
		errs["unpainted_price"] = "Unpainted price must be greater than 0"
	}
	if p.Unit != UnitPiece && p.Unit != UnitLength {
		errs["unit"] = "Unit must be piece or length"
	}
	if ok && category.PieceOnly && p.Unit == UnitLength {
		errs["unit"] = fmt.Sprintf("%s only holds piece products", category.Name)
	}
	return errs
}

// AddCategory stores a new category at the end of the list.
func (s *CatalogStore) AddCategory(c Category) (Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Category{}, ValidationErrors{"name": "Category name is required"}
	}

	col, err := s.app.FindCollectionByNameOrId("categories")
	if err != nil {
		return Category{}, fmt.Errorf("find categories collection: %w", err)
	}
	rec := core.NewRecord(col)
	setCategoryFields(rec, c, len(s.Snapshot().Categories)+1)
	if err := s.app.Save(rec); err != nil {
		return Category{}, fmt.Errorf("save category: %w", err)
	}
	if err := s.Reload(); err != nil {
		return Category{}, err
	}
	return categoryFromRecord(rec), nil
}

// DeleteCategory removes a category together with all of its products.
func (s *CatalogStore) DeleteCategory(id string) error {
	rec, err := s.app.FindRecordById("categories", id)
	if err != nil {
		return ErrCategoryNotFound
	}
	if err := s.app.Delete(rec); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return s.Reload()
}

// AddProduct validates and stores a new product.
func (s *CatalogStore) AddProduct(p Product) (Product, error) {
	p = NormalizeProduct(p)
	if errs := ValidateProduct(s.Snapshot(), p); len(errs) > 0 {
		return Product{}, errs
	}

	col, err := s.app.FindCollectionByNameOrId("products")
	if err != nil {
		return Product{}, fmt.Errorf("find products collection: %w", err)
	}
	rec := core.NewRecord(col)
	setProductFields(rec, p)
	if err := s.app.Save(rec); err != nil {
		return Product{}, fmt.Errorf("save product: %w", err)
	}
	if err := s.Reload(); err != nil {
		return Product{}, err
	}
	return productFromRecord(rec), nil
}

// UpdateProduct validates and overwrites an existing product.
func (s *CatalogStore) UpdateProduct(p Product) (Product, error) {
	rec, err := s.app.FindRecordById("products", p.ID)
	if err != nil {
		return Product{}, ErrProductNotFound
	}
	p = NormalizeProduct(p)
	if errs := ValidateProduct(s.Snapshot(), p); len(errs) > 0 {
		return Product{}, errs
	}

	setProductFields(rec, p)
	if err := s.app.Save(rec); err != nil {
		return Product{}, fmt.Errorf("save product: %w", err)
	}
	if err := s.Reload(); err != nil {
		return Product{}, err
	}
	return productFromRecord(rec), nil
}

// DeleteProduct removes a product.
func (s *CatalogStore) DeleteProduct(id string) error {
	rec, err := s.app.FindRecordById("products", id)
	if err != nil {
		return ErrProductNotFound
	}
	if err := s.app.Delete(rec); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return s.Reload()
}
