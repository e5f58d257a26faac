package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"aluquote/services"
	"aluquote/templates"
)

func catalogData(cat services.Catalog, form templates.ProductForm, errs map[string]string) templates.CatalogData {
	if errs == nil {
		errs = map[string]string{}
	}
	if form.Unit == "" {
		form.Unit = string(services.UnitPiece)
	}
	data := templates.CatalogData{
		Options:     categoryOptions(cat, form.CategoryID),
		UnitOptions: services.UnitOptions,
		Form:        form,
		Errors:      errs,
	}
	for _, c := range cat.Categories {
		group := templates.CatalogCategory{
			ID:             c.ID,
			Name:           c.Name,
			PieceOnly:      c.PieceOnly,
			ExtrasEligible: c.ExtrasEligible,
		}
		for _, p := range cat.ProductsIn(c.ID) {
			group.Products = append(group.Products, productOption(p, ""))
		}
		data.Categories = append(data.Categories, group)
	}
	return data
}

func renderCatalog(e *core.RequestEvent, data templates.CatalogData) error {
	if isHTMX(e) {
		return templates.CatalogContent(data).Render(e.Request.Context(), e.Response)
	}
	return templates.CatalogPage(data).Render(e.Request.Context(), e.Response)
}

// flashRedirect shows a toast after redirecting to the given page.
func flashRedirect(e *core.RequestEvent, toastType, message, to string) error {
	SetToast(e, toastType, message)
	return redirect(e, to)
}

// readProductForm returns the raw form for re-rendering and the parsed product.
func readProductForm(e *core.RequestEvent) (templates.ProductForm, services.Product) {
	form := templates.ProductForm{
		Name:           strings.TrimSpace(e.Request.FormValue("name")),
		CategoryID:     strings.TrimSpace(e.Request.FormValue("category_id")),
		Unit:           strings.TrimSpace(e.Request.FormValue("unit")),
		PaintedPrice:   strings.TrimSpace(e.Request.FormValue("painted_price")),
		UnpaintedPrice: strings.TrimSpace(e.Request.FormValue("unpainted_price")),
		MinQuantity:    strings.TrimSpace(e.Request.FormValue("min_quantity")),
		ImageURL:       strings.TrimSpace(e.Request.FormValue("image_url")),
	}
	unit, ok := services.ParseUnitKind(form.Unit)
	if !ok {
		unit = services.UnitKind(form.Unit)
	}
	return form, services.Product{
		Name:           form.Name,
		CategoryID:     form.CategoryID,
		PaintedPrice:   parseFloatField(form.PaintedPrice),
		UnpaintedPrice: parseFloatField(form.UnpaintedPrice),
		Unit:           unit,
		MinQuantity:    parseFloatField(form.MinQuantity),
		ImageURL:       form.ImageURL,
	}
}

func formatFormNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func HandleCatalogPage(store *services.CatalogStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderCatalog(e, catalogData(store.Snapshot(), templates.ProductForm{}, nil))
	}
}

// HandleProductEdit renders the catalog page with the product loaded in the form.
// Route: GET /catalog/products/{id}/edit
func HandleProductEdit(store *services.CatalogStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cat := store.Snapshot()
		p, ok := cat.Product(e.Request.PathValue("id"))
		if !ok {
			return flashRedirect(e, "error", "Product not found", "/catalog")
		}
		form := templates.ProductForm{
			ID:             p.ID,
			Name:           p.Name,
			CategoryID:     p.CategoryID,
			Unit:           string(p.Unit),
			PaintedPrice:   formatFormNumber(p.PaintedPrice),
			UnpaintedPrice: formatFormNumber(p.UnpaintedPrice),
			ImageURL:       p.ImageURL,
		}
		if p.Unit == services.UnitLength {
			form.MinQuantity = formatFormNumber(p.MinQuantity)
		}
		return renderCatalog(e, catalogData(cat, form, nil))
	}
}

// HandleCategoryAdd stores a new category.
// Route: POST /catalog/categories
func HandleCategoryAdd(store *services.CatalogStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		c := services.Category{
			Name:           e.Request.FormValue("name"),
			PieceOnly:      e.Request.FormValue("piece_only") == "true",
			ExtrasEligible: e.Request.FormValue("extras_eligible") == "true",
		}
		created, err := store.AddCategory(c)
		if err != nil {
			var verrs services.ValidationErrors
			if errors.As(err, &verrs) {
				SetToast(e, "warning", "Please fix the errors below")
				data := catalogData(store.Snapshot(), templates.ProductForm{}, map[string]string{"category_name": verrs["name"]})
				return renderCatalog(e, data)
			}
			log.Printf("catalog: add category: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return flashRedirect(e, "success", "Category "+created.Name+" added", "/catalog")
	}
}

// HandleCategoryDelete removes a category and its products after checking
// the shop password.
// Route: POST /catalog/categories/{id}/delete
func HandleCategoryDelete(store *services.CatalogStore, verifier services.Verifier) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		if !verifier.Verify(e.Request.FormValue("password")) {
			return flashRedirect(e, "error", "Incorrect password", "/catalog")
		}

		categoryID := e.Request.PathValue("id")
		if err := store.DeleteCategory(categoryID); err != nil {
			if errors.Is(err, services.ErrCategoryNotFound) {
				return flashRedirect(e, "error", "Category not found", "/catalog")
			}
			log.Printf("catalog: delete category %s: %v", categoryID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to delete category")
		}

		log.Printf("catalog: deleted category %s", categoryID)
		return flashRedirect(e, "success", "Category deleted", "/catalog")
	}
}

// HandleProductSave stores a new product.
// Route: POST /catalog/products
func HandleProductSave(store *services.CatalogStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		form, p := readProductForm(e)
		created, err := store.AddProduct(p)
		if err != nil {
			var verrs services.ValidationErrors
			if errors.As(err, &verrs) {
				SetToast(e, "warning", "Please fix the errors below")
				return renderCatalog(e, catalogData(store.Snapshot(), form, verrs))
			}
			log.Printf("catalog: add product: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return flashRedirect(e, "success", created.Name+" added", "/catalog")
	}
}

// HandleProductUpdate overwrites an existing product.
// Route: POST /catalog/products/{id}
func HandleProductUpdate(store *services.CatalogStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		form, p := readProductForm(e)
		form.ID = e.Request.PathValue("id")
		p.ID = form.ID

		updated, err := store.UpdateProduct(p)
		if err != nil {
			var verrs services.ValidationErrors
			switch {
			case errors.As(err, &verrs):
				SetToast(e, "warning", "Please fix the errors below")
				return renderCatalog(e, catalogData(store.Snapshot(), form, verrs))
			case errors.Is(err, services.ErrProductNotFound):
				return flashRedirect(e, "error", "Product not found", "/catalog")
			}
			log.Printf("catalog: update product %s: %v", p.ID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return flashRedirect(e, "success", updated.Name+" saved", "/catalog")
	}
}

// HandleProductDelete removes a product after checking the shop password.
// Lines already on a quote keep their copied name and prices.
// Route: POST /catalog/products/{id}/delete
func HandleProductDelete(store *services.CatalogStore, verifier services.Verifier) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		if !verifier.Verify(e.Request.FormValue("password")) {
			return flashRedirect(e, "error", "Incorrect password", "/catalog")
		}

		productID := e.Request.PathValue("id")
		if err := store.DeleteProduct(productID); err != nil {
			if errors.Is(err, services.ErrProductNotFound) {
				return flashRedirect(e, "error", "Product not found", "/catalog")
			}
			log.Printf("catalog: delete product %s: %v", productID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to delete product")
		}

		log.Printf("catalog: deleted product %s", productID)
		return flashRedirect(e, "success", "Product deleted", "/catalog")
	}
}
