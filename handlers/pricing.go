package handlers

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"aluquote/services"
	"aluquote/templates"
)

// readSelection parses the pricing form. Unparseable numbers become zero so
// BuildLineItem reports them; a missing pieces field defaults to 1.
func readSelection(values url.Values) (templates.PricingForm, services.Selection) {
	form := templates.PricingForm{
		CategoryID: strings.TrimSpace(values.Get("category_id")),
		ProductID:  strings.TrimSpace(values.Get("product_id")),
		Pieces:     1,
		Painted:    values.Get("painted") == "true" || values.Get("painted") == "on",
	}
	if raw := strings.TrimSpace(values.Get("pieces")); raw != "" {
		form.Pieces, _ = strconv.Atoi(raw)
	}
	form.LengthCm = parseFloatField(values.Get("length_cm"))
	form.DiscountPercent = parseFloatField(values.Get("discount"))
	form.Blockages, _ = strconv.Atoi(strings.TrimSpace(values.Get("blockages")))
	form.Outlets, _ = strconv.Atoi(strings.TrimSpace(values.Get("outlets")))

	return form, services.Selection{
		ProductID:       form.ProductID,
		Pieces:          form.Pieces,
		LengthCm:        form.LengthCm,
		Painted:         form.Painted,
		DiscountPercent: form.DiscountPercent,
		Blockages:       form.Blockages,
		Outlets:         form.Outlets,
	}
}

func parseFloatField(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(raw, ",", "")), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// pricingData builds the form state for the given selection. A product from
// another category is dropped; the category follows the product otherwise.
func pricingData(cat services.Catalog, form templates.PricingForm, extras services.ExtrasTable) templates.PricingData {
	if p, ok := cat.Product(form.ProductID); ok {
		if form.CategoryID == "" {
			form.CategoryID = p.CategoryID
		}
		if p.CategoryID != form.CategoryID {
			form.ProductID = ""
		}
	} else {
		form.ProductID = ""
	}

	data := templates.PricingData{
		Categories:    categoryOptions(cat, form.CategoryID),
		Products:      productOptions(cat, form.CategoryID, form.ProductID),
		Form:          form,
		Extras:        extras,
		DiscountTiers: services.DiscountTiers,
		Errors:        map[string]string{},
	}

	category, _ := cat.Category(form.CategoryID)
	data.ShowExtras = category.ExtrasEligible
	if p, ok := cat.Product(form.ProductID); ok {
		data.ShowLength = p.Unit == services.UnitLength && !category.PieceOnly
	}
	return data
}

// previewFor prices the selection without adding it to the quote.
func previewFor(cat services.Catalog, sel services.Selection, extras services.ExtrasTable) templates.PreviewData {
	item, err := services.BuildLineItem(cat, sel, extras)
	if err != nil {
		if errors.Is(err, services.ErrProductNotSelected) {
			return templates.PreviewData{}
		}
		var fe *services.FieldError
		if errors.As(err, &fe) {
			return templates.PreviewData{Error: fe.Message}
		}
		return templates.PreviewData{Error: err.Error()}
	}
	return previewData(item)
}

// HandlePricingPage renders the pricing screen with the session's quote.
func HandlePricingPage(store *services.CatalogStore, quotes *services.QuoteBook, extras services.ExtrasTable) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snap, ok := quotes.Snapshot(GetSessionID(e.Request))
		if !ok {
			return redirect(e, "/login")
		}

		cat := store.Snapshot()
		form, sel := readSelection(e.Request.URL.Query())
		data := pricingData(cat, form, extras)
		if data.Form.ProductID != "" {
			data.Preview = previewFor(cat, sel, extras)
		}
		data.Quote = quoteData(snap)

		if isHTMX(e) {
			return templates.PricingContent(data).Render(e.Request.Context(), e.Response)
		}
		return templates.PricingPage(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleProductOptions re-renders the product picker after the category or
// product changed, and resets the price preview out of band.
func HandleProductOptions(store *services.CatalogStore, extras services.ExtrasTable) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cat := store.Snapshot()
		form, sel := readSelection(e.Request.URL.Query())
		data := pricingData(cat, form, extras)

		preview := templates.PreviewData{}
		if data.Form.ProductID != "" {
			sel.ProductID = data.Form.ProductID
			preview = previewFor(cat, sel, extras)
		}
		preview.OOB = true

		ctx := e.Request.Context()
		if err := templates.ProductOptions(data).Render(ctx, e.Response); err != nil {
			return err
		}
		return templates.PricePreview(preview).Render(ctx, e.Response)
	}
}

// HandlePricePreview prices the posted selection.
func HandlePricePreview(store *services.CatalogStore, extras services.ExtrasTable) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		_, sel := readSelection(e.Request.PostForm)
		preview := previewFor(store.Snapshot(), sel, extras)
		return templates.PricePreview(preview).Render(e.Request.Context(), e.Response)
	}
}
