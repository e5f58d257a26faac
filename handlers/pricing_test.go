package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"aluquote/services"
	"aluquote/templates"
	"aluquote/testhelpers"
)

func TestReadSelection_Defaults(t *testing.T) {
	form, sel := readSelection(url.Values{"product_id": {"p1"}, "painted": {"on"}})
	if form.Pieces != 1 || sel.Pieces != 1 {
		t.Errorf("pieces = %d/%d, want default 1", form.Pieces, sel.Pieces)
	}
	if !sel.Painted {
		t.Error("checkbox value on should mean painted")
	}
	if sel.DiscountPercent != 0 || sel.LengthCm != 0 {
		t.Errorf("unexpected numbers: %+v", sel)
	}
}

func TestReadSelection_ParsesNumbers(t *testing.T) {
	_, sel := readSelection(url.Values{
		"product_id": {"p1"},
		"pieces":     {"3"},
		"length_cm":  {"1,250.5"},
		"discount":   {"20"},
		"blockages":  {"2"},
		"outlets":    {"1"},
	})
	want := services.Selection{ProductID: "p1", Pieces: 3, LengthCm: 1250.5, DiscountPercent: 20, Blockages: 2, Outlets: 1}
	if sel != want {
		t.Errorf("selection = %+v, want %+v", sel, want)
	}
}

func TestReadSelection_BadPiecesBecomesZero(t *testing.T) {
	_, sel := readSelection(url.Values{"pieces": {"many"}})
	if sel.Pieces != 0 {
		t.Errorf("pieces = %d, want 0 so the engine rejects it", sel.Pieces)
	}
}

func TestReadSelection_NonFiniteNumbersBecomeZero(t *testing.T) {
	_, sel := readSelection(url.Values{"length_cm": {"NaN"}, "discount": {"Inf"}})
	if sel.LengthCm != 0 || sel.DiscountPercent != 0 {
		t.Errorf("selection = %+v, want zero length and discount", sel)
	}
}

func TestPricingData_LengthAndExtrasVisibility(t *testing.T) {
	env := newTestEnv(t)
	cat := env.store.Snapshot()

	channel := pricingData(cat, formFor(env.productID(t, "Channel 10x10")), services.DefaultExtras)
	if !channel.ShowLength || !channel.ShowExtras {
		t.Errorf("channel: ShowLength=%v ShowExtras=%v, want both", channel.ShowLength, channel.ShowExtras)
	}
	if channel.Form.CategoryID != env.categoryID(t, "Channels") {
		t.Error("category should follow the selected product")
	}

	grille := pricingData(cat, formFor(env.productID(t, "Grille 20x20")), services.DefaultExtras)
	if grille.ShowLength || grille.ShowExtras {
		t.Errorf("grille: ShowLength=%v ShowExtras=%v, want neither", grille.ShowLength, grille.ShowExtras)
	}
}

func TestPricingData_DropsProductFromOtherCategory(t *testing.T) {
	env := newTestEnv(t)
	form := formFor(env.productID(t, "Grille 20x20"))
	form.CategoryID = env.categoryID(t, "Channels")

	data := pricingData(env.store.Snapshot(), form, services.DefaultExtras)
	if data.Form.ProductID != "" {
		t.Errorf("product %q should be dropped after category change", data.Form.ProductID)
	}
	if len(data.Products) != 1 || data.Products[0].Name != "Channel 10x10" {
		t.Errorf("products = %+v, want the channel only", data.Products)
	}
}

func TestHandlePricingPage(t *testing.T) {
	env := newTestEnv(t)
	env.addLine(t, services.Selection{ProductID: env.productID(t, "Grille 20x20"), Pieces: 2, Painted: true})

	rec := env.serve(t, HandlePricingPage(env.store, env.quotes, services.DefaultExtras),
		env.request(http.MethodGet, "/pricing", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"<!DOCTYPE html>",
		"Grilles",
		"Channels",
		`id="quote-section"`,
		"Grille 20x20",
		"57.50 SAR",
	)
}

func TestHandlePricingPage_HTMXRendersContentOnly(t *testing.T) {
	env := newTestEnv(t)
	req := env.request(http.MethodGet, "/pricing", nil)
	req.Header.Set("HX-Request", "true")

	rec := env.serve(t, HandlePricingPage(env.store, env.quotes, services.DefaultExtras), req)
	if strings.Contains(rec.Body.String(), "<!DOCTYPE html>") {
		t.Error("HTMX request should not get the layout")
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "No items yet.")
}

func TestHandlePricingPage_ClosedSessionRedirects(t *testing.T) {
	env := newTestEnv(t)
	env.quotes.Close(env.token)

	rec := env.serve(t, HandlePricingPage(env.store, env.quotes, services.DefaultExtras),
		env.request(http.MethodGet, "/pricing", nil))
	if rec.Header().Get("Location") != "/login" {
		t.Errorf("Location = %q, want /login", rec.Header().Get("Location"))
	}
}

func TestHandleProductOptions_RendersOOBPreview(t *testing.T) {
	env := newTestEnv(t)
	q := url.Values{
		"category_id": {env.categoryID(t, "Channels")},
		"product_id":  {env.productID(t, "Channel 10x10")},
		"length_cm":   {"200"},
	}

	rec := env.serve(t, HandleProductOptions(env.store, services.DefaultExtras),
		env.request(http.MethodGet, "/pricing/products?"+q.Encode(), nil))

	// 12 * 2.00 m = 24, + 15% tax = 27.60
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`id="product-options"`,
		`name="length_cm"`,
		`name="blockages"`,
		`hx-swap-oob="true"`,
		"27.60 SAR",
	)
}

func TestHandleProductOptions_CategoryOnlyResetsPreview(t *testing.T) {
	env := newTestEnv(t)
	q := url.Values{"category_id": {env.categoryID(t, "Grilles")}}

	rec := env.serve(t, HandleProductOptions(env.store, services.DefaultExtras),
		env.request(http.MethodGet, "/pricing/products?"+q.Encode(), nil))

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Grille 20x20", "Select a product to see its price.")
	if strings.Contains(body, `name="length_cm"`) {
		t.Error("piece-only category should not show a length field")
	}
}

func TestHandlePricePreview(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		form url.Values
		want []string
	}{
		{
			name: "discounted grille",
			form: url.Values{"product_id": {env.productID(t, "Grille 20x20")}, "pieces": {"2"}, "painted": {"true"}, "discount": {"20"}},
			// 25 * 2 = 50, -20% = 40, +15% = 46
			want: []string{"50.00 SAR", "10.00 SAR", "40.00 SAR", "6.00 SAR", "46.00 SAR"},
		},
		{
			name: "channel below minimum length",
			form: url.Values{"product_id": {env.productID(t, "Channel 10x10")}, "length_cm": {"30"}, "blockages": {"1"}},
			// billed 50 cm * 12 = 6, +15% = 6.90, + 10 blockage = 16.90
			want: []string{"50 cm", "6.00 SAR", "Add-ons", "16.90 SAR"},
		},
		{
			name: "missing length",
			form: url.Values{"product_id": {env.productID(t, "Channel 10x10")}},
			want: []string{"Length must be greater than 0"},
		},
		{
			name: "no product",
			form: url.Values{},
			want: []string{"Select a product to see its price."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.serve(t, HandlePricePreview(env.store, services.DefaultExtras),
				env.request(http.MethodPost, "/pricing/preview", tt.form))
			testhelpers.AssertHTMLContains(t, rec.Body.String(), tt.want...)
		})
	}
}

func formFor(productID string) templates.PricingForm {
	return templates.PricingForm{ProductID: productID, Pieces: 1}
}
