// Package templates renders the HTML pages and HTMX fragments of the app.
//
// Templates are plain html/template files embedded in the binary and exposed
// as templ.Component values, so handlers render them the same way whether
// they return a full page or a fragment.
package templates

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/a-h/templ"

	"aluquote/services"
)

//go:embed html
var files embed.FS

var funcs = template.FuncMap{
	"sar":    services.FormatSAR,
	"pct":    services.FormatPercent,
	"length": services.FormatLength,
	"num":    formatNumber,
	"eqf":    func(a, b float64) bool { return a == b },
}

// formatNumber prints whole numbers without decimals.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

var (
	partials  = template.Must(template.New("partials").Funcs(funcs).ParseFS(files, "html/partials/*.html"))
	pages     = map[string]*template.Template{}
	printTmpl = template.Must(template.New("print").Funcs(funcs).ParseFS(files, "html/print.html"))
)

func init() {
	for _, name := range []string{"login", "pricing", "catalog", "settings"} {
		base := template.Must(partials.Clone())
		pages[name] = template.Must(base.ParseFS(files, "html/layout.html", "html/pages/"+name+".html"))
	}
}

// layoutData is what every full page executes with.
type layoutData struct {
	Meta PageMeta
	Data any
}

func page(name string, meta PageMeta, data any) templ.Component {
	return templ.FromGoHTML(pages[name].Lookup("layout"), layoutData{Meta: meta, Data: data})
}

func content(name string, data any) templ.Component {
	return templ.FromGoHTML(pages[name].Lookup("content"), layoutData{Data: data})
}

func partial(name string, data any) templ.Component {
	return templ.FromGoHTML(partials.Lookup(name), data)
}

func LoginPage(data LoginData) templ.Component {
	return page("login", PageMeta{Title: "Sign in"}, data)
}

func PricingPage(data PricingData) templ.Component {
	return page("pricing", PageMeta{Title: "Pricing", Nav: "pricing", LoggedIn: true}, data)
}

func PricingContent(data PricingData) templ.Component {
	return content("pricing", data)
}

// ProductOptions is the product picker for the selected category.
func ProductOptions(data PricingData) templ.Component {
	return partial("product_options", data)
}

// PricePreview is the live price breakdown panel.
func PricePreview(data PreviewData) templ.Component {
	return partial("preview", data)
}

// QuoteSection is the quote table with totals and export actions.
func QuoteSection(data QuoteData) templ.Component {
	return partial("quote", data)
}

func CatalogPage(data CatalogData) templ.Component {
	return page("catalog", PageMeta{Title: "Catalog", Nav: "catalog", LoggedIn: true}, data)
}

func CatalogContent(data CatalogData) templ.Component {
	return content("catalog", data)
}

func SettingsPage(data SettingsData) templ.Component {
	return page("settings", PageMeta{Title: "Settings", Nav: "settings", LoggedIn: true}, data)
}

func SettingsContent(data SettingsData) templ.Component {
	return content("settings", data)
}

// PriceListResults shows the validation outcome of a price-list upload.
func PriceListResults(data PriceListResultData) templ.Component {
	return partial("price_list_results", data)
}

// PrintPage is a standalone printable quote.
func PrintPage(data PrintData) templ.Component {
	return templ.FromGoHTML(printTmpl.Lookup("print"), data)
}
