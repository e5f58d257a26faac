package templates

import "aluquote/services"

// PageMeta is what the shared layout needs.
type PageMeta struct {
	Title    string
	Nav      string // "pricing", "catalog" or "settings"
	LoggedIn bool
}

type LoginData struct {
	Error string
}

// CategoryOption is one entry of the category picker.
type CategoryOption struct {
	ID             string
	Name           string
	PieceOnly      bool
	ExtrasEligible bool
	Selected       bool
}

// ProductOption is one entry of the product picker or catalog table.
type ProductOption struct {
	ID             string
	Name           string
	CategoryID     string
	Unit           string
	PaintedPrice   float64
	UnpaintedPrice float64
	MinQuantity    float64
	ImageURL       string
	Selected       bool
}

// PricingForm echoes the user's current selection back into the form.
type PricingForm struct {
	CategoryID      string
	ProductID       string
	Pieces          int
	LengthCm        float64
	Painted         bool
	DiscountPercent float64
	Blockages       int
	Outlets         int
}

// PreviewData is the live price breakdown shown before adding a line.
type PreviewData struct {
	OOB                 bool
	Ready               bool
	Error               string
	Unit                string
	BasePrice           float64
	BilledQuantity      float64
	PriceBeforeDiscount float64
	DiscountAmount      float64
	PriceAfterDiscount  float64
	TaxAmount           float64
	ExtrasPrice         float64
	FinalPrice          float64
}

// QuoteRow is one line of the quote table.
type QuoteRow struct {
	ID              string
	Product         string
	Category        string
	Quantity        string
	Finish          string
	DiscountPercent float64
	FinalPrice      float64
	Overridden      bool
}

// QuoteData is the quote table together with its totals.
type QuoteData struct {
	Rows       []QuoteRow
	Totals     services.QuoteTotals
	Summary    services.QuoteSummary
	TaxPercent float64
}

type PricingData struct {
	Categories    []CategoryOption
	Products      []ProductOption
	Form          PricingForm
	ShowLength    bool
	ShowExtras    bool
	Extras        services.ExtrasTable
	DiscountTiers []float64
	Preview       PreviewData
	Errors        map[string]string
	Quote         QuoteData
}

// CatalogCategory groups a category with its products on the catalog page.
type CatalogCategory struct {
	ID             string
	Name           string
	PieceOnly      bool
	ExtrasEligible bool
	Products       []ProductOption
}

// ProductForm holds raw form input so invalid values can be shown again.
type ProductForm struct {
	ID             string
	Name           string
	CategoryID     string
	Unit           string
	PaintedPrice   string
	UnpaintedPrice string
	MinQuantity    string
	ImageURL       string
}

type CatalogData struct {
	Categories   []CatalogCategory
	Options      []CategoryOption
	UnitOptions  []services.UnitOption
	Form         ProductForm
	CategoryName string
	Errors       map[string]string
}

type SettingsData struct {
	CategoryCount int
	ProductCount  int
	Errors        map[string]string
}

// PriceListResultData is the outcome of validating an uploaded price list.
type PriceListResultData struct {
	FileName     string
	TotalRows    int
	ValidRows    int
	ErrorRows    int
	Errors       []services.ValidationError
	ErrorsJSON   string
	ProductsJSON string
}

// PrintData is the printable quote.
type PrintData struct {
	Export     services.ExportData
	TaxPercent float64
}
