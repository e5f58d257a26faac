package services

import (
	"strconv"
	"time"
)

// ShopName heads every exported quote.
const ShopName = "Al-Saleh Aluminium"

// ExportRow is one quote line as shown on exports.
type ExportRow struct {
	Index           string
	Product         string
	Category        string
	Quantity        string
	Finish          string
	DiscountPercent float64
	UnitPrice       float64
	FinalPrice      float64
	Overridden      bool
}

// ExportData holds all data needed for export.
type ExportData struct {
	Title       string
	CreatedDate string
	Rows        []ExportRow
	Totals      QuoteTotals
	Summary     QuoteSummary
}

// BuildQuoteExport copies a quote snapshot into export rows. Figures are
// taken as computed; nothing is re-priced here.
func BuildQuoteExport(snap QuoteSnapshot, generatedAt time.Time) ExportData {
	rows := make([]ExportRow, 0, len(snap.Items))
	for i, it := range snap.Items {
		rows = append(rows, ExportRow{
			Index:           strconv.Itoa(i + 1),
			Product:         it.DisplayName(),
			Category:        it.CategoryName,
			Quantity:        it.QuantityLabel(),
			Finish:          it.FinishLabel(),
			DiscountPercent: it.DiscountPercent,
			UnitPrice:       it.BasePrice,
			FinalPrice:      it.FinalPrice,
			Overridden:      it.PriceState == PriceOverridden,
		})
	}
	return ExportData{
		Title:       ShopName + " - Price Quotation",
		CreatedDate: generatedAt.Format("02 Jan 2006"),
		Rows:        rows,
		Totals:      snap.Totals,
		Summary:     snap.Summary,
	}
}
