package services

import (
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestGenerateExcel_Quote(t *testing.T) {
	data := BuildQuoteExport(sampleQuote(t).Snapshot(), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

	result, err := GenerateExcel(data)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 || sheets[0] != "Quote" {
		t.Fatalf("expected sheet 'Quote', got %v", sheets)
	}

	title, _ := f.GetCellValue("Quote", "A1")
	if !strings.HasPrefix(title, ShopName) {
		t.Errorf("title = %q", title)
	}
	date, _ := f.GetCellValue("Quote", "A2")
	if date != "Date: 15 Jan 2025" {
		t.Errorf("date = %q", date)
	}

	header, _ := f.GetCellValue("Quote", "G4")
	if header != "Final Price (SAR)" {
		t.Errorf("G4 = %q", header)
	}

	product, _ := f.GetCellValue("Quote", "B6")
	if product != "Channel 10x10 (Blockage: 1)" {
		t.Errorf("B6 = %q", product)
	}
	price, _ := f.GetCellValue("Quote", "G5")
	if price != "46" {
		t.Errorf("G5 = %q, want 46", price)
	}

	// Rows 5-7 hold items, row 8 is blank, totals start at row 9.
	label, _ := f.GetCellValue("Quote", "F13")
	total, _ := f.GetCellValue("Quote", "G13")
	if label != "Grand total:" || total != "96.6" {
		t.Errorf("grand total row = %q %q", label, total)
	}
	// The sum of line prices keeps extras and the 99 override.
	label, _ = f.GetCellValue("Quote", "F14")
	total, _ = f.GetCellValue("Quote", "G14")
	if label != "Total price:" || total != "182.6" {
		t.Errorf("total price row = %q %q", label, total)
	}
}

func TestGenerateExcel_EmptyItems(t *testing.T) {
	data := ExportData{
		Title:       "Empty Quote",
		CreatedDate: "15 Jan 2025",
		Rows:        []ExportRow{},
	}

	result, err := GenerateExcel(data)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateExcel() returned empty bytes")
	}
}

func TestGenerateExcel_SanitizesProductNames(t *testing.T) {
	data := ExportData{
		Title:       "Quote",
		CreatedDate: "15 Jan 2025",
		Rows: []ExportRow{
			{Index: "1", Product: "=HYPERLINK(\"http://x\")", Category: "Grilles", Quantity: "1 pcs", Finish: "Painted", FinalPrice: 10},
		},
	}

	result, err := GenerateExcel(data)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	got, _ := f.GetCellValue("Quote", "B5")
	if !strings.HasPrefix(got, "'=") {
		t.Errorf("B5 = %q, want quote-prefixed formula text", got)
	}
}

func TestRoundMoney(t *testing.T) {
	if got := roundMoney(27.599999); got != 27.6 {
		t.Errorf("roundMoney(27.599999) = %v", got)
	}
	if got := roundMoney(0.005); got != 0.01 {
		t.Errorf("roundMoney(0.005) = %v", got)
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"normal text", "Hello", "Hello"},
		{"starts with equals", "=SUM(A1:A10)", "'=SUM(A1:A10)"},
		{"starts with plus", "+1234", "'+1234"},
		{"starts with minus", "-100", "'-100"},
		{"starts with at", "@import", "'@import"},
		{"starts with tab", "\tdata", "'\tdata"},
		{"starts with pipe", "|command", "'|command"},
		{"starts with carriage return", "\rdata", "'\rdata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeExcelCell(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestThinBorders(t *testing.T) {
	borders := thinBorders()
	if len(borders) != 4 {
		t.Errorf("thinBorders() returned %d borders, want 4", len(borders))
	}

	sides := map[string]bool{"left": false, "top": false, "bottom": false, "right": false}
	for _, b := range borders {
		sides[b.Type] = true
		if b.Style != 1 {
			t.Errorf("border %s style = %d, want 1 (thin)", b.Type, b.Style)
		}
	}
	for side, found := range sides {
		if !found {
			t.Errorf("missing border side: %s", side)
		}
	}
}
