package handlers

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"aluquote/services"
	"aluquote/testhelpers"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Al-Saleh Aluminium", "Al-Saleh-Aluminium"},
		{"a/b\\c:d", "a-b-c-d"},
		{`quote "final"`, "quote-final"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.input); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)
	if got := exportFilename(now, "pdf"); got != "Al-Saleh-Aluminium_Quote_2026-03-14_0905.pdf" {
		t.Errorf("exportFilename = %q", got)
	}
}

func TestHandleQuoteExportExcel(t *testing.T) {
	env := newTestEnv(t)
	env.addLine(t, services.Selection{ProductID: env.productID(t, "Grille 20x20"), Pieces: 2, Painted: true, DiscountPercent: 20})

	rec := env.serve(t, HandleQuoteExportExcel(env.quotes), env.request(http.MethodGet, "/quote/export/excel", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Al-Saleh-Aluminium_Quote_") || !strings.HasSuffix(cd, `.xlsx"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Quote", "B5"); !strings.Contains(v, "Grille 20x20") {
		t.Errorf("B5 = %q, want the grille", v)
	}
}

func TestHandleQuoteExportPDF(t *testing.T) {
	env := newTestEnv(t)
	env.addLine(t, services.Selection{ProductID: env.productID(t, "Channel 10x10"), Pieces: 1, LengthCm: 200, Blockages: 1})

	rec := env.serve(t, HandleQuoteExportPDF(env.quotes), env.request(http.MethodGet, "/quote/export/pdf", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF")
	}
}

func TestExports_EmptyQuoteRejected(t *testing.T) {
	env := newTestEnv(t)

	for name, handler := range map[string]func(t *testing.T) int{
		"excel": func(t *testing.T) int {
			return env.serve(t, HandleQuoteExportExcel(env.quotes), env.request(http.MethodGet, "/quote/export/excel", nil)).Code
		},
		"pdf": func(t *testing.T) int {
			return env.serve(t, HandleQuoteExportPDF(env.quotes), env.request(http.MethodGet, "/quote/export/pdf", nil)).Code
		},
		"whatsapp": func(t *testing.T) int {
			return env.serve(t, HandleQuoteShareWhatsApp(env.quotes), env.request(http.MethodGet, "/quote/share/whatsapp", nil)).Code
		},
	} {
		t.Run(name, func(t *testing.T) {
			if code := handler(t); code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", code)
			}
		})
	}
}

func TestHandleQuotePrint(t *testing.T) {
	env := newTestEnv(t)
	item := env.addLine(t, services.Selection{ProductID: env.productID(t, "Grille 20x20"), Pieces: 2, Painted: true})
	price := 50.0
	env.quotes.Update(env.token, func(q *services.Quote) {
		q.UpdateItem(item.ID, services.ItemPatch{FinalPrice: &price})
	})

	rec := env.serve(t, HandleQuotePrint(env.quotes), env.request(http.MethodGet, "/quote/print", nil))

	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		services.ShopName,
		"Grille 20x20",
		"50.00 SAR",
		"57.50 SAR",
		"Total price",
	)
}

func TestHandleQuoteShareWhatsApp(t *testing.T) {
	env := newTestEnv(t)
	env.addLine(t, services.Selection{ProductID: env.productID(t, "Inspection Cover 30x30"), Pieces: 3})

	rec := env.serve(t, HandleQuoteShareWhatsApp(env.quotes), env.request(http.MethodGet, "/quote/share/whatsapp", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad Location: %v", err)
	}
	if loc.Host != "wa.me" {
		t.Errorf("host = %q, want wa.me", loc.Host)
	}
	text := loc.Query().Get("text")
	// 30 * 3 = 90, +15% = 103.50
	for _, want := range []string{"Inspection Cover 30x30", "Quantity: 3 pcs", "Finish: Unpainted", "Grand total: 103.50 SAR", "Total price: 103.50 SAR"} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q:\n%s", want, text)
		}
	}
}

func TestHandleQuoteShareWhatsApp_TotalFollowsOverride(t *testing.T) {
	env := newTestEnv(t)
	item := env.addLine(t, services.Selection{ProductID: env.productID(t, "Inspection Cover 30x30"), Pieces: 3})
	price := 200.0
	env.quotes.Update(env.token, func(q *services.Quote) {
		q.UpdateItem(item.ID, services.ItemPatch{FinalPrice: &price})
	})

	rec := env.serve(t, HandleQuoteShareWhatsApp(env.quotes), env.request(http.MethodGet, "/quote/share/whatsapp", nil))

	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad Location: %v", err)
	}
	text := loc.Query().Get("text")
	if !strings.HasSuffix(text, "Total price: 200.00 SAR") {
		t.Errorf("message should carry the manual price in its total:\n%s", text)
	}
	if !strings.Contains(text, "Grand total: 103.50 SAR") {
		t.Errorf("grand total should still follow base prices:\n%s", text)
	}
}
