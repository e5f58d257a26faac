package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"aluquote/services"
	"aluquote/templates"
)

// buildExportData snapshots the session's quote for export.
func buildExportData(quotes *services.QuoteBook, token string, now time.Time) (services.ExportData, bool) {
	snap, ok := quotes.Snapshot(token)
	if !ok {
		return services.ExportData{}, false
	}
	return services.BuildQuoteExport(snap, now), true
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

func exportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("%s_Quote_%s.%s", sanitizeFilename(services.ShopName), now.Format("2006-01-02_1504"), ext)
}

// HandleQuoteExportExcel returns a handler that downloads the quote as an Excel file.
func HandleQuoteExportExcel(quotes *services.QuoteBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		now := time.Now()
		data, ok := buildExportData(quotes, GetSessionID(e.Request), now)
		if !ok {
			return redirect(e, "/login")
		}
		if len(data.Rows) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "The quote is empty")
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(now, "xlsx")))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleQuoteExportPDF returns a handler that downloads the quote as a PDF file.
func HandleQuoteExportPDF(quotes *services.QuoteBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		now := time.Now()
		data, ok := buildExportData(quotes, GetSessionID(e.Request), now)
		if !ok {
			return redirect(e, "/login")
		}
		if len(data.Rows) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "The quote is empty")
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(now, "pdf")))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleQuotePrint renders a printable page of the quote.
func HandleQuotePrint(quotes *services.QuoteBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, ok := buildExportData(quotes, GetSessionID(e.Request), time.Now())
		if !ok {
			return redirect(e, "/login")
		}
		page := templates.PrintData{Export: data, TaxPercent: services.TaxRate * 100}
		return templates.PrintPage(page).Render(e.Request.Context(), e.Response)
	}
}

// HandleQuoteShareWhatsApp redirects to a WhatsApp chat prefilled with the quote.
func HandleQuoteShareWhatsApp(quotes *services.QuoteBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, ok := buildExportData(quotes, GetSessionID(e.Request), time.Now())
		if !ok {
			return redirect(e, "/login")
		}
		if len(data.Rows) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "The quote is empty")
		}
		return e.Redirect(http.StatusFound, services.WhatsAppURL(services.WhatsAppMessage(data)))
	}
}
