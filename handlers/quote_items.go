package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"aluquote/services"
	"aluquote/templates"
)

// renderQuote writes the quote section of the caller's session.
func renderQuote(e *core.RequestEvent, quotes *services.QuoteBook, token string) error {
	snap, ok := quotes.Snapshot(token)
	if !ok {
		return redirect(e, "/login")
	}
	return templates.QuoteSection(quoteData(snap)).Render(e.Request.Context(), e.Response)
}

// HandleQuoteAdd prices the posted selection and appends it to the quote.
// Route: POST /quote/items
func HandleQuoteAdd(store *services.CatalogStore, quotes *services.QuoteBook, extras services.ExtrasTable) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := GetSessionID(e.Request)
		if !quotes.Has(token) {
			return redirect(e, "/login")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		_, sel := readSelection(e.Request.PostForm)
		item, err := services.BuildLineItem(store.Snapshot(), sel, extras)
		if err != nil {
			if errors.Is(err, services.ErrProductNotSelected) {
				return ErrorToast(e, http.StatusBadRequest, "Please select a product")
			}
			var fe *services.FieldError
			if errors.As(err, &fe) {
				return ErrorToast(e, http.StatusUnprocessableEntity, fe.Message)
			}
			log.Printf("quote_items: build line item: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		quotes.Update(token, func(q *services.Quote) {
			item = q.AddItem(item)
		})
		SetToast(e, "success", item.ProductName+" added to quote")
		return renderQuote(e, quotes, token)
	}
}

// HandleQuoteRemove drops one line from the quote.
// Route: DELETE /quote/items/{id}
func HandleQuoteRemove(quotes *services.QuoteBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := GetSessionID(e.Request)
		itemID := e.Request.PathValue("id")

		quotes.Update(token, func(q *services.Quote) {
			q.RemoveItem(itemID)
		})
		return renderQuote(e, quotes, token)
	}
}

// HandleQuoteOverride sets a manual final price on one line.
// Route: POST /quote/items/{id}/price
func HandleQuoteOverride(quotes *services.QuoteBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := GetSessionID(e.Request)
		itemID := e.Request.PathValue("id")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		raw := strings.TrimSpace(strings.ReplaceAll(e.Request.FormValue("final_price"), ",", ""))
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price < 0 || math.IsInf(price, 0) || math.IsNaN(price) {
			return ErrorToast(e, http.StatusUnprocessableEntity, "Final price must be a non-negative number")
		}

		found := false
		if !quotes.Update(token, func(q *services.Quote) {
			found = q.UpdateItem(itemID, services.ItemPatch{FinalPrice: &price})
		}) {
			return redirect(e, "/login")
		}
		if !found {
			return ErrorToast(e, http.StatusNotFound, "Quote line not found")
		}

		SetToast(e, "success", "Price updated")
		return renderQuote(e, quotes, token)
	}
}

// HandleQuoteReset returns a line to its computed price.
// Route: POST /quote/items/{id}/reset
func HandleQuoteReset(quotes *services.QuoteBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := GetSessionID(e.Request)
		itemID := e.Request.PathValue("id")

		found := false
		if !quotes.Update(token, func(q *services.Quote) {
			found = q.UpdateItem(itemID, services.ItemPatch{ResetPrice: true})
		}) {
			return redirect(e, "/login")
		}
		if !found {
			return ErrorToast(e, http.StatusNotFound, "Quote line not found")
		}
		return renderQuote(e, quotes, token)
	}
}

// HandleQuoteClear empties the quote.
// Route: POST /quote/clear
func HandleQuoteClear(quotes *services.QuoteBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := GetSessionID(e.Request)
		quotes.Update(token, func(q *services.Quote) {
			q.Clear()
		})
		SetToast(e, "info", "Quote cleared")
		return renderQuote(e, quotes, token)
	}
}
