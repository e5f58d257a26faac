package services

import (
	"testing"
	"time"
)

// sampleQuote holds a painted grille line, a channel line with a blockage,
// and a manually priced grille.
func sampleQuote(t *testing.T) *Quote {
	t.Helper()
	q := &Quote{newID: sequentialIDs()}
	q.AddItem(mustBuild(t, Selection{ProductID: "grille20", Pieces: 2, Painted: true, DiscountPercent: 20}))
	q.AddItem(mustBuild(t, Selection{ProductID: "channel10", Pieces: 1, LengthCm: 200, Blockages: 1}))
	manual := q.AddItem(mustBuild(t, Selection{ProductID: "grille20", Pieces: 1}))
	price := 99.0
	q.UpdateItem(manual.ID, ItemPatch{FinalPrice: &price})
	return q
}

func TestBuildQuoteExport(t *testing.T) {
	snap := sampleQuote(t).Snapshot()
	data := BuildQuoteExport(snap, time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC))

	if data.CreatedDate != "09 Mar 2025" {
		t.Errorf("CreatedDate = %q", data.CreatedDate)
	}
	if len(data.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(data.Rows))
	}

	first := data.Rows[0]
	if first.Index != "1" || first.Product != "Grille 20x20" || first.Category != "Grilles" {
		t.Errorf("row 1 = %+v", first)
	}
	if first.Quantity != "2 pcs" || first.Finish != "Painted" || first.DiscountPercent != 20 {
		t.Errorf("row 1 labels = %+v", first)
	}
	if !floatClose(first.FinalPrice, 46) || first.Overridden {
		t.Errorf("row 1 price = %v overridden=%v", first.FinalPrice, first.Overridden)
	}

	second := data.Rows[1]
	if second.Product != "Channel 10x10 (Blockage: 1)" {
		t.Errorf("row 2 product = %q", second.Product)
	}
	if second.Quantity != "1 pcs × 2.00 m" {
		t.Errorf("row 2 quantity = %q", second.Quantity)
	}
	if !floatClose(second.FinalPrice, 37.6) {
		t.Errorf("row 2 final = %v, want 37.6 (extras included)", second.FinalPrice)
	}

	third := data.Rows[2]
	if !third.Overridden || third.FinalPrice != 99 {
		t.Errorf("row 3 = %+v, want overridden 99", third)
	}

	// Totals come straight from the snapshot and leave extras out.
	if data.Totals != snap.Totals {
		t.Errorf("Totals = %+v, want %+v", data.Totals, snap.Totals)
	}
	if !floatClose(data.Totals.TotalBeforeDiscount, 94) || !floatClose(data.Totals.FinalTotal, 96.6) {
		t.Errorf("totals = %+v", data.Totals)
	}
	if !floatClose(data.Summary.LinesTotal, 182.6) {
		t.Errorf("LinesTotal = %v, want 182.6 with the override", data.Summary.LinesTotal)
	}
}

func TestBuildQuoteExport_Empty(t *testing.T) {
	data := BuildQuoteExport(QuoteSnapshot{}, time.Now())
	if len(data.Rows) != 0 || data.Totals.FinalTotal != 0 {
		t.Errorf("empty export = %+v", data)
	}
	if data.Title == "" {
		t.Error("Title must be set")
	}
}
