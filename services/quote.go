package services

import "github.com/google/uuid"

// QuoteTotals are the quote-level figures. They are derived from base price,
// quantity and discount only: line extras are not part of FinalTotal.
type QuoteTotals struct {
	TotalBeforeDiscount float64
	TotalDiscount       float64
	TotalAfterDiscount  float64
	TotalTax            float64
	FinalTotal          float64
}

// QuoteSummary holds the counters shown next to the totals.
type QuoteSummary struct {
	ItemCount   int
	TotalPieces int     // pieces across piece items only
	TotalMeters float64 // billed meters across length items, pieces not multiplied
	LinesTotal  float64 // sum of line final prices, extras and overrides included
}

// ItemPatch is an explicit edit of a stored line item.
// FinalPrice overrides the computed price; ResetPrice drops an override and
// prices the item from the formula again.
type ItemPatch struct {
	FinalPrice *float64
	ResetPrice bool
}

// QuoteSnapshot is a plain copy of a quote for rendering and export.
type QuoteSnapshot struct {
	Items   []LineItem
	Totals  QuoteTotals
	Summary QuoteSummary
}

// Quote is the ordered list of line items being built for one session.
// It is not safe for concurrent use; see QuoteBook.
type Quote struct {
	items []LineItem
	newID func() string
}

// NewQuote returns an empty quote that assigns time-ordered UUIDs.
func NewQuote() *Quote {
	return &Quote{newID: newLineItemID}
}

func newLineItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// AddItem appends item, assigning an ID if it has none, and returns the
// stored copy. Items are never merged.
func (q *Quote) AddItem(item LineItem) LineItem {
	if item.ID == "" {
		item.ID = q.newID()
	}
	if item.PriceState == "" {
		item.PriceState = PriceComputed
	}
	q.items = append(q.items, item)
	return item
}

// RemoveItem deletes the first item with the given id. Unknown ids are ignored.
func (q *Quote) RemoveItem(id string) {
	for i, it := range q.items {
		if it.ID == id {
			q.items = append(q.items[:i:i], q.items[i+1:]...)
			return
		}
	}
}

// UpdateItem applies patch to the item with the given id and reports
// whether it was found.
func (q *Quote) UpdateItem(id string, patch ItemPatch) bool {
	for i := range q.items {
		if q.items[i].ID != id {
			continue
		}
		it := &q.items[i]
		switch {
		case patch.FinalPrice != nil:
			it.FinalPrice = *patch.FinalPrice
			it.PriceState = PriceOverridden
		case patch.ResetPrice:
			it.apply(it.Recompute())
			it.PriceState = PriceComputed
		}
		return true
	}
	return false
}

// Clear removes every item.
func (q *Quote) Clear() {
	q.items = nil
}

// Len returns the number of items.
func (q *Quote) Len() int {
	return len(q.items)
}

// Item returns a copy of the item with the given id.
func (q *Quote) Item(id string) (LineItem, bool) {
	for _, it := range q.items {
		if it.ID == id {
			return it, true
		}
	}
	return LineItem{}, false
}

// Items returns a copy of the items in insertion order.
func (q *Quote) Items() []LineItem {
	out := make([]LineItem, len(q.items))
	copy(out, q.items)
	return out
}

// Totals recomputes the quote totals from the current items.
func (q *Quote) Totals() QuoteTotals {
	var before, discount float64
	for _, it := range q.items {
		gross := it.BasePrice * it.Quantity
		before += gross
		discount += gross * it.DiscountPercent / 100
	}
	after := before - discount
	tax := after * TaxRate
	return QuoteTotals{
		TotalBeforeDiscount: before,
		TotalDiscount:       discount,
		TotalAfterDiscount:  after,
		TotalTax:            tax,
		FinalTotal:          after + tax,
	}
}

// Summary counts pieces of piece lines, billed meters of length lines,
// and sums the line totals.
func (q *Quote) Summary() QuoteSummary {
	s := QuoteSummary{ItemCount: len(q.items)}
	for _, it := range q.items {
		switch it.Unit {
		case UnitPiece:
			s.TotalPieces += it.Pieces
		case UnitLength:
			s.TotalMeters += it.Quantity
		}
		s.LinesTotal += it.FinalPrice
	}
	return s
}

// Snapshot copies items, totals and summary in one read.
func (q *Quote) Snapshot() QuoteSnapshot {
	return QuoteSnapshot{
		Items:   q.Items(),
		Totals:  q.Totals(),
		Summary: q.Summary(),
	}
}
