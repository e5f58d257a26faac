package handlers

import (
	"aluquote/services"
	"aluquote/templates"
)

func quoteData(snap services.QuoteSnapshot) templates.QuoteData {
	rows := make([]templates.QuoteRow, 0, len(snap.Items))
	for _, it := range snap.Items {
		rows = append(rows, templates.QuoteRow{
			ID:              it.ID,
			Product:         it.DisplayName(),
			Category:        it.CategoryName,
			Quantity:        it.QuantityLabel(),
			Finish:          it.FinishLabel(),
			DiscountPercent: it.DiscountPercent,
			FinalPrice:      it.FinalPrice,
			Overridden:      it.PriceState == services.PriceOverridden,
		})
	}
	return templates.QuoteData{
		Rows:       rows,
		Totals:     snap.Totals,
		Summary:    snap.Summary,
		TaxPercent: services.TaxRate * 100,
	}
}

func categoryOptions(cat services.Catalog, selected string) []templates.CategoryOption {
	opts := make([]templates.CategoryOption, 0, len(cat.Categories))
	for _, c := range cat.Categories {
		opts = append(opts, templates.CategoryOption{
			ID:             c.ID,
			Name:           c.Name,
			PieceOnly:      c.PieceOnly,
			ExtrasEligible: c.ExtrasEligible,
			Selected:       c.ID == selected,
		})
	}
	return opts
}

func productOption(p services.Product, selected string) templates.ProductOption {
	return templates.ProductOption{
		ID:             p.ID,
		Name:           p.Name,
		CategoryID:     p.CategoryID,
		Unit:           string(p.Unit),
		PaintedPrice:   p.PaintedPrice,
		UnpaintedPrice: p.UnpaintedPrice,
		MinQuantity:    p.MinQuantity,
		ImageURL:       p.ImageURL,
		Selected:       p.ID == selected,
	}
}

func productOptions(cat services.Catalog, categoryID, selected string) []templates.ProductOption {
	if categoryID == "" {
		return nil
	}
	products := cat.ProductsIn(categoryID)
	opts := make([]templates.ProductOption, 0, len(products))
	for _, p := range products {
		opts = append(opts, productOption(p, selected))
	}
	return opts
}

func previewData(item services.LineItem) templates.PreviewData {
	return templates.PreviewData{
		Ready:               true,
		Unit:                string(item.Unit),
		BasePrice:           item.BasePrice,
		BilledQuantity:      item.Quantity,
		PriceBeforeDiscount: item.PriceBeforeDiscount,
		DiscountAmount:      item.DiscountAmount,
		PriceAfterDiscount:  item.PriceAfterDiscount,
		TaxAmount:           item.TaxAmount,
		ExtrasPrice:         item.Extras.Price,
		FinalPrice:          item.FinalPrice,
	}
}
