package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF creates a quote PDF using maroto/v2 and returns the raw bytes.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTableHeader(m)
	for i, r := range data.Rows {
		addTableRow(m, r, i%2 == 1)
	}
	addSummary(m, data)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  15,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)
	m.AddRows(row.New(4))
}

// quoteColumns are the table column widths out of 12.
var quoteColumns = []struct {
	title string
	width int
}{
	{"#", 1}, {"Product", 3}, {"Category", 2}, {"Quantity", 2}, {"Finish", 1}, {"Disc.", 1}, {"Final Price", 2},
}

func addTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerCell := props.Cell{BackgroundColor: headerBg}

	r := row.New(8)
	for _, c := range quoteColumns {
		r.Add(col.New(c.width).Add(text.New(c.title, headerText)).WithStyle(&headerCell))
	}
	m.AddRows(r)
}

// addTableRow adds one quote line; shaded rows alternate.
func addTableRow(m core.Maroto, r ExportRow, shaded bool) {
	baseText := props.Text{Size: 7, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	price := FormatSAR(r.FinalPrice)
	if r.Overridden {
		price += " *"
	}

	cols := []core.Col{
		col.New(1).Add(text.New(r.Index, baseText)),
		col.New(3).Add(text.New(r.Product, leftText)),
		col.New(2).Add(text.New(r.Category, leftText)),
		col.New(2).Add(text.New(r.Quantity, baseText)),
		col.New(1).Add(text.New(r.Finish, baseText)),
		col.New(1).Add(text.New(FormatPercent(r.DiscountPercent), baseText)),
		col.New(2).Add(text.New(price, rightText)),
	}
	if shaded {
		cell := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
		for _, c := range cols {
			c.WithStyle(cell)
		}
	}

	m.AddRows(row.New(7).Add(cols...))
}

// addSummary adds the quote totals block.
func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	labelStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	lines := []struct {
		label string
		value float64
	}{
		{"Total before discount", data.Totals.TotalBeforeDiscount},
		{"Discount", data.Totals.TotalDiscount},
		{"Total after discount", data.Totals.TotalAfterDiscount},
		{fmt.Sprintf("Tax (%.0f%%)", TaxRate*100), data.Totals.TotalTax},
		{"Grand total", data.Totals.FinalTotal},
		{"Total price", data.Summary.LinesTotal},
	}
	for _, l := range lines {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(l.label, labelStyle)).WithStyle(summaryCell),
				col.New(4).Add(text.New(FormatSAR(l.value), valueStyle)).WithStyle(summaryCell),
			),
		)
	}
}

func addFooter(m core.Maroto, data ExportData) {
	grey := &props.Color{Red: 140, Green: 140, Blue: 140}
	m.AddRows(row.New(6))
	for _, r := range data.Rows {
		if r.Overridden {
			m.AddRows(row.New(5).Add(col.New(12).Add(
				text.New("* price adjusted manually", props.Text{Size: 7, Align: align.Left, Color: grey}),
			)))
			break
		}
	}
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.CreatedDate),
					props.Text{Size: 7, Align: align.Left, Color: grey},
				),
			),
		),
	)
}
