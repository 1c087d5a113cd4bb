package pdf

import (
	"context"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type marotoProvider struct{}

func New() Provider {
	return &marotoProvider{}
}

func (p *marotoProvider) RenderInvoice(ctx context.Context, data InvoiceData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, "TAX INVOICE", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Invoice Number: "+orNA(data.InvoiceNumber), props.Text{Top: 0, Size: 10}),
			text.New("Date: "+orNA(data.InvoiceDate), props.Text{Top: 5, Size: 10}),
		),
		col.New(6),
	)

	if data.CustomerName != "" {
		m.AddRow(8,
			text.NewCol(12, "Bill To:", props.Text{Style: fontstyle.Bold, Size: 11}),
		)
		billTo := col.New(8).Add(
			text.New(data.CustomerName, props.Text{Top: 0, Size: 10}),
		)
		top := 4.0
		if data.CustomerPhone != "" {
			billTo.Add(text.New("Phone: "+data.CustomerPhone, props.Text{Top: top, Size: 10}))
			top += 4
		}
		if data.CustomerEmail != "" {
			billTo.Add(text.New("Email: "+data.CustomerEmail, props.Text{Top: top, Size: 10}))
			top += 4
		}
		if data.CustomerGSTIN != "" {
			billTo.Add(text.New("GSTIN: "+data.CustomerGSTIN, props.Text{Top: top, Size: 10}))
			top += 4
		}
		if data.CustomerAddress != "" {
			billTo.Add(text.New(data.CustomerAddress, props.Text{Top: top, Size: 9}))
		}
		m.AddRow(28, billTo, col.New(4))
	}

	m.AddRow(10,
		text.NewCol(6, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range data.Items {
		name := item.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		m.AddRow(8,
			text.NewCol(6, name, props.Text{Size: 9}),
			text.NewCol(2, item.Quantity, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.LineTotal, props.Text{Size: 9, Align: align.Right}),
		)
	}

	if data.TaxAmount != "" {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, "Tax", props.Text{Size: 9}),
			text.NewCol(2, data.TaxAmount, props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total Amount", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, data.TotalAmount, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	m.AddRow(12,
		text.NewCol(12, "Thank you for your business!", props.Text{Size: 9, Align: align.Center, Top: 4}),
	)
	if data.GeneratedAt != "" {
		m.AddRow(6,
			text.NewCol(12, "Generated on "+data.GeneratedAt, props.Text{Size: 8, Align: align.Center}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
