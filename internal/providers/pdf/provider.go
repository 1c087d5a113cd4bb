// Package pdf renders approved invoices as printable documents. Callers
// pass preformatted display strings; the renderer does layout only.
package pdf

import "context"

type LineRow struct {
	Name      string
	Quantity  string
	UnitPrice string
	LineTotal string
}

type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string

	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerGSTIN   string
	CustomerAddress string

	Items []LineRow

	TaxAmount   string
	TotalAmount string
	GeneratedAt string
}

type Provider interface {
	RenderInvoice(ctx context.Context, data InvoiceData) ([]byte, error)
}
