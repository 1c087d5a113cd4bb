package ocr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFullResponse(t *testing.T) {
	raw := json.RawMessage(`{
		"invoice_number": "INV-2025-001",
		"invoice_date": "15/08/2025",
		"total_amount": 1180.50,
		"tax_amount": "180.50",
		"currency": "INR",
		"customer_name": "Sharma Traders",
		"customer_phone": "+91-98765 43210",
		"customer_gstin": "27AAPFU0939F1ZV",
		"line_items": [
			{"item_name": "Steel Rod 12mm", "item_quantity": 10, "item_price": "100.00", "item_total": 1000}
		]
	}`)

	payload, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "INV-2025-001", payload.Invoice.InvoiceNumber)
	assert.Equal(t, "15/08/2025", payload.Invoice.InvoiceDate)
	require.NotNil(t, payload.Invoice.TotalAmount)
	assert.Equal(t, "1180.5", payload.Invoice.TotalAmount.String())
	require.NotNil(t, payload.Invoice.TaxAmount)
	assert.Equal(t, "180.5", payload.Invoice.TaxAmount.String())
	assert.Equal(t, "Sharma Traders", payload.Customer.Name)

	require.Len(t, payload.Items, 1)
	item := payload.Items[0]
	assert.Equal(t, "Steel Rod 12mm", item.Name)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, "10", item.Quantity.String())
	require.NotNil(t, item.LineTotal)
	assert.Equal(t, "1000", item.LineTotal.String())
}

func TestNormalizeEmptyObjectIsBlankDraft(t *testing.T) {
	payload, err := Normalize(json.RawMessage(`{}`))
	require.NoError(t, err)

	assert.Empty(t, payload.Invoice.InvoiceNumber)
	assert.Nil(t, payload.Invoice.TotalAmount)
	assert.Equal(t, "INR", payload.Invoice.Currency)
	assert.Empty(t, payload.Items)
}

func TestNormalizeToleratesMixedTypes(t *testing.T) {
	raw := json.RawMessage(`{
		"invoice_number": 42,
		"total_amount": "not a number",
		"tax_amount": null,
		"line_items": [{"item_quantity": "2.5", "item_price": null}]
	}`)

	payload, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "42", payload.Invoice.InvoiceNumber)
	assert.Nil(t, payload.Invoice.TotalAmount)
	require.Len(t, payload.Items, 1)
	require.NotNil(t, payload.Items[0].Quantity)
	assert.Equal(t, "2.5", payload.Items[0].Quantity.String())
	assert.Nil(t, payload.Items[0].UnitPrice)
}

func TestNormalizeRejectsMalformedJSON(t *testing.T) {
	_, err := Normalize(json.RawMessage(`{"invoice_number": `))
	assert.Error(t, err)
}
