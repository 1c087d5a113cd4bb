package ocr

import (
	"bytes"
	"encoding/json"

	stagingdomain "github.com/saralbooks/saralbooks/internal/staging/domain"
	"github.com/shopspring/decimal"
)

const defaultCurrency = "INR"

// flexString accepts strings and bare numbers; extraction models are not
// consistent about quoting identifiers like invoice numbers.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	*s = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err == nil {
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*s = flexString(n.String())
	}
	return nil
}

// flexDecimal accepts numbers, numeric strings, null, and garbage. A value
// that cannot be read as a number degrades to absent rather than failing
// the whole extraction.
type flexDecimal struct {
	value *decimal.Decimal
}

func (f *flexDecimal) UnmarshalJSON(b []byte) error {
	f.value = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" || string(b) == `""` {
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(b, &d); err != nil {
		return nil
	}
	f.value = &d
	return nil
}

type rawLineItem struct {
	ItemName          flexString  `json:"item_name"`
	ItemDescription   flexString  `json:"item_description"`
	ItemQuantity      flexDecimal `json:"item_quantity"`
	ItemPrice         flexDecimal `json:"item_price"`
	ItemTaxPercentage flexDecimal `json:"item_tax_percentage"`
	ItemTotal         flexDecimal `json:"item_total"`
}

type rawResponse struct {
	InvoiceNumber   flexString    `json:"invoice_number"`
	InvoiceDate     flexString    `json:"invoice_date"`
	TotalAmount     flexDecimal   `json:"total_amount"`
	TaxAmount       flexDecimal   `json:"tax_amount"`
	DiscountAmount  flexDecimal   `json:"discount_amount"`
	Currency        flexString    `json:"currency"`
	CustomerName    flexString    `json:"customer_name"`
	CustomerPhone   flexString    `json:"customer_phone"`
	CustomerEmail   flexString    `json:"customer_email"`
	CustomerGSTIN   flexString    `json:"customer_gstin"`
	CustomerAddress flexString    `json:"customer_address"`
	LineItems       []rawLineItem `json:"line_items"`
}

// Normalize maps the extraction service's flat response onto the draft
// payload shape. All fields are optional; an empty object is a valid
// (fully blank) extraction.
func Normalize(raw json.RawMessage) (stagingdomain.Payload, error) {
	var resp rawResponse
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &resp); err != nil {
			return stagingdomain.Payload{}, err
		}
	}

	currency := string(resp.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	payload := stagingdomain.Payload{
		Invoice: stagingdomain.InvoiceData{
			InvoiceNumber:  string(resp.InvoiceNumber),
			InvoiceDate:    string(resp.InvoiceDate),
			TotalAmount:    resp.TotalAmount.value,
			TaxAmount:      resp.TaxAmount.value,
			DiscountAmount: resp.DiscountAmount.value,
			Currency:       currency,
		},
		Customer: stagingdomain.CustomerData{
			Name:    string(resp.CustomerName),
			Phone:   string(resp.CustomerPhone),
			Email:   string(resp.CustomerEmail),
			GSTIN:   string(resp.CustomerGSTIN),
			Address: string(resp.CustomerAddress),
		},
		Items: make([]stagingdomain.ItemData, 0, len(resp.LineItems)),
	}
	for _, item := range resp.LineItems {
		payload.Items = append(payload.Items, stagingdomain.ItemData{
			Name:          string(item.ItemName),
			Description:   string(item.ItemDescription),
			Quantity:      item.ItemQuantity.value,
			UnitPrice:     item.ItemPrice.value,
			TaxPercentage: item.ItemTaxPercentage.value,
			LineTotal:     item.ItemTotal.value,
		})
	}
	return payload, nil
}
