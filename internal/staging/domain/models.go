// Package domain models the pre-approval draft of an invoice: the mutable
// working copy produced by OCR and edited during review. Relational rows
// are reserved for approved truth; everything in-progress lives here.
package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// InvoiceData is the draft invoice header. Every field may be absent:
// extraction can come back fully empty and the reviewer fills gaps.
type InvoiceData struct {
	InvoiceNumber  string           `json:"invoice_number"`
	InvoiceDate    string           `json:"invoice_date"`
	TotalAmount    *decimal.Decimal `json:"total_amount"`
	TaxAmount      *decimal.Decimal `json:"tax_amount"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
	Currency       string           `json:"currency"`
}

// CustomerData is the draft counterparty, relational only after approval.
type CustomerData struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	GSTIN   string `json:"gstin"`
	Address string `json:"address"`
}

// Empty reports whether no customer detail was captured at all.
func (c CustomerData) Empty() bool {
	return c.Name == "" && c.Phone == "" && c.Email == "" && c.GSTIN == "" && c.Address == ""
}

// ItemData is one draft line.
type ItemData struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Quantity      *decimal.Decimal `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
	LineTotal     *decimal.Decimal `json:"line_total"`
}

// Payload is the full draft state: invoice header, customer and items.
type Payload struct {
	Invoice  InvoiceData  `json:"invoice"`
	Customer CustomerData `json:"customer"`
	Items    []ItemData   `json:"items"`
}

// ReviewDocument is the durable draft row, overwritten (not versioned) on
// every save/submit and discarded once approval succeeds.
type ReviewDocument struct {
	ID               snowflake.ID   `gorm:"primaryKey"`
	InvoiceID        snowflake.ID   `gorm:"uniqueIndex;not null"`
	RawOCR           datatypes.JSON `gorm:"column:raw_ocr"`
	Payload          datatypes.JSON `gorm:"not null"`
	LinkedCustomerID *snowflake.ID  `gorm:"index"`
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ReviewDocument) TableName() string { return "review_documents" }

// DecodePayload unmarshals the stored draft payload.
func (d *ReviewDocument) DecodePayload() (Payload, error) {
	var payload Payload
	if len(d.Payload) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(d.Payload, &payload); err != nil {
		return Payload{}, err
	}
	return payload, nil
}

// SetPayload marshals and stores the draft payload.
func (d *ReviewDocument) SetPayload(payload Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	d.Payload = raw
	return nil
}
