// Package domain holds the invoice lifecycle model. An invoice is created
// from an upload, reviewed against its staging draft, submitted for
// approval, and only becomes relational truth (customer linked, line items
// materialized) when the approval transaction commits.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an invoice.
//
// REJECTED is a display/filter value only: a reject action routes the
// invoice back to PENDING_REVIEW with rejection_reason set, it never
// rests in REJECTED.
type Status string

const (
	StatusPendingReview   Status = "PENDING_REVIEW"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingReview, StatusPendingApproval, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Editable reports whether review edits and submission are allowed.
func (s Status) Editable() bool {
	return s == StatusPendingReview || s == StatusRejected
}

// Invoice is one physical document's digital record. customer_id stays
// null until approval; before that the counterparty lives only in the
// staging draft.
type Invoice struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceNumber   string          `gorm:"index" json:"invoice_number"`
	InvoiceDate     *time.Time      `gorm:"type:date" json:"invoice_date,omitempty"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"tax_amount"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"discount_amount"`
	Currency        string          `gorm:"size:8;not null;default:INR" json:"currency"`
	Status          Status          `gorm:"size:32;not null;index" json:"status"`
	CustomerID      *snowflake.ID   `gorm:"index" json:"customer_id,omitempty"`
	CreatedBy       snowflake.ID    `gorm:"not null;index" json:"created_by"`
	SubmittedBy     *snowflake.ID   `json:"submitted_by,omitempty"`
	SubmittedAt     *time.Time      `json:"submitted_at,omitempty"`
	ApprovedBy      *snowflake.ID   `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason string          `gorm:"type:text" json:"rejection_reason,omitempty"`
	GeneratedPDFID  *string         `gorm:"column:generated_pdf_document_id;size:64" json:"generated_pdf_document_id,omitempty"`
	GeneratedPDFAt  *time.Time      `gorm:"column:generated_pdf_at" json:"generated_pdf_at,omitempty"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// LineItem is one product/quantity/price row of an approved invoice.
// Items are replaced wholesale on every approval pass, never diffed.
type LineItem struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID     snowflake.ID    `gorm:"index;not null" json:"invoice_id"`
	ProductID     *snowflake.ID   `gorm:"index" json:"product_id,omitempty"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	TaxPercentage decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0" json:"tax_percentage"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"line_total"`
	Position      int             `gorm:"not null" json:"position"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "invoice_items" }

// ItemWithProduct is a line item joined with its resolved product.
type ItemWithProduct struct {
	LineItem
	ProductName string `json:"product_name,omitempty"`
	ProductSKU  string `json:"product_sku,omitempty"`
}

// Summary is the listing row: invoice joined with customer and user names.
// For PENDING_REVIEW rows the header fields are overlaid from the staging
// draft, which holds the freshest extraction/review values.
type Summary struct {
	ID              snowflake.ID    `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	InvoiceDate     *time.Time      `json:"invoice_date,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	SubmittedAt     *time.Time      `json:"submitted_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	GeneratedPDFID  *string         `gorm:"column:generated_pdf_document_id" json:"generated_pdf_document_id,omitempty"`
	CreatedBy       snowflake.ID    `json:"created_by"`
	CustomerName    string          `json:"customer_name,omitempty"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	CreatedByName   string          `json:"created_by_name,omitempty"`
	SubmittedByName string          `json:"submitted_by_name,omitempty"`
	DocumentCount   int             `json:"document_count"`
}

// Duplicate is one candidate re-upload, annotated with its absolute day
// distance from the date being checked.
type Duplicate struct {
	ID            snowflake.ID    `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   *time.Time      `json:"invoice_date,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        Status          `json:"status"`
	CustomerName  string          `json:"customer_name,omitempty"`
	DaysAgo       int             `json:"days_ago"`
}

// DuplicateResult is the advisory duplicate-check response.
type DuplicateResult struct {
	HasDuplicates bool        `json:"hasDuplicates"`
	Duplicates    []Duplicate `json:"duplicates"`
}
