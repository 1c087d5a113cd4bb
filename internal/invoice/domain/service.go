package domain

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	stagingdomain "github.com/saralbooks/saralbooks/internal/staging/domain"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// FieldErrors is a validation failure keyed by field path, e.g.
// "customer.phone" or "items[2].quantity". The review UI highlights
// individual fields from these keys.
type FieldErrors map[string]string

func (e FieldErrors) Error() string { return "validation_failed" }

// Fields returns the error keys in stable order, for logs and tests.
func (e FieldErrors) Fields() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UploadFile is one file of an upload batch.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadResult returns the created invoice and what extraction found, so
// the review screen can prefill.
type UploadResult struct {
	InvoiceID snowflake.ID          `json:"invoiceId"`
	Extracted stagingdomain.Payload `json:"ocrData"`
}

// UpdateRequest carries review edits to the invoice header.
type UpdateRequest struct {
	Invoice  stagingdomain.InvoiceData  `json:"invoice"`
	Customer *stagingdomain.CustomerData `json:"customer,omitempty"`
	Items    []stagingdomain.ItemData   `json:"items,omitempty"`
}

// SubmitRequest is the reviewed invoice sent for approval. LinkedCustomerID
// pins an existing customer the reviewer explicitly selected; approval
// honors it without re-matching.
type SubmitRequest struct {
	Invoice          stagingdomain.InvoiceData  `json:"invoice"`
	Customer         stagingdomain.CustomerData `json:"customer"`
	Items            []stagingdomain.ItemData   `json:"items"`
	LinkedCustomerID *snowflake.ID              `json:"linked_customer_id,omitempty"`
}

// ApproveRequest optionally overrides the staged customer/items. When
// empty, approval falls back to the staging draft.
type ApproveRequest struct {
	Customer *stagingdomain.CustomerData `json:"customer,omitempty"`
	Items    []stagingdomain.ItemData    `json:"items,omitempty"`
}

// CheckDuplicatesRequest is the advisory pre-submission duplicate probe.
type CheckDuplicatesRequest struct {
	CustomerID    *snowflake.ID    `json:"customer_id,omitempty"`
	TotalAmount   *decimal.Decimal `json:"total_amount,omitempty"`
	InvoiceDate   string           `json:"invoice_date,omitempty"`
	InvoiceNumber string           `json:"invoice_number,omitempty"`
	InvoiceID     *snowflake.ID    `json:"invoice_id,omitempty"`
}

// DuplicateIgnoredRequest records that a human saw the duplicate warning
// and chose to proceed anyway.
type DuplicateIgnoredRequest struct {
	InvoiceID          *snowflake.ID    `json:"invoice_id,omitempty"`
	ComparedInvoiceID  snowflake.ID     `json:"compared_invoice_id"`
	ComparedInvoiceNum string           `json:"compared_invoice_number,omitempty"`
	TotalAmount        *decimal.Decimal `json:"total_amount,omitempty"`
}

// Detail is the full single-invoice view. For pre-approval invoices with
// no relational items yet, customer and items are overlaid from the
// staging draft.
type Detail struct {
	Invoice
	CustomerName    string                 `json:"customer_name,omitempty"`
	CustomerPhone   string                 `json:"customer_phone,omitempty"`
	CustomerEmail   string                 `json:"customer_email,omitempty"`
	CustomerGSTIN   string                 `json:"customer_gstin,omitempty"`
	CustomerAddress string                 `json:"customer_address,omitempty"`
	Items           []ItemWithProduct      `json:"items"`
	Documents       []documentdomain.Meta  `json:"documents"`
	Draft           *stagingdomain.Payload `json:"draft,omitempty"`
	RawOCR          datatypes.JSON         `json:"raw_ocr,omitempty"`
}

type Service interface {
	Upload(ctx context.Context, files []UploadFile) (*UploadResult, error)
	List(ctx context.Context, filter ListFilter) ([]Summary, error)
	Get(ctx context.Context, id string) (*Detail, error)
	Update(ctx context.Context, id string, req UpdateRequest) error
	Submit(ctx context.Context, id string, req SubmitRequest) error
	Approve(ctx context.Context, id string, req ApproveRequest) error
	Reject(ctx context.Context, id string, reason string) error
	Delete(ctx context.Context, id string) error
	CheckDuplicates(ctx context.Context, req CheckDuplicatesRequest) (*DuplicateResult, error)
	LogDuplicateIgnored(ctx context.Context, req DuplicateIgnoredRequest) error
	GeneratePDF(ctx context.Context, id string) (string, error)
}

var (
	ErrInvalidID          = errors.New("invalid_invoice_id")
	ErrNotFound           = errors.New("invoice_not_found")
	ErrNoFiles            = errors.New("no_files_uploaded")
	ErrTooManyFiles       = errors.New("too_many_files")
	ErrNotEditable        = errors.New("invoice_not_editable")
	ErrNotSubmittable     = errors.New("invoice_not_submittable")
	ErrNotPendingApproval = errors.New("invoice_not_pending_approval")
	ErrDataRequired       = errors.New("customer_and_items_required")
	ErrReasonRequired     = errors.New("rejection_reason_required")
	ErrNotApproved        = errors.New("invoice_not_approved")
	ErrNoItems            = errors.New("invoice_has_no_items")
	ErrCustomerConflict   = errors.New("customer_phone_conflict")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrOCRUnavailable     = errors.New("ocr_service_unavailable")
)

// ItemName picks the catalog name for a draft line, falling back to the
// description when extraction produced no name.
func ItemName(item stagingdomain.ItemData) string {
	if name := strings.TrimSpace(item.Name); name != "" {
		return name
	}
	return strings.TrimSpace(item.Description)
}
