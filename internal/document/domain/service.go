package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type StoreRequest struct {
	InvoiceID    snowflake.ID
	DocumentType DocumentType
	FileName     string
	ContentType  string
	FileData     []byte
	Position     *int
	UploadedBy   snowflake.ID
}

// Service is the opaque store contract: store, list, fetch and
// delete-by-invoice, nothing content-aware.
type Service interface {
	Store(ctx context.Context, req StoreRequest) (string, error)
	ListByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]Meta, error)
	Fetch(ctx context.Context, documentID string) (*Document, error)
	DeleteByInvoice(ctx context.Context, invoiceID snowflake.ID) error
}

var ErrNotFound = errors.New("not_found")
