package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListFilter narrows the invoice listing. A zero CreatedBy means no
// creator restriction.
type ListFilter struct {
	Status    Status
	Search    string
	DateFrom  *time.Time
	DateTo    *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	CreatedBy snowflake.ID
}

// DuplicateQuery describes the candidate being checked. Either the
// customer/amount/date triple or a non-empty invoice number must be
// present for a match to fire.
type DuplicateQuery struct {
	CustomerID    *snowflake.ID
	TotalAmount   *decimal.Decimal
	InvoiceDate   *time.Time
	InvoiceNumber string
	ExcludeID     snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	Save(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Summary, error)

	InsertItems(ctx context.Context, db *gorm.DB, items []LineItem) error
	DeleteItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error
	ItemsWithProducts(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]ItemWithProduct, error)

	FindDuplicates(ctx context.Context, db *gorm.DB, q DuplicateQuery) ([]Duplicate, error)
}
