package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Entry struct {
	InvoiceID *snowflake.ID
	UserID    snowflake.ID
	Action    string
	Details   map[string]any
}

type ListRequest struct {
	UserID  string
	Action  string
	StartAt *time.Time
	EndAt   *time.Time
	Limit   int
}

type Service interface {
	// Record appends an event. Failures are logged and swallowed; audit
	// writes never roll back the operation they describe.
	Record(ctx context.Context, entry Entry)
	ListForInvoice(ctx context.Context, invoiceID snowflake.ID) ([]EventWithActor, error)
	List(ctx context.Context, req ListRequest) ([]EventWithActor, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, event *Event) error
	ListForInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]EventWithActor, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]EventWithActor, error)
	// DetachInvoice nulls invoice references without deleting events.
	DetachInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error
}

type ListFilter struct {
	UserID  snowflake.ID
	Action  string
	StartAt *time.Time
	EndAt   *time.Time
	Limit   int
}

var (
	ErrInvalidAction    = errors.New("invalid_action")
	ErrInvalidUserID    = errors.New("invalid_user_id")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
)
