// Package domain contains the append-only audit trail models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Actions recorded by the workflow.
const (
	ActionInvoiceUploaded  = "INVOICE_UPLOADED"
	ActionInvoiceReviewed  = "INVOICE_REVIEWED"
	ActionInvoiceSubmitted = "INVOICE_SUBMITTED"
	ActionInvoiceApproved  = "INVOICE_APPROVED"
	ActionInvoiceRejected  = "INVOICE_REJECTED"
	ActionInvoiceDeleted   = "INVOICE_DELETED"
	ActionDuplicateIgnored = "DUPLICATE_IGNORED"
	ActionPDFGenerated     = "PDF_GENERATED"
)

// Event is one immutable audit row. When the referenced invoice is
// deleted the reference is nulled; the row itself survives.
type Event struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	InvoiceID *snowflake.ID     `gorm:"index" json:"invoice_id,omitempty"`
	UserID    snowflake.ID      `gorm:"not null;index" json:"user_id"`
	Action    string            `gorm:"not null;index" json:"action"`
	Details   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"details"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Event) TableName() string { return "audit_log" }

// EventWithActor joins the actor name for listings.
type EventWithActor struct {
	Event
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}
