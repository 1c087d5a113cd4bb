package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, doc *ReviewDocument) error
	FindByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (*ReviewDocument, error)
	DeleteByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error
}
