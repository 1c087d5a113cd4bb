package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/staging/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, conn *gorm.DB, doc *domain.ReviewDocument) error {
	existing, err := r.FindByInvoice(ctx, conn, doc.InvoiceID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if existing == nil {
		doc.CreatedAt = now
		doc.UpdatedAt = now
		return conn.WithContext(ctx).Create(doc).Error
	}

	updates := map[string]any{
		"payload":            doc.Payload,
		"linked_customer_id": doc.LinkedCustomerID,
		"updated_at":         now,
	}
	if len(doc.RawOCR) > 0 {
		updates["raw_ocr"] = doc.RawOCR
	}
	return conn.WithContext(ctx).
		Model(&domain.ReviewDocument{}).
		Where("invoice_id = ?", doc.InvoiceID).
		Updates(updates).Error
}

func (r *repo) FindByInvoice(ctx context.Context, conn *gorm.DB, invoiceID snowflake.ID) (*domain.ReviewDocument, error) {
	var doc domain.ReviewDocument
	err := conn.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Take(&doc).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *repo) DeleteByInvoice(ctx context.Context, conn *gorm.DB, invoiceID snowflake.ID) error {
	return conn.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&domain.ReviewDocument{}).Error
}
