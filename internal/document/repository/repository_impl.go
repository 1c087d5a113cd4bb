package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/document/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, doc *domain.Document) error
	FindByDocumentID(ctx context.Context, db *gorm.DB, documentID string) (*domain.Document, error)
	ListByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.Meta, error)
	DeleteByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, doc *domain.Document) error {
	return conn.WithContext(ctx).Create(doc).Error
}

func (r *repo) FindByDocumentID(ctx context.Context, conn *gorm.DB, documentID string) (*domain.Document, error) {
	var doc domain.Document
	err := conn.WithContext(ctx).
		Where("document_id = ?", documentID).
		Take(&doc).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *repo) ListByInvoice(ctx context.Context, conn *gorm.DB, invoiceID snowflake.ID) ([]domain.Meta, error) {
	var metas []domain.Meta
	err := conn.WithContext(ctx).
		Model(&domain.Document{}).
		Select("document_id", "document_type", "file_name", "content_type", "position", "created_at").
		Where("invoice_id = ?", invoiceID).
		Order("position ASC, created_at ASC").
		Scan(&metas).Error
	if err != nil {
		return nil, err
	}
	return metas, nil
}

func (r *repo) DeleteByInvoice(ctx context.Context, conn *gorm.DB, invoiceID snowflake.ID) error {
	return conn.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&domain.Document{}).Error
}
