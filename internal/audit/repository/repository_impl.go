package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, event *domain.Event) error {
	return conn.WithContext(ctx).Create(event).Error
}

func (r *repo) ListForInvoice(ctx context.Context, conn *gorm.DB, invoiceID snowflake.ID) ([]domain.EventWithActor, error) {
	var events []domain.EventWithActor
	err := conn.WithContext(ctx).Raw(
		`SELECT al.id, al.invoice_id, al.user_id, al.action, al.details, al.created_at,
		        u.name AS user_name, u.email AS user_email
		 FROM audit_log al
		 JOIN users u ON u.id = al.user_id
		 WHERE al.invoice_id = ?
		 ORDER BY al.created_at DESC`,
		invoiceID,
	).Scan(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter) ([]domain.EventWithActor, error) {
	stmt := conn.WithContext(ctx).
		Table("audit_log AS al").
		Select("al.id, al.invoice_id, al.user_id, al.action, al.details, al.created_at, u.name AS user_name, u.email AS user_email").
		Joins("JOIN users u ON u.id = al.user_id")
	if filter.UserID != 0 {
		stmt = stmt.Where("al.user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		stmt = stmt.Where("al.action = ?", filter.Action)
	}
	if filter.StartAt != nil {
		stmt = stmt.Where("al.created_at >= ?", *filter.StartAt)
	}
	if filter.EndAt != nil {
		stmt = stmt.Where("al.created_at <= ?", *filter.EndAt)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}

	var events []domain.EventWithActor
	err := stmt.
		Order("al.created_at DESC").
		Limit(limit).
		Scan(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repo) DetachInvoice(ctx context.Context, conn *gorm.DB, invoiceID snowflake.ID) error {
	return conn.WithContext(ctx).
		Model(&domain.Event{}).
		Where("invoice_id = ?", invoiceID).
		Update("invoice_id", nil).Error
}
