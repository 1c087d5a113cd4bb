package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/invoice/domain"
	"gorm.io/gorm"
)

const duplicateLimit = 5

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, invoice *domain.Invoice) error {
	return conn.WithContext(ctx).Create(invoice).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := conn.WithContext(ctx).Where("id = ?", id).First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) Save(ctx context.Context, conn *gorm.DB, invoice *domain.Invoice) error {
	return conn.WithContext(ctx).Save(invoice).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) error {
	return conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Invoice{}).Error
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter) ([]domain.Summary, error) {
	stmt := conn.WithContext(ctx).
		Table("invoices AS i").
		Select(`i.id, i.invoice_number, i.invoice_date, i.total_amount, i.status,
			i.created_at, i.submitted_at, i.rejection_reason,
			i.generated_pdf_document_id, i.created_by,
			c.name AS customer_name, c.phone AS customer_phone,
			u.name AS created_by_name, s.name AS submitted_by_name`).
		Joins("LEFT JOIN customers c ON c.id = i.customer_id").
		Joins("LEFT JOIN users u ON u.id = i.created_by").
		Joins("LEFT JOIN users s ON s.id = i.submitted_by")

	if filter.Status != "" {
		stmt = stmt.Where("i.status = ?", filter.Status)
	}
	if filter.CreatedBy != 0 {
		stmt = stmt.Where("i.created_by = ?", filter.CreatedBy)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		stmt = stmt.Where("i.invoice_number LIKE ? OR c.name LIKE ?", pattern, pattern)
	}
	if filter.DateFrom != nil {
		stmt = stmt.Where("i.invoice_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		stmt = stmt.Where("i.invoice_date <= ?", *filter.DateTo)
	}
	if filter.MinAmount != nil {
		stmt = stmt.Where("i.total_amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		stmt = stmt.Where("i.total_amount <= ?", *filter.MaxAmount)
	}

	var summaries []domain.Summary
	if err := stmt.Order("i.created_at DESC").Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *repo) InsertItems(ctx context.Context, conn *gorm.DB, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	return conn.WithContext(ctx).Create(&items).Error
}

func (r *repo) DeleteItems(ctx context.Context, conn *gorm.DB, invoiceID snowflake.ID) error {
	return conn.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&domain.LineItem{}).Error
}

func (r *repo) ItemsWithProducts(ctx context.Context, conn *gorm.DB, invoiceID snowflake.ID) ([]domain.ItemWithProduct, error) {
	var items []domain.ItemWithProduct
	err := conn.WithContext(ctx).Raw(
		`SELECT ii.id, ii.invoice_id, ii.product_id, ii.description, ii.quantity,
		        ii.unit_price, ii.tax_percentage, ii.line_total, ii.position,
		        p.name AS product_name, p.sku AS product_sku
		 FROM invoice_items ii
		 LEFT JOIN products p ON p.id = ii.product_id
		 WHERE ii.invoice_id = ?
		 ORDER BY ii.position`,
		invoiceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindDuplicates flags likely re-uploads: same customer, same amount and a
// date within ±30 days, or the same non-empty invoice number. Day distance
// is computed by the caller from the returned dates.
func (r *repo) FindDuplicates(ctx context.Context, conn *gorm.DB, q domain.DuplicateQuery) ([]domain.Duplicate, error) {
	base := conn.WithContext(ctx).
		Table("invoices AS i").
		Select(`i.id, i.invoice_number, i.invoice_date, i.total_amount, i.status,
			c.name AS customer_name`).
		Joins("LEFT JOIN customers c ON c.id = i.customer_id").
		Where("i.status IN ?", []domain.Status{domain.StatusPendingApproval, domain.StatusApproved})

	if q.ExcludeID != 0 {
		base = base.Where("i.id <> ?", q.ExcludeID)
	}

	var conditions *gorm.DB
	if q.CustomerID != nil && q.TotalAmount != nil && q.InvoiceDate != nil {
		from := q.InvoiceDate.AddDate(0, 0, -30)
		to := q.InvoiceDate.AddDate(0, 0, 30)
		conditions = conn.Where(
			"i.customer_id = ? AND i.total_amount = ? AND i.invoice_date BETWEEN ? AND ?",
			*q.CustomerID, *q.TotalAmount, from, to,
		)
	}
	if q.InvoiceNumber != "" {
		numberCond := conn.Where("i.invoice_number = ?", q.InvoiceNumber)
		if conditions != nil {
			conditions = conditions.Or(numberCond)
		} else {
			conditions = numberCond
		}
	}
	if conditions == nil {
		return nil, nil
	}

	var duplicates []domain.Duplicate
	err := base.Where(conditions).
		Order("i.invoice_date DESC").
		Limit(duplicateLimit).
		Scan(&duplicates).Error
	if err != nil {
		return nil, err
	}
	return duplicates, nil
}
