package repository

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/customer/domain"
	"github.com/saralbooks/saralbooks/pkg/db"
	"github.com/saralbooks/saralbooks/pkg/trigram"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, customer *domain.Customer) error {
	return conn.WithContext(ctx).Create(customer).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := conn.WithContext(ctx).
		Where("id = ?", id).
		Take(&customer).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repo) FindByPhone(ctx context.Context, conn *gorm.DB, phone string) (*domain.Customer, error) {
	var customer domain.Customer
	err := conn.WithContext(ctx).
		Where("phone = ?", phone).
		Take(&customer).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

type scoredRow struct {
	ID            snowflake.ID
	Name          string
	Phone         string
	Email         string
	GSTIN         string `gorm:"column:gstin"`
	Address       string
	CreatedAt     time.Time
	Similarity    float64
	InvoiceCount  int64
	LifetimeValue decimal.Decimal
	LastPurchase  *time.Time
}

func (row scoredRow) toScored() domain.ScoredCustomer {
	return domain.ScoredCustomer{
		CustomerWithStats: domain.CustomerWithStats{
			Customer: domain.Customer{
				ID:        row.ID,
				Name:      row.Name,
				Phone:     row.Phone,
				Email:     row.Email,
				GSTIN:     row.GSTIN,
				Address:   row.Address,
				CreatedAt: row.CreatedAt,
			},
			Stats: domain.Stats{
				InvoiceCount:  row.InvoiceCount,
				LifetimeValue: row.LifetimeValue,
				LastPurchase:  row.LastPurchase,
			},
		},
		Similarity: row.Similarity,
	}
}

func (r *repo) SearchByName(ctx context.Context, conn *gorm.DB, name string, threshold float64, limit int) ([]domain.ScoredCustomer, error) {
	if db.IsTrigramCapable(conn) {
		return r.searchTrigram(ctx, conn, name, threshold, limit)
	}
	return r.searchFallback(ctx, conn, name, threshold, limit)
}

func (r *repo) searchTrigram(ctx context.Context, conn *gorm.DB, name string, threshold float64, limit int) ([]domain.ScoredCustomer, error) {
	var rows []scoredRow
	err := conn.WithContext(ctx).Raw(
		`SELECT c.id, c.name, c.phone, c.email, c.gstin, c.address, c.created_at,
		        similarity(c.name, ?) AS similarity,
		        COUNT(i.id) AS invoice_count,
		        COALESCE(SUM(i.total_amount), 0) AS lifetime_value,
		        MAX(i.invoice_date) AS last_purchase
		 FROM customers c
		 LEFT JOIN invoices i ON i.customer_id = c.id AND i.status = 'APPROVED'
		 WHERE similarity(c.name, ?) > ?
		 GROUP BY c.id
		 ORDER BY similarity DESC
		 LIMIT ?`,
		name, name, threshold, limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]domain.ScoredCustomer, 0, len(rows))
	for _, row := range rows {
		scored = append(scored, row.toScored())
	}
	return scored, nil
}

func (r *repo) searchFallback(ctx context.Context, conn *gorm.DB, name string, threshold float64, limit int) ([]domain.ScoredCustomer, error) {
	var customers []domain.Customer
	if err := conn.WithContext(ctx).Find(&customers).Error; err != nil {
		return nil, err
	}

	scored := make([]domain.ScoredCustomer, 0, len(customers))
	for _, customer := range customers {
		sim := trigram.Similarity(customer.Name, name)
		if sim <= threshold {
			continue
		}
		scored = append(scored, domain.ScoredCustomer{
			CustomerWithStats: domain.CustomerWithStats{Customer: customer},
			Similarity:        sim,
		})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Similarity > scored[j].Similarity })
	if len(scored) > limit {
		scored = scored[:limit]
	}

	for i := range scored {
		stats, err := r.StatsFor(ctx, conn, scored[i].ID)
		if err != nil {
			return nil, err
		}
		scored[i].Stats = stats
	}
	return scored, nil
}

func (r *repo) StatsFor(ctx context.Context, conn *gorm.DB, id snowflake.ID) (domain.Stats, error) {
	var totals struct {
		InvoiceCount  int64
		LifetimeValue decimal.Decimal
	}
	err := conn.WithContext(ctx).Raw(
		`SELECT COUNT(id) AS invoice_count, COALESCE(SUM(total_amount), 0) AS lifetime_value
		 FROM invoices WHERE customer_id = ? AND status = 'APPROVED'`,
		id,
	).Scan(&totals).Error
	if err != nil {
		return domain.Stats{}, err
	}

	stats := domain.Stats{
		InvoiceCount:  totals.InvoiceCount,
		LifetimeValue: totals.LifetimeValue,
	}
	if totals.InvoiceCount == 0 {
		return stats, nil
	}

	var latest struct {
		InvoiceDate time.Time
	}
	err = conn.WithContext(ctx).
		Table("invoices").
		Select("invoice_date").
		Where("customer_id = ? AND status = ?", id, "APPROVED").
		Order("invoice_date DESC").
		Limit(1).
		Scan(&latest).Error
	if err != nil {
		return domain.Stats{}, err
	}
	if !latest.InvoiceDate.IsZero() {
		stats.LastPurchase = &latest.InvoiceDate
	}
	return stats, nil
}

func (r *repo) ListWithStats(ctx context.Context, conn *gorm.DB) ([]domain.CustomerWithStats, error) {
	var customers []domain.Customer
	if err := conn.WithContext(ctx).Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, err
	}

	out := make([]domain.CustomerWithStats, 0, len(customers))
	for _, customer := range customers {
		stats, err := r.StatsFor(ctx, conn, customer.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CustomerWithStats{Customer: customer, Stats: stats})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LifetimeValue.GreaterThan(out[j].LifetimeValue)
	})
	return out, nil
}
