package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/product/domain"
	"github.com/saralbooks/saralbooks/pkg/db"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Fixed scores for the substring fallback when trigram search is
// unavailable: exact lowercase match, prefix, substring.
const (
	fallbackScoreExact     = 1.0
	fallbackScorePrefix    = 0.8
	fallbackScoreSubstring = 0.5
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, product *domain.Product) error {
	return conn.WithContext(ctx).Create(product).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := conn.WithContext(ctx).Where("id = ?", id).Take(&product).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repo) FindByExactName(ctx context.Context, conn *gorm.DB, name string) (*domain.Product, error) {
	var product domain.Product
	err := conn.WithContext(ctx).Where("name = ?", name).Take(&product).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repo) Suggest(ctx context.Context, conn *gorm.DB, name string, threshold float64, limit int) ([]domain.ScoredProduct, error) {
	if db.IsTrigramCapable(conn) {
		return r.suggestTrigram(ctx, conn, name, threshold, limit)
	}
	return r.suggestFallback(ctx, conn, name, threshold, limit)
}

func (r *repo) suggestTrigram(ctx context.Context, conn *gorm.DB, name string, threshold float64, limit int) ([]domain.ScoredProduct, error) {
	var rows []struct {
		ID            snowflake.ID
		Name          string
		SKU           string `gorm:"column:sku"`
		HSN           string `gorm:"column:hsn"`
		StandardPrice decimal.Decimal
		Similarity    float64
	}
	err := conn.WithContext(ctx).Raw(
		`SELECT id, name, sku, hsn, standard_price, similarity(name, ?) AS similarity
		 FROM products
		 WHERE similarity(name, ?) > ?
		 ORDER BY similarity DESC
		 LIMIT ?`,
		name, name, threshold, limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]domain.ScoredProduct, 0, len(rows))
	for _, row := range rows {
		scored = append(scored, domain.ScoredProduct{
			Product: domain.Product{
				ID:            row.ID,
				Name:          row.Name,
				SKU:           row.SKU,
				HSN:           row.HSN,
				StandardPrice: row.StandardPrice,
			},
			Similarity: row.Similarity,
		})
	}
	return scored, nil
}

func (r *repo) suggestFallback(ctx context.Context, conn *gorm.DB, name string, threshold float64, limit int) ([]domain.ScoredProduct, error) {
	var products []domain.Product
	if err := conn.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	scored := make([]domain.ScoredProduct, 0, len(products))
	for _, product := range products {
		haystack := strings.ToLower(product.Name)
		var score float64
		switch {
		case haystack == needle:
			score = fallbackScoreExact
		case strings.HasPrefix(haystack, needle):
			score = fallbackScorePrefix
		case strings.Contains(haystack, needle):
			score = fallbackScoreSubstring
		default:
			continue
		}
		if score <= threshold {
			continue
		}
		scored = append(scored, domain.ScoredProduct{Product: product, Similarity: score})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Similarity > scored[j].Similarity })
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *repo) ListWithStats(ctx context.Context, conn *gorm.DB) ([]domain.ProductWithStats, error) {
	var products []domain.Product
	if err := conn.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}

	out := make([]domain.ProductWithStats, 0, len(products))
	for _, product := range products {
		var stats struct {
			TimesSold     int64
			TotalQuantity decimal.Decimal
			TotalRevenue  decimal.Decimal
		}
		err := conn.WithContext(ctx).Raw(
			`SELECT COUNT(DISTINCT ii.invoice_id) AS times_sold,
			        COALESCE(SUM(ii.quantity), 0) AS total_quantity,
			        COALESCE(SUM(ii.line_total), 0) AS total_revenue
			 FROM invoice_items ii
			 JOIN invoices i ON i.id = ii.invoice_id
			 WHERE ii.product_id = ? AND i.status = 'APPROVED'`,
			product.ID,
		).Scan(&stats).Error
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ProductWithStats{
			Product: product,
			SalesStats: domain.SalesStats{
				TimesSold:     stats.TimesSold,
				TotalQuantity: stats.TotalQuantity,
				TotalRevenue:  stats.TotalRevenue,
			},
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalRevenue.GreaterThan(out[j].TotalRevenue)
	})
	return out, nil
}
