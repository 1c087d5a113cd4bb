package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/saralbooks/saralbooks/internal/analytics/domain"
	"github.com/saralbooks/saralbooks/internal/cache"
	"github.com/saralbooks/saralbooks/internal/config"
	"github.com/saralbooks/saralbooks/pkg/dates"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultWindowDays = 30

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Config config.Config
	Cache  cache.Store
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	cache     cache.Store
	ttl       time.Duration
	yearlyTTL time.Duration
}

func New(p Params) domain.Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("analytics.service"),
		cache:     p.Cache,
		ttl:       p.Config.CacheTTL,
		yearlyTTL: p.Config.CacheYearlyTTL,
	}
}

func (s *service) Report(ctx context.Context, req domain.Request) (*domain.Report, error) {
	start, end, err := resolveRange(req)
	if err != nil {
		return nil, err
	}
	year := req.Year
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	report := &domain.Report{
		DateRange: domain.DateRange{Start: start, End: end},
		Year:      year,
	}
	rangeKey := dates.Format(start) + "_" + dates.Format(end)

	if err := s.cached(ctx, domain.PrefixKPI+rangeKey, s.ttl, &report.KPIs, func() (any, error) {
		return s.queryKPIs(ctx, start, end)
	}); err != nil {
		return nil, err
	}
	if err := s.cached(ctx, fmt.Sprintf("%s%d", domain.PrefixYearlyRevenue, year), s.yearlyTTL, &report.YearlyRevenue, func() (any, error) {
		return s.queryYearlyRevenue(ctx, year)
	}); err != nil {
		return nil, err
	}
	if err := s.cached(ctx, domain.PrefixTopRevenue+rangeKey, s.ttl, &report.TopCustomers, func() (any, error) {
		return s.queryTopCustomers(ctx, start, end)
	}); err != nil {
		return nil, err
	}
	if err := s.cached(ctx, domain.PrefixStatus+rangeKey, s.ttl, &report.StatusDistribution, func() (any, error) {
		return s.queryStatusDistribution(ctx, start, end)
	}); err != nil {
		return nil, err
	}

	return report, nil
}

func (s *service) InvalidateAll(ctx context.Context) int {
	n := s.cache.Invalidate(ctx, domain.CachePrefixes()...)
	if n > 0 {
		s.log.Debug("analytics cache invalidated", zap.Int("entries", n))
	}
	return n
}

// cached fills dst from the cache when possible, otherwise computes,
// stores and decodes the fresh value. Cache errors degrade to computing.
func (s *service) cached(ctx context.Context, key string, ttl time.Duration, dst any, compute func() (any, error)) error {
	if raw, ok := s.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(raw, dst); err == nil {
			return nil
		}
		s.log.Warn("discarding undecodable cache entry", zap.String("key", key))
	}
	value, err := compute()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.cache.Set(ctx, key, raw, ttl)
	return json.Unmarshal(raw, dst)
}

func resolveRange(req domain.Request) (time.Time, time.Time, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	if req.StartDate != "" || req.EndDate != "" {
		start, okStart := dates.Normalize(req.StartDate)
		end, okEnd := dates.Normalize(req.EndDate)
		if !okStart || !okEnd || end.Before(start) {
			return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
		}
		return start, end, nil
	}
	if req.PresetDays != nil {
		if *req.PresetDays == 0 {
			return time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), today, nil
		}
		if *req.PresetDays < 0 {
			return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
		}
		return today.AddDate(0, 0, -*req.PresetDays), today, nil
	}
	return today.AddDate(0, 0, -defaultWindowDays), today, nil
}

func (s *service) queryKPIs(ctx context.Context, start, end time.Time) (domain.KPIs, error) {
	var kpis domain.KPIs
	err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(id) AS total_invoices,
		        COALESCE(SUM(total_amount), 0) AS total_revenue,
		        COUNT(DISTINCT customer_id) AS unique_customers
		 FROM invoices
		 WHERE status = 'APPROVED' AND invoice_date BETWEEN ? AND ?`,
		start, end,
	).Scan(&kpis).Error
	if err != nil {
		return domain.KPIs{}, err
	}
	err = s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(ii.quantity), 0)
		 FROM invoice_items ii
		 JOIN invoices i ON i.id = ii.invoice_id
		 WHERE i.status = 'APPROVED' AND i.invoice_date BETWEEN ? AND ?`,
		start, end,
	).Scan(&kpis.TotalItemsSold).Error
	if err != nil {
		return domain.KPIs{}, err
	}
	return kpis, nil
}

// queryYearlyRevenue aggregates per month in Go; month extraction in SQL
// is not portable across the supported dialects.
func (s *service) queryYearlyRevenue(ctx context.Context, year int) ([]domain.MonthRevenue, error) {
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	var rows []struct {
		InvoiceDate time.Time
		TotalAmount decimal.Decimal
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT invoice_date, total_amount
		 FROM invoices
		 WHERE status = 'APPROVED' AND invoice_date >= ? AND invoice_date < ?`,
		yearStart, yearEnd,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	months := make([]domain.MonthRevenue, 12)
	for i := range months {
		months[i] = domain.MonthRevenue{
			Month:   time.Month(i + 1).String()[:3],
			Revenue: decimal.Zero,
		}
	}
	for _, row := range rows {
		m := int(row.InvoiceDate.Month()) - 1
		months[m].Revenue = months[m].Revenue.Add(row.TotalAmount)
	}
	return months, nil
}

func (s *service) queryTopCustomers(ctx context.Context, start, end time.Time) ([]domain.TopCustomer, error) {
	var top []domain.TopCustomer
	err := s.db.WithContext(ctx).Raw(
		`SELECT c.id, c.name,
		        COALESCE(SUM(i.total_amount), 0) AS value,
		        COUNT(i.id) AS count
		 FROM customers c
		 JOIN invoices i ON i.customer_id = c.id
		 WHERE i.status = 'APPROVED' AND i.invoice_date BETWEEN ? AND ?
		 GROUP BY c.id, c.name
		 ORDER BY value DESC
		 LIMIT 5`,
		start, end,
	).Scan(&top).Error
	if err != nil {
		return nil, err
	}
	return top, nil
}

func (s *service) queryStatusDistribution(ctx context.Context, start, end time.Time) (domain.StatusDistribution, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT status, COUNT(*) AS count
		 FROM invoices
		 WHERE invoice_date BETWEEN ? AND ?
		 GROUP BY status`,
		start, end,
	).Scan(&rows).Error
	if err != nil {
		return domain.StatusDistribution{}, err
	}

	var dist domain.StatusDistribution
	for _, row := range rows {
		switch row.Status {
		case "APPROVED":
			dist.Approved = row.Count
		case "PENDING_REVIEW":
			dist.PendingReview = row.Count
		case "PENDING_APPROVAL":
			dist.PendingApproval = row.Count
		case "REJECTED":
			dist.Rejected = row.Count
		}
	}
	return dist, nil
}
