// Package domain defines the insights read models: aggregate KPIs over
// approved invoices, memoized under prefixed cache keys so lifecycle
// transitions can sweep them wholesale.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Cache key prefixes. Every lifecycle transition invalidates all of them;
// coarse, but aggregates are cheap to recompute and never served stale.
const (
	PrefixKPI           = "kpi_"
	PrefixYearlyRevenue = "yearly_revenue_"
	PrefixStatus        = "status_"
	PrefixTopRevenue    = "top_revenue_"
)

// CachePrefixes lists every analytics prefix for invalidation sweeps.
func CachePrefixes() []string {
	return []string{PrefixKPI, PrefixYearlyRevenue, PrefixStatus, PrefixTopRevenue}
}

// KPIs are the headline aggregates for a date range.
type KPIs struct {
	TotalInvoices   int64           `json:"total_invoices"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	UniqueCustomers int64           `json:"unique_customers"`
	TotalItemsSold  decimal.Decimal `json:"total_items_sold"`
}

// MonthRevenue is one bar of the yearly revenue chart.
type MonthRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopCustomer is one leaderboard row.
type TopCustomer struct {
	ID    snowflake.ID    `json:"id"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Count int64           `json:"count"`
}

// StatusDistribution feeds the status donut. It counts every status in
// range, including the REJECTED display value.
type StatusDistribution struct {
	Approved        int64 `json:"approved"`
	PendingReview   int64 `json:"pending_review"`
	PendingApproval int64 `json:"pending_approval"`
	Rejected        int64 `json:"rejected"`
}

// DateRange is the resolved reporting window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Request selects the reporting window. StartDate/EndDate take precedence;
// PresetDays counts back from today (0 means all time); default is the
// last 30 days. Year selects the yearly revenue chart.
type Request struct {
	StartDate  string
	EndDate    string
	PresetDays *int
	Year       int
}

// Report is the full insights payload.
type Report struct {
	KPIs               KPIs               `json:"kpis"`
	YearlyRevenue      []MonthRevenue     `json:"yearlyRevenue"`
	TopCustomers       []TopCustomer      `json:"topCustomersByRevenue"`
	StatusDistribution StatusDistribution `json:"statusDistribution"`
	DateRange          DateRange          `json:"dateRange"`
	Year               int                `json:"year"`
}

type Service interface {
	Report(ctx context.Context, req Request) (*Report, error)
	// InvalidateAll sweeps every analytics cache prefix. Called on each
	// invoice lifecycle transition.
	InvalidateAll(ctx context.Context) int
}

var ErrInvalidDateRange = errors.New("invalid_date_range")
