package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/saralbooks/saralbooks/internal/analytics/domain"
	"github.com/saralbooks/saralbooks/internal/analytics/service"
	"github.com/saralbooks/saralbooks/internal/cache"
	"github.com/saralbooks/saralbooks/internal/config"
	customerdomain "github.com/saralbooks/saralbooks/internal/customer/domain"
	invoicedomain "github.com/saralbooks/saralbooks/internal/invoice/domain"
	"github.com/saralbooks/saralbooks/internal/migration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	svc   domain.Service
	conn  *gorm.DB
	node  *snowflake.Node
	store *cache.MemoryStore
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, migration.Run(conn))

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	store := cache.NewMemoryStore()
	svc := service.New(service.Params{
		DB:     conn,
		Log:    zap.NewNop(),
		Config: config.Config{CacheTTL: 5 * time.Minute, CacheYearlyTTL: 10 * time.Minute},
		Cache:  store,
	})
	return &env{svc: svc, conn: conn, node: node, store: store}
}

func (e *env) seedCustomer(t *testing.T, name, phone string) snowflake.ID {
	t.Helper()

	customer := customerdomain.Customer{ID: e.node.Generate(), Name: name, Phone: phone}
	require.NoError(t, e.conn.Create(&customer).Error)
	return customer.ID
}

func (e *env) seedInvoice(t *testing.T, customerID *snowflake.ID, status invoicedomain.Status, date time.Time, amount string) snowflake.ID {
	t.Helper()

	invoice := invoicedomain.Invoice{
		ID:            e.node.Generate(),
		InvoiceNumber: fmt.Sprintf("INV-%d", e.node.Generate()),
		InvoiceDate:   &date,
		TotalAmount:   decimal.RequireFromString(amount),
		Currency:      "INR",
		Status:        status,
		CustomerID:    customerID,
		CreatedBy:     e.node.Generate(),
	}
	require.NoError(t, e.conn.Create(&invoice).Error)
	return invoice.ID
}

func (e *env) seedItem(t *testing.T, invoiceID snowflake.ID, qty string) {
	t.Helper()

	require.NoError(t, e.conn.Create(&invoicedomain.LineItem{
		ID:        e.node.Generate(),
		InvoiceID: invoiceID,
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString("10"),
		LineTotal: decimal.RequireFromString("10").Mul(decimal.RequireFromString(qty)),
		Position:  1,
	}).Error)
}

func TestReportKPIs(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	sharma := e.seedCustomer(t, "Sharma Traders", "9876543210")
	gupta := e.seedCustomer(t, "Gupta Stores", "9123456780")

	aug := time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)
	inv1 := e.seedInvoice(t, &sharma, invoicedomain.StatusApproved, aug, "1000")
	inv2 := e.seedInvoice(t, &gupta, invoicedomain.StatusApproved, aug.AddDate(0, 0, 5), "500")
	e.seedItem(t, inv1, "10")
	e.seedItem(t, inv2, "4")

	// outside the window and non-approved rows are excluded from KPIs
	e.seedInvoice(t, &sharma, invoicedomain.StatusApproved, aug.AddDate(0, -2, 0), "9999")
	e.seedInvoice(t, &sharma, invoicedomain.StatusPendingApproval, aug, "777")

	report, err := e.svc.Report(ctx, domain.Request{
		StartDate: "2025-08-01",
		EndDate:   "2025-08-31",
		Year:      2025,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.KPIs.TotalInvoices)
	assert.True(t, report.KPIs.TotalRevenue.Equal(decimal.RequireFromString("1500")))
	assert.Equal(t, int64(2), report.KPIs.UniqueCustomers)
	assert.True(t, report.KPIs.TotalItemsSold.Equal(decimal.RequireFromString("14")))

	assert.Equal(t, "2025-08-01", report.DateRange.Start.Format("2006-01-02"))
	assert.Equal(t, "2025-08-31", report.DateRange.End.Format("2006-01-02"))
}

func TestReportYearlyRevenue(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	sharma := e.seedCustomer(t, "Sharma Traders", "9876543210")
	e.seedInvoice(t, &sharma, invoicedomain.StatusApproved, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), "100")
	e.seedInvoice(t, &sharma, invoicedomain.StatusApproved, time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC), "200")
	e.seedInvoice(t, &sharma, invoicedomain.StatusApproved, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), "50")
	e.seedInvoice(t, &sharma, invoicedomain.StatusApproved, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), "999")

	report, err := e.svc.Report(ctx, domain.Request{
		StartDate: "2025-01-01",
		EndDate:   "2025-12-31",
		Year:      2025,
	})
	require.NoError(t, err)

	require.Len(t, report.YearlyRevenue, 12)
	assert.Equal(t, "Mar", report.YearlyRevenue[2].Month)
	assert.True(t, report.YearlyRevenue[2].Revenue.Equal(decimal.RequireFromString("300")))
	assert.True(t, report.YearlyRevenue[10].Revenue.Equal(decimal.RequireFromString("50")))
	assert.True(t, report.YearlyRevenue[0].Revenue.IsZero())
}

func TestReportTopCustomersAndStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	sharma := e.seedCustomer(t, "Sharma Traders", "9876543210")
	gupta := e.seedCustomer(t, "Gupta Stores", "9123456780")

	aug := time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)
	e.seedInvoice(t, &gupta, invoicedomain.StatusApproved, aug, "5000")
	e.seedInvoice(t, &sharma, invoicedomain.StatusApproved, aug, "1000")
	e.seedInvoice(t, &sharma, invoicedomain.StatusPendingReview, aug, "300")

	report, err := e.svc.Report(ctx, domain.Request{
		StartDate: "2025-08-01",
		EndDate:   "2025-08-31",
		Year:      2025,
	})
	require.NoError(t, err)

	require.Len(t, report.TopCustomers, 2)
	assert.Equal(t, "Gupta Stores", report.TopCustomers[0].Name)
	assert.True(t, report.TopCustomers[0].Value.Equal(decimal.RequireFromString("5000")))

	assert.Equal(t, int64(2), report.StatusDistribution.Approved)
	assert.Equal(t, int64(1), report.StatusDistribution.PendingReview)
}

func TestReportInvalidRange(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Report(context.Background(), domain.Request{
		StartDate: "2025-08-31",
		EndDate:   "2025-08-01",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	_, err = e.svc.Report(context.Background(), domain.Request{
		StartDate: "garbage",
		EndDate:   "2025-08-01",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestReportServesFromCacheUntilInvalidated(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	sharma := e.seedCustomer(t, "Sharma Traders", "9876543210")
	aug := time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)
	e.seedInvoice(t, &sharma, invoicedomain.StatusApproved, aug, "1000")

	req := domain.Request{StartDate: "2025-08-01", EndDate: "2025-08-31", Year: 2025}

	first, err := e.svc.Report(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.KPIs.TotalInvoices)

	// new data is invisible while the cache entry lives
	e.seedInvoice(t, &sharma, invoicedomain.StatusApproved, aug, "2000")
	stale, err := e.svc.Report(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stale.KPIs.TotalInvoices)

	swept := e.svc.InvalidateAll(ctx)
	assert.Greater(t, swept, 0)

	fresh, err := e.svc.Report(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.KPIs.TotalInvoices)
}
