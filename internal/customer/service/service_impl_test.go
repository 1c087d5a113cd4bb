package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/saralbooks/saralbooks/internal/customer/domain"
	"github.com/saralbooks/saralbooks/internal/customer/repository"
	"github.com/saralbooks/saralbooks/internal/customer/service"
	"github.com/saralbooks/saralbooks/internal/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, migration.Run(conn))
	return conn
}

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn := setupTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := service.New(service.Params{
		DB:   conn,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return svc, conn, node
}

func seedCustomer(t *testing.T, conn *gorm.DB, node *snowflake.Node, name, phone string) domain.Customer {
	t.Helper()

	customer := domain.Customer{
		ID:    node.Generate(),
		Name:  name,
		Phone: phone,
	}
	require.NoError(t, conn.Create(&customer).Error)
	return customer
}

func TestMatchPhoneShortCircuitsName(t *testing.T) {
	ctx := context.Background()
	svc, conn, node := newTestService(t)

	sharma := seedCustomer(t, conn, node, "Sharma Traders", "9876543210")
	seedCustomer(t, conn, node, "Completely Different Name", "9123456780")

	result, err := svc.Match(ctx, domain.MatchRequest{
		Name:  "Completely Different Name",
		Phone: "+91-98765 43210",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MatchTypeExact, result.MatchType)
	assert.Equal(t, domain.ConfidenceHigh, result.Confidence)
	require.NotNil(t, result.Customer)
	assert.Equal(t, sharma.ID, result.Customer.ID)
	assert.Empty(t, result.Suggestions)
}

func TestMatchFallsBackToNameOnBadPhone(t *testing.T) {
	ctx := context.Background()
	svc, conn, node := newTestService(t)

	sharma := seedCustomer(t, conn, node, "Sharma Traders", "9876543210")

	result, err := svc.Match(ctx, domain.MatchRequest{
		Name:  "Sharma Traders",
		Phone: "12345",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MatchTypeFuzzy, result.MatchType)
	assert.Equal(t, domain.ConfidenceMedium, result.Confidence)
	require.NotEmpty(t, result.Suggestions)
	assert.Equal(t, sharma.ID, result.Suggestions[0].ID)
	assert.Nil(t, result.Customer)
}

func TestMatchUnknownPhoneWithSimilarName(t *testing.T) {
	ctx := context.Background()
	svc, conn, node := newTestService(t)

	sharma := seedCustomer(t, conn, node, "Sharma Traders", "9876543210")

	result, err := svc.Match(ctx, domain.MatchRequest{
		Name:  "Sharma Trader",
		Phone: "9000000001",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MatchTypeFuzzy, result.MatchType)
	require.NotEmpty(t, result.Suggestions)
	assert.Equal(t, sharma.ID, result.Suggestions[0].ID)
	assert.Greater(t, result.Suggestions[0].Similarity, 0.5)
}

func TestMatchNothing(t *testing.T) {
	ctx := context.Background()
	svc, conn, node := newTestService(t)

	seedCustomer(t, conn, node, "Sharma Traders", "9876543210")

	result, err := svc.Match(ctx, domain.MatchRequest{
		Name:  "Zyx Qwerty Industries",
		Phone: "",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MatchTypeNone, result.MatchType)
	assert.Equal(t, domain.ConfidenceNone, result.Confidence)
}

func TestMatchSkipsTooShortNames(t *testing.T) {
	ctx := context.Background()
	svc, conn, node := newTestService(t)

	seedCustomer(t, conn, node, "AB", "9876543210")

	result, err := svc.Match(ctx, domain.MatchRequest{Name: "AB"})
	require.NoError(t, err)
	assert.Equal(t, domain.MatchTypeNone, result.MatchType)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	svc, conn, node := newTestService(t)

	sharma := seedCustomer(t, conn, node, "Sharma Traders", "9876543210")

	got, err := svc.GetByID(ctx, domain.GetCustomerRequest{ID: sharma.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, sharma.Name, got.Name)
	assert.Equal(t, int64(0), got.InvoiceCount)

	_, err = svc.GetByID(ctx, domain.GetCustomerRequest{ID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(ctx, domain.GetCustomerRequest{ID: node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
