package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/saralbooks/saralbooks/internal/migration"
	"github.com/saralbooks/saralbooks/internal/product/domain"
	"github.com/saralbooks/saralbooks/internal/product/repository"
	"github.com/saralbooks/saralbooks/internal/product/service"
	"github.com/shopspring/decimal"
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
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	svc := service.New(service.Params{
		DB:   conn,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return svc, conn, node
}

func seedProduct(t *testing.T, conn *gorm.DB, node *snowflake.Node, name string, price string) domain.Product {
	t.Helper()

	product := domain.Product{
		ID:            node.Generate(),
		Name:          name,
		StandardPrice: decimal.RequireFromString(price),
	}
	require.NoError(t, conn.Create(&product).Error)
	return product
}

func TestSuggestScoresByMatchKind(t *testing.T) {
	ctx := context.Background()
	svc, conn, node := newTestService(t)

	exact := seedProduct(t, conn, node, "Steel Rod", "100.00")
	prefix := seedProduct(t, conn, node, "Steel Rod 12mm", "120.00")
	substring := seedProduct(t, conn, node, "Heavy Steel Rod TMT", "140.00")
	seedProduct(t, conn, node, "Cement Bag", "350.00")

	suggestions, err := svc.Suggest(ctx, domain.SuggestRequest{Name: "Steel Rod"})
	require.NoError(t, err)
	require.Len(t, suggestions, 3)

	assert.Equal(t, exact.ID, suggestions[0].ID)
	assert.Equal(t, 1.0, suggestions[0].Similarity)
	assert.Equal(t, prefix.ID, suggestions[1].ID)
	assert.Equal(t, 0.8, suggestions[1].Similarity)
	assert.Equal(t, substring.ID, suggestions[2].ID)
	assert.Equal(t, 0.5, suggestions[2].Similarity)
}

func TestSuggestCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc, conn, node := newTestService(t)

	rod := seedProduct(t, conn, node, "Steel Rod", "100.00")

	suggestions, err := svc.Suggest(ctx, domain.SuggestRequest{Name: "steel rod"})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, rod.ID, suggestions[0].ID)
	assert.Equal(t, 1.0, suggestions[0].Similarity)
}

func TestSuggestEmptyName(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	suggestions, err := svc.Suggest(ctx, domain.SuggestRequest{Name: "   "})
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSuggestNoMatch(t *testing.T) {
	ctx := context.Background()
	svc, conn, node := newTestService(t)

	seedProduct(t, conn, node, "Cement Bag", "350.00")

	suggestions, err := svc.Suggest(ctx, domain.SuggestRequest{Name: "Steel Rod"})
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	svc, conn, node := newTestService(t)

	rod := seedProduct(t, conn, node, "Steel Rod", "100.00")

	got, err := svc.GetByID(ctx, domain.GetProductRequest{ID: rod.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "Steel Rod", got.Name)

	_, err = svc.GetByID(ctx, domain.GetProductRequest{ID: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(ctx, domain.GetProductRequest{ID: node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
