package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/saralbooks/saralbooks/internal/audit/domain"
	"github.com/saralbooks/saralbooks/internal/audit/repository"
	"github.com/saralbooks/saralbooks/internal/audit/service"
	"github.com/saralbooks/saralbooks/internal/migration"
	userdomain "github.com/saralbooks/saralbooks/internal/user/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type failingRepo struct {
	domain.Repository
}

func (failingRepo) Insert(context.Context, *gorm.DB, *domain.Event) error {
	return errors.New("disk full")
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, migration.Run(conn))
	return conn
}

func newTestService(t *testing.T, repo domain.Repository) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn := setupTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := service.New(service.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repo,
	})
	return svc, conn, node
}

func seedUser(t *testing.T, conn *gorm.DB, node *snowflake.Node, name string) snowflake.ID {
	t.Helper()

	id := node.Generate()
	require.NoError(t, conn.Create(&userdomain.User{
		ID:     id,
		Name:   name,
		Email:  fmt.Sprintf("%s@example.com", id),
		Role:   "STAFF",
		Status: userdomain.UserStatusActive,
	}).Error)
	return id
}

func TestRecordAndListForInvoice(t *testing.T) {
	svc, conn, node := newTestService(t, repository.Provide())
	userID := seedUser(t, conn, node, "Asha")
	invoiceID := node.Generate()

	svc.Record(context.Background(), domain.Entry{
		InvoiceID: &invoiceID,
		UserID:    userID,
		Action:    domain.ActionInvoiceUploaded,
		Details:   map[string]any{"file_count": 2},
	})

	events, err := svc.ListForInvoice(context.Background(), invoiceID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActionInvoiceUploaded, events[0].Action)
	assert.Equal(t, userID, events[0].UserID)
	assert.Equal(t, "Asha", events[0].UserName)
	assert.EqualValues(t, 2, events[0].Details["file_count"])
}

func TestRecordSwallowsRepositoryFailure(t *testing.T) {
	svc, conn, node := newTestService(t, failingRepo{})
	userID := seedUser(t, conn, node, "Asha")

	// Must not panic or surface the error to the caller.
	svc.Record(context.Background(), domain.Entry{
		UserID: userID,
		Action: domain.ActionInvoiceDeleted,
	})

	var count int64
	require.NoError(t, conn.Model(&domain.Event{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListFilters(t *testing.T) {
	svc, conn, node := newTestService(t, repository.Provide())
	asha := seedUser(t, conn, node, "Asha")
	ravi := seedUser(t, conn, node, "Ravi")

	svc.Record(context.Background(), domain.Entry{UserID: asha, Action: domain.ActionInvoiceUploaded})
	svc.Record(context.Background(), domain.Entry{UserID: asha, Action: domain.ActionInvoiceSubmitted})
	svc.Record(context.Background(), domain.Entry{UserID: ravi, Action: domain.ActionInvoiceApproved})

	all, err := svc.List(context.Background(), domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byUser, err := svc.List(context.Background(), domain.ListRequest{UserID: fmt.Sprint(asha.Int64())})
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	for _, event := range byUser {
		assert.Equal(t, asha, event.UserID)
	}

	byAction, err := svc.List(context.Background(), domain.ListRequest{Action: domain.ActionInvoiceApproved})
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	assert.Equal(t, "Ravi", byAction[0].UserName)

	limited, err := svc.List(context.Background(), domain.ListRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService(t, repository.Provide())

	_, err := svc.List(context.Background(), domain.ListRequest{UserID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidUserID)

	start := time.Now().UTC()
	end := start.Add(-time.Hour)
	_, err = svc.List(context.Background(), domain.ListRequest{StartAt: &start, EndAt: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}
