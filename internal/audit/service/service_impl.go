package service

import (
	"context"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Record(ctx context.Context, entry domain.Entry) {
	details := datatypes.JSONMap{}
	for k, v := range entry.Details {
		details[k] = v
	}
	event := &domain.Event{
		ID:        s.genID.Generate(),
		InvoiceID: entry.InvoiceID,
		UserID:    entry.UserID,
		Action:    entry.Action,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, event); err != nil {
		s.log.Warn("failed to write audit log",
			zap.String("action", entry.Action),
			zap.Int64("user_id", entry.UserID.Int64()),
			zap.Error(err),
		)
	}
}

func (s *service) ListForInvoice(ctx context.Context, invoiceID snowflake.ID) ([]domain.EventWithActor, error) {
	return s.repo.ListForInvoice(ctx, s.db, invoiceID)
}

func (s *service) List(ctx context.Context, req domain.ListRequest) ([]domain.EventWithActor, error) {
	filter := domain.ListFilter{
		Action:  req.Action,
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
		Limit:   req.Limit,
	}
	if req.UserID != "" {
		id, err := strconv.ParseInt(req.UserID, 10, 64)
		if err != nil {
			return nil, domain.ErrInvalidUserID
		}
		filter.UserID = snowflake.ParseInt64(id)
	}
	if req.StartAt != nil && req.EndAt != nil && req.EndAt.Before(*req.StartAt) {
		return nil, domain.ErrInvalidTimeRange
	}
	return s.repo.List(ctx, s.db, filter)
}
