package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	suggestionThreshold = 0.3
	maxSuggestions      = 5
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("product.service"),
		repo: p.Repo,
	}
}

func (s *Service) Suggest(ctx context.Context, req domain.SuggestRequest) ([]domain.ScoredProduct, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, nil
	}
	return s.repo.Suggest(ctx, s.db, name, suggestionThreshold, maxSuggestions)
}

func (s *Service) List(ctx context.Context) ([]domain.ProductWithStats, error) {
	return s.repo.ListWithStats(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, req domain.GetProductRequest) (domain.ProductWithStats, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.ProductWithStats{}, domain.ErrInvalidID
	}

	product, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.ProductWithStats{}, err
	}
	if product == nil {
		return domain.ProductWithStats{}, domain.ErrNotFound
	}

	listed, err := s.repo.ListWithStats(ctx, s.db)
	if err != nil {
		return domain.ProductWithStats{}, err
	}
	for _, item := range listed {
		if item.ID == product.ID {
			return item, nil
		}
	}
	return domain.ProductWithStats{Product: *product}, nil
}
