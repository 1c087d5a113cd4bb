package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/customer/domain"
	"github.com/saralbooks/saralbooks/pkg/phone"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	nameSimilarityThreshold = 0.5
	mediumConfidenceCutoff  = 0.7
	maxSuggestions          = 5
	minNameLength           = 3
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
		log:  p.Log.Named("customer.service"),
		repo: p.Repo,
	}
}

// Match resolves a customer by phone (authoritative, short-circuits name
// matching) or surfaces fuzzy name suggestions. A failed phone
// normalization skips phone matching; it is not an error.
func (s *Service) Match(ctx context.Context, req domain.MatchRequest) (domain.MatchResult, error) {
	if canonical, ok := phone.Normalize(req.Phone); ok {
		existing, err := s.repo.FindByPhone(ctx, s.db, canonical)
		if err != nil {
			return domain.MatchResult{}, err
		}
		if existing != nil {
			stats, err := s.repo.StatsFor(ctx, s.db, existing.ID)
			if err != nil {
				return domain.MatchResult{}, err
			}
			return domain.MatchResult{
				MatchType:  domain.MatchTypeExact,
				Customer:   &domain.CustomerWithStats{Customer: *existing, Stats: stats},
				Confidence: domain.ConfidenceHigh,
			}, nil
		}
	}

	name := strings.TrimSpace(req.Name)
	if len(name) >= minNameLength {
		suggestions, err := s.repo.SearchByName(ctx, s.db, name, nameSimilarityThreshold, maxSuggestions)
		if err != nil {
			return domain.MatchResult{}, err
		}
		if len(suggestions) > 0 {
			confidence := domain.ConfidenceLow
			if suggestions[0].Similarity > mediumConfidenceCutoff {
				confidence = domain.ConfidenceMedium
			}
			return domain.MatchResult{
				MatchType:   domain.MatchTypeFuzzy,
				Suggestions: suggestions,
				Confidence:  confidence,
			}, nil
		}
	}

	return domain.MatchResult{
		MatchType:  domain.MatchTypeNone,
		Confidence: domain.ConfidenceNone,
	}, nil
}

func (s *Service) List(ctx context.Context) ([]domain.CustomerWithStats, error) {
	return s.repo.ListWithStats(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.CustomerWithStats, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.CustomerWithStats{}, domain.ErrInvalidID
	}

	customer, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.CustomerWithStats{}, err
	}
	if customer == nil {
		return domain.CustomerWithStats{}, domain.ErrNotFound
	}

	stats, err := s.repo.StatsFor(ctx, s.db, id)
	if err != nil {
		return domain.CustomerWithStats{}, err
	}
	return domain.CustomerWithStats{Customer: *customer, Stats: stats}, nil
}
