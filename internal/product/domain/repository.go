package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	// FindByExactName is the approval-time resolution: a case-sensitive
	// name lookup, intentionally stricter than the fuzzy suggestions.
	FindByExactName(ctx context.Context, db *gorm.DB, name string) (*Product, error)
	Suggest(ctx context.Context, db *gorm.DB, name string, threshold float64, limit int) ([]ScoredProduct, error)
	ListWithStats(ctx context.Context, db *gorm.DB) ([]ProductWithStats, error)
}
