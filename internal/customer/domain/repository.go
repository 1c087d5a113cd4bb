package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	FindByPhone(ctx context.Context, db *gorm.DB, phone string) (*Customer, error)
	SearchByName(ctx context.Context, db *gorm.DB, name string, threshold float64, limit int) ([]ScoredCustomer, error)
	StatsFor(ctx context.Context, db *gorm.DB, id snowflake.ID) (Stats, error)
	ListWithStats(ctx context.Context, db *gorm.DB) ([]CustomerWithStats, error)
}
