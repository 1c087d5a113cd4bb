// Package domain contains persistence models for the product catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Product is a deduplicated catalog entity. The dedup key is the exact
// case-sensitive name; the first-seen unit price seeds the standard price.
type Product struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"uniqueIndex;not null" json:"name"`
	SKU           string          `gorm:"column:sku" json:"sku,omitempty"`
	HSN           string          `gorm:"column:hsn" json:"hsn,omitempty"`
	StandardPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"standard_price"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }

// ScoredProduct is an advisory pre-submission suggestion.
type ScoredProduct struct {
	Product
	Similarity float64 `json:"similarity"`
}

// SalesStats are aggregates over approved invoices.
type SalesStats struct {
	TimesSold     int64           `json:"times_sold"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// ProductWithStats pairs a product with its sales aggregates.
type ProductWithStats struct {
	Product
	SalesStats
}
