// Package domain contains persistence models for deduplicated customers.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Customer represents a deduplicated counterparty. Phone is the dedup key,
// stored in canonical 10-digit form; at most one row per normalized number.
type Customer struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Phone     string       `gorm:"uniqueIndex;not null" json:"phone"`
	Email     string       `json:"email,omitempty"`
	GSTIN     string       `gorm:"column:gstin" json:"gstin,omitempty"`
	Address   string       `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

// Stats are purchase aggregates computed via join at query time,
// never cached per customer.
type Stats struct {
	InvoiceCount  int64           `json:"invoice_count"`
	LifetimeValue decimal.Decimal `json:"lifetime_value"`
	LastPurchase  *time.Time      `json:"last_purchase,omitempty"`
}

// CustomerWithStats pairs a customer with its aggregates.
type CustomerWithStats struct {
	Customer
	Stats
}

// ScoredCustomer is a fuzzy-name suggestion. Suggestions are advisory
// only; linking one requires an explicit human action.
type ScoredCustomer struct {
	CustomerWithStats
	Similarity float64 `json:"similarity"`
}
