// Package migration brings the schema up to date on startup.
package migration

import (
	auditdomain "github.com/saralbooks/saralbooks/internal/audit/domain"
	customerdomain "github.com/saralbooks/saralbooks/internal/customer/domain"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	invoicedomain "github.com/saralbooks/saralbooks/internal/invoice/domain"
	productdomain "github.com/saralbooks/saralbooks/internal/product/domain"
	stagingdomain "github.com/saralbooks/saralbooks/internal/staging/domain"
	userdomain "github.com/saralbooks/saralbooks/internal/user/domain"
	"github.com/saralbooks/saralbooks/pkg/db"
	"gorm.io/gorm"
)

// Run auto-migrates every model and creates the trigram indexes where the
// dialect supports them.
func Run(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&userdomain.User{},
		&customerdomain.Customer{},
		&productdomain.Product{},
		&invoicedomain.Invoice{},
		&invoicedomain.LineItem{},
		&stagingdomain.ReviewDocument{},
		&documentdomain.Document{},
		&auditdomain.Event{},
	); err != nil {
		return err
	}

	return ensureTrigramIndexes(conn)
}

// ensureTrigramIndexes backs the fuzzy name matchers. On dialects without
// pg_trgm the matchers score in-process, so nothing is needed here.
func ensureTrigramIndexes(conn *gorm.DB) error {
	if !db.IsTrigramCapable(conn) {
		return nil
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
		`CREATE INDEX IF NOT EXISTS idx_customers_name_trgm ON customers USING gin (name gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_products_name_trgm ON products USING gin (name gin_trgm_ops)`,
	}
	for _, stmt := range stmts {
		if err := conn.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
