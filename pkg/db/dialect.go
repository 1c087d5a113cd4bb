package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/saralbooks/saralbooks/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "postgres":
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
			cfg.DBSSLMode,
		)), nil
	case "sqlite":
		return sqlite.Open("saralbooks.db"), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", cfg.DBType)
	}
}

// IsTrigramCapable reports whether the connected database can evaluate
// pg_trgm similarity in SQL. Matchers fall back to in-process scoring
// when it cannot.
func IsTrigramCapable(conn *gorm.DB) bool {
	return conn != nil && conn.Dialector.Name() == "postgres"
}
