package database

import (
	"github.com/techmine/techmine/internal/common/config"
	"gorm.io/driver/mysql"
)

// MySQL implements the Database interface using MySQL. The DSN sets
// clientFoundRows so an update that rewrites identical values still counts
// the matched row.
type MySQL struct {
	store
	cfg *config.DatabaseConfig
}

// NewMySQL creates a new MySQL instance
func NewMySQL(cfg *config.DatabaseConfig) (Database, error) {
	gormDB, err := open(mysql.Open(cfg.GetDSN()), 0)
	if err != nil {
		return nil, err
	}
	return &MySQL{store: store{db: gormDB}, cfg: cfg}, nil
}
