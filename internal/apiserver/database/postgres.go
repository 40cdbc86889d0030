package database

import (
	"github.com/techmine/techmine/internal/common/config"
	"gorm.io/driver/postgres"
)

// Postgres implements the Database interface using PostgreSQL
type Postgres struct {
	store
	cfg *config.DatabaseConfig
}

// NewPostgres creates a new Postgres instance
func NewPostgres(cfg *config.DatabaseConfig) (Database, error) {
	gormDB, err := open(postgres.Open(cfg.GetDSN()), 0)
	if err != nil {
		return nil, err
	}
	return &Postgres{store: store{db: gormDB}, cfg: cfg}, nil
}
