package database

import (
	"github.com/glebarez/sqlite"
	"github.com/techmine/techmine/internal/common/config"
)

// SQLite implements the Database interface using SQLite
type SQLite struct {
	store
	cfg *config.DatabaseConfig
}

// NewSQLite creates a new SQLite instance. The pool is capped at one
// connection: every connection to ":memory:" is a separate database, and a
// file database only allows one writer anyway.
func NewSQLite(cfg *config.DatabaseConfig) (Database, error) {
	gormDB, err := open(sqlite.Open(cfg.GetDSN()), 1)
	if err != nil {
		return nil, err
	}
	return &SQLite{store: store{db: gormDB}, cfg: cfg}, nil
}
