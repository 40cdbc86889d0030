package database

import (
	"context"

	"gorm.io/gorm"
)

// unit of work carried by the request context
type txKey struct{}

func txFrom(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// InTransaction reports whether ctx belongs to an open Database.Transaction
func InTransaction(ctx context.Context) bool {
	return txFrom(ctx) != nil
}

// runInTx opens a transaction unless ctx already carries one, in which case
// fn joins it and the outermost call commits or rolls back
func runInTx(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error) error {
	if InTransaction(ctx) {
		return fn(ctx)
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the open transaction of ctx, or db bound to ctx
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
