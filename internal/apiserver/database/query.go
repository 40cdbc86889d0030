package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// likeEscaper makes % and _ in a search term match literally. '!' is the
// escape character because it needs no quoting in any supported dialect.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// equalFold adds a case-insensitive equality condition unless value is empty
func equalFold(db *gorm.DB, column, value string) *gorm.DB {
	if value == "" {
		return db
	}
	return db.Where(fmt.Sprintf("LOWER(%s) = LOWER(?)", column), value)
}

// contains adds a case-insensitive substring condition unless term is empty
func contains(db *gorm.DB, column, term string) *gorm.DB {
	if term == "" {
		return db
	}
	return db.Where(fmt.Sprintf("LOWER(%s) LIKE LOWER(?) ESCAPE '!'", column), "%"+likeEscaper.Replace(term)+"%")
}

func list[T any](q *gorm.DB, order ...string) ([]*T, error) {
	for _, o := range order {
		q = q.Order(o)
	}
	rows := make([]*T, 0)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func get[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	var row T
	err := conn(ctx, db).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func create[T any](ctx context.Context, db *gorm.DB, row *T) error {
	return conn(ctx, db).Create(row).Error
}

// update overwrites columns of the row identified by row's primary key
func update[T any](ctx context.Context, db *gorm.DB, row *T, columns []string) error {
	res := conn(ctx, db).Model(row).Select(columns).Updates(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func remove[T any](ctx context.Context, db *gorm.DB, id string) error {
	res := conn(ctx, db).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func count[T any](q *gorm.DB) (int64, error) {
	var n int64
	err := q.Model(new(T)).Count(&n).Error
	return n, err
}
