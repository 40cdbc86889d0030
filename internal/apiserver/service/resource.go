package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/techmine/techmine/internal/apiserver/database"
	"github.com/techmine/techmine/internal/apiserver/validation"
	"go.uber.org/zap"
)

// resource holds the create/get/update/delete flow shared by every entity.
// In is the input body, Row the stored model, Out the representation.
type resource[In, Row, Out any] struct {
	entity   string
	db       database.Database
	validate *validation.Validator
	logger   *zap.Logger
	now      func() time.Time

	get    func(ctx context.Context, id string) (*Row, error)
	insert func(ctx context.Context, row *Row) error
	write  func(ctx context.Context, row *Row) error
	remove func(ctx context.Context, id string) error

	// toRow builds the stored row from input, keeping id and createdAt
	toRow func(id string, createdAt time.Time, in *In) *Row
	// createdAt reads the immutable creation time of a stored row
	createdAt func(row *Row) time.Time
	toOut     func(row *Row) Out
}

func (r *resource[In, Row, Out]) outs(rows []*Row) []Out {
	out := make([]Out, len(rows))
	for i, row := range rows {
		out[i] = r.toOut(row)
	}
	return out
}

func (r *resource[In, Row, Out]) Get(ctx context.Context, id string) (*Out, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row, err := r.get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		r.logger.Warn("not found", zap.String("entity", r.entity), zap.String("id", id))
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("get failed", zap.String("entity", r.entity), zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("get %s: %w", r.entity, err)
	}
	out := r.toOut(row)
	return &out, nil
}

func (r *resource[In, Row, Out]) Create(ctx context.Context, in *In) (*Out, error) {
	if err := validate(r.validate, in); err != nil {
		return nil, err
	}
	row := r.toRow(uuid.NewString(), r.now(), in)
	if err := r.insert(ctx, row); err != nil {
		r.logger.Error("create failed", zap.String("entity", r.entity), zap.Error(err))
		return nil, fmt.Errorf("create %s: %w", r.entity, err)
	}
	out := r.toOut(row)
	r.logger.Info("created", zap.String("entity", r.entity))
	return &out, nil
}

// Update overwrites every mutable field. When the write matches no row the
// row is looked up again: gone means ErrNotFound, still there ErrConflict.
func (r *resource[In, Row, Out]) Update(ctx context.Context, id string, in *In) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}
	if err := validate(r.validate, in); err != nil {
		return err
	}

	err = r.db.Transaction(ctx, func(ctx context.Context) error {
		existing, err := r.get(ctx, id)
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", r.entity, err)
		}

		err = r.write(ctx, r.toRow(id, r.createdAt(existing), in))
		if !errors.Is(err, database.ErrNoRowsAffected) {
			if err != nil {
				return fmt.Errorf("update %s: %w", r.entity, err)
			}
			return nil
		}

		_, err = r.get(ctx, id)
		switch {
		case errors.Is(err, database.ErrNotFound):
			return ErrNotFound
		case err != nil:
			return fmt.Errorf("recheck %s: %w", r.entity, err)
		default:
			return ErrConflict
		}
	})
	r.logResult("update", id, err)
	return err
}

func (r *resource[In, Row, Out]) Delete(ctx context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}
	err = r.db.Transaction(ctx, func(ctx context.Context) error {
		if _, err := r.get(ctx, id); errors.Is(err, database.ErrNotFound) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("get %s: %w", r.entity, err)
		}
		err := r.remove(ctx, id)
		if errors.Is(err, database.ErrNoRowsAffected) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("delete %s: %w", r.entity, err)
		}
		return nil
	})
	r.logResult("delete", id, err)
	return err
}

func (r *resource[In, Row, Out]) logResult(op, id string, err error) {
	fields := []zap.Field{zap.String("entity", r.entity), zap.String("id", id)}
	switch {
	case err == nil:
		r.logger.Info(op+"d", fields...)
	case errors.Is(err, ErrNotFound):
		r.logger.Warn(op+" target not found", fields...)
	case errors.Is(err, ErrConflict):
		r.logger.Warn(op+" conflict", fields...)
	default:
		r.logger.Error(op+" failed", append(fields, zap.Error(err))...)
	}
}
