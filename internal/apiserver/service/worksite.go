package service

import (
	"context"
	"fmt"
	"time"

	"github.com/techmine/techmine/internal/apiserver/database"
	"github.com/techmine/techmine/internal/apiserver/validation"
	"github.com/techmine/techmine/internal/common/dto"
	"go.uber.org/zap"
)

type WorksiteService struct {
	resource[dto.WorksiteInput, database.Worksite, dto.Worksite]
}

func newWorksiteService(db database.Database, v *validation.Validator, logger *zap.Logger, now func() time.Time) *WorksiteService {
	return &WorksiteService{resource[dto.WorksiteInput, database.Worksite, dto.Worksite]{
		entity:   "worksite",
		db:       db,
		validate: v,
		logger:   logger.Named("worksite"),
		now:      now,
		get:      db.GetWorksite,
		insert:   db.CreateWorksite,
		write:    db.UpdateWorksite,
		remove:   db.DeleteWorksite,
		toRow: func(id string, createdAt time.Time, in *dto.WorksiteInput) *database.Worksite {
			return &database.Worksite{
				ID:        id,
				Name:      in.Name,
				Location:  in.Location,
				StartDate: in.StartDate.TimePtr(),
				Status:    in.Status,
				CreatedAt: createdAt,
			}
		},
		createdAt: func(w *database.Worksite) time.Time { return w.CreatedAt },
		toOut: func(w *database.Worksite) dto.Worksite {
			return dto.Worksite{
				ID:        w.ID,
				Name:      w.Name,
				Location:  w.Location,
				StartDate: dto.DatePtr(w.StartDate),
				Status:    w.Status,
				CreatedAt: w.CreatedAt.UTC(),
			}
		},
	}}
}

func (s *WorksiteService) List(ctx context.Context, f database.WorksiteFilter) ([]dto.Worksite, error) {
	rows, err := s.db.ListWorksites(ctx, f)
	if err != nil {
		s.logger.Error("list failed", zap.Any("filter", f), zap.Error(err))
		return nil, fmt.Errorf("list worksites: %w", err)
	}
	return s.outs(rows), nil
}
