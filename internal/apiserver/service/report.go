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

type ReportService struct {
	resource[dto.ReportInput, database.Report, dto.Report]
}

func newReportService(db database.Database, v *validation.Validator, logger *zap.Logger, now func() time.Time) *ReportService {
	return &ReportService{resource[dto.ReportInput, database.Report, dto.Report]{
		entity:   "report",
		db:       db,
		validate: v,
		logger:   logger.Named("report"),
		now:      now,
		get:      db.GetReport,
		insert:   db.CreateReport,
		write:    db.UpdateReport,
		remove:   db.DeleteReport,
		toRow: func(id string, createdAt time.Time, in *dto.ReportInput) *database.Report {
			return &database.Report{
				ID:          id,
				Title:       in.Title,
				Description: in.Description,
				ReportDate:  in.ReportDate.TimePtr(),
				Status:      in.Status,
				CreatedAt:   createdAt,
			}
		},
		createdAt: func(r *database.Report) time.Time { return r.CreatedAt },
		toOut:     reportOut,
	}}
}

func reportOut(r *database.Report) dto.Report {
	return dto.Report{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		ReportDate:  dto.DatePtr(r.ReportDate),
		Status:      r.Status,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

// List returns every report matching f, newest first
func (s *ReportService) List(ctx context.Context, f database.ReportFilter) ([]dto.Report, error) {
	rows, err := s.db.ListReports(ctx, f)
	if err != nil {
		s.logger.Error("list failed", zap.Any("filter", f), zap.Error(err))
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return s.outs(rows), nil
}
