package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/techmine/techmine/internal/apiserver/database"
	"github.com/techmine/techmine/internal/apiserver/validation"
	"github.com/techmine/techmine/internal/common/cnst"
	"github.com/techmine/techmine/internal/common/dto"
	"go.uber.org/zap"
)

type IncidentService struct {
	resource[dto.IncidentInput, database.Incident, dto.Incident]
}

func newIncidentService(db database.Database, v *validation.Validator, logger *zap.Logger, now func() time.Time) *IncidentService {
	return &IncidentService{resource[dto.IncidentInput, database.Incident, dto.Incident]{
		entity:   "incident",
		db:       db,
		validate: v,
		logger:   logger.Named("incident"),
		now:      now,
		get:      db.GetIncident,
		insert:   db.CreateIncident,
		write:    db.UpdateIncident,
		remove:   db.DeleteIncident,
		toRow: func(id string, createdAt time.Time, in *dto.IncidentInput) *database.Incident {
			row := &database.Incident{
				ID:          id,
				Title:       in.Title,
				Description: in.Description,
				Location:    in.Location,
				Severity:    in.Severity,
				ReportedBy:  in.ReportedBy,
				Status:      in.Status,
				CreatedAt:   createdAt,
			}
			if in.IncidentDate != nil {
				row.IncidentDate = in.IncidentDate.Time
			}
			return row
		},
		createdAt: func(i *database.Incident) time.Time { return i.CreatedAt },
		toOut:     incidentOut,
	}}
}

func incidentOut(i *database.Incident) dto.Incident {
	return dto.Incident{
		ID:           i.ID,
		Title:        i.Title,
		Description:  i.Description,
		IncidentDate: dto.NewDate(i.IncidentDate),
		Location:     i.Location,
		Severity:     i.Severity,
		ReportedBy:   i.ReportedBy,
		Status:       i.Status,
		CreatedAt:    i.CreatedAt.UTC(),
	}
}

// reportedByMax matches the reportedBy validate tag
const reportedByMax = 100

// Create defaults a blank status to "Open" and a blank reportedBy to
// reporter, the caller's display name, cut to the field limit.
func (s *IncidentService) Create(ctx context.Context, in *dto.IncidentInput, reporter string) (*dto.Incident, error) {
	filled := *in
	if strings.TrimSpace(filled.Status) == "" {
		filled.Status = cnst.IncidentStatusDefault
	}
	if strings.TrimSpace(filled.ReportedBy) == "" {
		filled.ReportedBy = truncateRunes(strings.TrimSpace(reporter), reportedByMax)
	}
	return s.resource.Create(ctx, &filled)
}

// List orders by incident date then creation time, newest first
func (s *IncidentService) List(ctx context.Context, f database.IncidentFilter) ([]dto.Incident, error) {
	rows, err := s.db.ListIncidents(ctx, f)
	if err != nil {
		s.logger.Error("list failed", zap.Any("filter", f), zap.Error(err))
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return s.outs(rows), nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
