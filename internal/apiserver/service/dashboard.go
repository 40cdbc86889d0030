package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/techmine/techmine/internal/apiserver/database"
	"github.com/techmine/techmine/internal/common/cnst"
	"github.com/techmine/techmine/internal/common/dto"
	"github.com/techmine/techmine/pkg/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	recentWindow  = 7 * 24 * time.Hour
	activityLimit = 5

	statusOpen   = "open"
	statusActive = "active"
)

// DashboardService aggregates counts and the recent activity feed. Each
// sub-query runs concurrently; any failure fails the whole response.
type DashboardService struct {
	db       database.Database
	logger   *zap.Logger
	now      func() time.Time
	observer QueryObserver
}

func (s *DashboardService) Homepage(ctx context.Context) (*dto.HomePage, error) {
	sc := trace.Tracer(cnst.TraceDashboard).Start(ctx, cnst.SpanDashboardHomepage)
	defer sc.End()

	var (
		page      dto.HomePage
		reports   []*database.Report
		incidents []*database.Incident
	)
	since := s.now().Add(-recentWindow)

	g, gctx := errgroup.WithContext(sc.Ctx)
	s.run(g, gctx, "recent_reports_count", func(ctx context.Context) (err error) {
		page.Stats.RecentReportsCount, err = s.db.CountReportsSince(ctx, since)
		return err
	})
	s.run(g, gctx, "open_incidents_count", func(ctx context.Context) (err error) {
		page.Stats.OpenIncidentsCount, err = s.db.CountIncidentsByStatus(ctx, statusOpen)
		return err
	})
	s.run(g, gctx, "active_worksites_count", func(ctx context.Context) (err error) {
		page.Stats.ActiveWorksitesCount, err = s.db.CountWorksitesByStatus(ctx, statusActive)
		return err
	})
	s.run(g, gctx, "recent_reports", func(ctx context.Context) (err error) {
		reports, err = s.db.RecentReports(ctx, activityLimit)
		return err
	})
	s.run(g, gctx, "recent_incidents", func(ctx context.Context) (err error) {
		incidents, err = s.db.RecentIncidents(ctx, activityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		sc.Fail(err)
		s.logger.Error("homepage failed", zap.Error(err))
		return nil, fmt.Errorf("dashboard homepage: %w", err)
	}

	page.RecentActivity = mergeActivity(reports, incidents, activityLimit)
	return &page, nil
}

func (s *DashboardService) Recap(ctx context.Context) (*dto.Recap, error) {
	sc := trace.Tracer(cnst.TraceDashboard).Start(ctx, cnst.SpanDashboardRecap)
	defer sc.End()

	var recap dto.Recap
	g, gctx := errgroup.WithContext(sc.Ctx)
	s.run(g, gctx, "total_reports", func(ctx context.Context) (err error) {
		recap.TotalReports, err = s.db.CountReports(ctx)
		return err
	})
	s.run(g, gctx, "total_attachments", func(ctx context.Context) (err error) {
		recap.TotalAttachments, err = s.db.CountAttachments(ctx)
		return err
	})
	s.run(g, gctx, "open_incidents", func(ctx context.Context) (err error) {
		recap.OpenIncidents, err = s.db.CountIncidentsByStatus(ctx, statusOpen)
		return err
	})
	if err := g.Wait(); err != nil {
		sc.Fail(err)
		s.logger.Error("recap failed", zap.Error(err))
		return nil, fmt.Errorf("dashboard recap: %w", err)
	}
	return &recap, nil
}

// run schedules one named sub-query on g with its own span and timing
func (s *DashboardService) run(g *errgroup.Group, ctx context.Context, name string, fn func(context.Context) error) {
	g.Go(func() error {
		sc := trace.Tracer(cnst.TraceDashboard).Start(ctx, cnst.SpanDashboardQuery).
			WithAttrs(attribute.String(cnst.AttrQuery, name))
		defer sc.End()

		start := time.Now()
		err := fn(sc.Ctx)
		if s.observer != nil {
			s.observer.QueryDone(name, start, err)
		}
		if err != nil {
			sc.Fail(err)
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	})
}

// mergeActivity interleaves the newest reports and incidents by creation
// time, newest first. Ties fall back to item type then id.
func mergeActivity(reports []*database.Report, incidents []*database.Incident, limit int) []dto.ActivityItem {
	items := make([]dto.ActivityItem, 0, len(reports)+len(incidents))
	for _, r := range reports {
		items = append(items, dto.ActivityItem{
			ID:           r.ID,
			ItemType:     cnst.ItemTypeReport,
			Title:        r.Title,
			ActivityDate: r.CreatedAt.UTC(),
			Status:       r.Status,
		})
	}
	for _, i := range incidents {
		items = append(items, dto.ActivityItem{
			ID:           i.ID,
			ItemType:     cnst.ItemTypeIncident,
			Title:        i.Title,
			ActivityDate: i.CreatedAt.UTC(),
			Status:       i.Status,
		})
	}
	slices.SortFunc(items, func(a, b dto.ActivityItem) int {
		if c := b.ActivityDate.Compare(a.ActivityDate); c != 0 {
			return c
		}
		if c := cmp.Compare(a.ItemType, b.ItemType); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
