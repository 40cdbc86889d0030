package database

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// store is the gorm implementation shared by every dialect
type store struct {
	db *gorm.DB
}

// Close closes the database connection
func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return runInTx(ctx, s.db, fn)
}

func (s *store) ListReports(ctx context.Context, f ReportFilter) ([]*Report, error) {
	q := conn(ctx, s.db)
	q = equalFold(q, "status", f.Status)
	q = contains(q, "title", f.TitleSearch)
	return list[Report](q, "created_at desc")
}

func (s *store) GetReport(ctx context.Context, id string) (*Report, error) {
	return get[Report](ctx, s.db, id)
}

func (s *store) CreateReport(ctx context.Context, r *Report) error {
	return create(ctx, s.db, r)
}

func (s *store) UpdateReport(ctx context.Context, r *Report) error {
	return update(ctx, s.db, r, reportColumns)
}

func (s *store) DeleteReport(ctx context.Context, id string) error {
	return remove[Report](ctx, s.db, id)
}

func (s *store) ListIncidents(ctx context.Context, f IncidentFilter) ([]*Incident, error) {
	q := conn(ctx, s.db)
	q = equalFold(q, "status", f.Status)
	q = equalFold(q, "severity", f.Severity)
	q = contains(q, "title", f.TitleSearch)
	return list[Incident](q, "incident_date desc", "created_at desc")
}

func (s *store) GetIncident(ctx context.Context, id string) (*Incident, error) {
	return get[Incident](ctx, s.db, id)
}

func (s *store) CreateIncident(ctx context.Context, i *Incident) error {
	return create(ctx, s.db, i)
}

func (s *store) UpdateIncident(ctx context.Context, i *Incident) error {
	return update(ctx, s.db, i, incidentColumns)
}

func (s *store) DeleteIncident(ctx context.Context, id string) error {
	return remove[Incident](ctx, s.db, id)
}

func (s *store) ListWorksites(ctx context.Context, f WorksiteFilter) ([]*Worksite, error) {
	q := conn(ctx, s.db)
	q = equalFold(q, "status", f.Status)
	q = contains(q, "name", f.NameSearch)
	return list[Worksite](q, "name asc")
}

func (s *store) GetWorksite(ctx context.Context, id string) (*Worksite, error) {
	return get[Worksite](ctx, s.db, id)
}

func (s *store) CreateWorksite(ctx context.Context, w *Worksite) error {
	return create(ctx, s.db, w)
}

func (s *store) UpdateWorksite(ctx context.Context, w *Worksite) error {
	return update(ctx, s.db, w, worksiteColumns)
}

func (s *store) DeleteWorksite(ctx context.Context, id string) error {
	return remove[Worksite](ctx, s.db, id)
}

func (s *store) ListClients(ctx context.Context, f ClientFilter) ([]*Client, error) {
	q := contains(conn(ctx, s.db), "name", f.NameSearch)
	return list[Client](q, "name asc")
}

func (s *store) GetClient(ctx context.Context, id string) (*Client, error) {
	return get[Client](ctx, s.db, id)
}

func (s *store) CreateClient(ctx context.Context, c *Client) error {
	return create(ctx, s.db, c)
}

func (s *store) UpdateClient(ctx context.Context, c *Client) error {
	return update(ctx, s.db, c, clientColumns)
}

func (s *store) DeleteClient(ctx context.Context, id string) error {
	return remove[Client](ctx, s.db, id)
}

func (s *store) ListAttachments(ctx context.Context, f AttachmentFilter) ([]*Attachment, error) {
	q := conn(ctx, s.db)
	q = equalFold(q, "type", f.Type)
	q = contains(q, "name", f.NameSearch)
	return list[Attachment](q, "created_at desc")
}

func (s *store) GetAttachment(ctx context.Context, id string) (*Attachment, error) {
	return get[Attachment](ctx, s.db, id)
}

func (s *store) CreateAttachment(ctx context.Context, a *Attachment) error {
	return create(ctx, s.db, a)
}

func (s *store) UpdateAttachment(ctx context.Context, a *Attachment) error {
	return update(ctx, s.db, a, attachmentColumns)
}

func (s *store) DeleteAttachment(ctx context.Context, id string) error {
	return remove[Attachment](ctx, s.db, id)
}

func (s *store) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return get[Profile](ctx, s.db, id)
}

func (s *store) SaveProfile(ctx context.Context, p *Profile) error {
	return conn(ctx, s.db).Save(p).Error
}

func (s *store) CountReports(ctx context.Context) (int64, error) {
	return count[Report](conn(ctx, s.db))
}

func (s *store) CountReportsSince(ctx context.Context, since time.Time) (int64, error) {
	return count[Report](conn(ctx, s.db).Where("created_at >= ?", since.UTC()))
}

func (s *store) CountAttachments(ctx context.Context) (int64, error) {
	return count[Attachment](conn(ctx, s.db))
}

func (s *store) CountIncidentsByStatus(ctx context.Context, status string) (int64, error) {
	return count[Incident](equalFold(conn(ctx, s.db), "status", status))
}

func (s *store) CountWorksitesByStatus(ctx context.Context, status string) (int64, error) {
	return count[Worksite](equalFold(conn(ctx, s.db), "status", status))
}

func (s *store) RecentReports(ctx context.Context, limit int) ([]*Report, error) {
	return list[Report](conn(ctx, s.db).Limit(limit), "created_at desc", "id asc")
}

func (s *store) RecentIncidents(ctx context.Context, limit int) ([]*Incident, error) {
	return list[Incident](conn(ctx, s.db).Limit(limit), "created_at desc", "id asc")
}
