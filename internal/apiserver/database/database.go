package database

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no row matches the id
	ErrNotFound = errors.New("record not found")
	// ErrNoRowsAffected is returned when an update or delete matched nothing
	ErrNoRowsAffected = errors.New("no rows affected")
)

// Database defines the methods for database operations.
type Database interface {
	// Close closes the database connection.
	Close() error

	// Ping checks the connection is alive.
	Ping(ctx context.Context) error

	// Transaction runs fn in one transaction carried by the context passed to
	// fn. Nested calls join the outer transaction.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	ListReports(ctx context.Context, f ReportFilter) ([]*Report, error)
	GetReport(ctx context.Context, id string) (*Report, error)
	CreateReport(ctx context.Context, r *Report) error
	UpdateReport(ctx context.Context, r *Report) error
	DeleteReport(ctx context.Context, id string) error

	ListIncidents(ctx context.Context, f IncidentFilter) ([]*Incident, error)
	GetIncident(ctx context.Context, id string) (*Incident, error)
	CreateIncident(ctx context.Context, i *Incident) error
	UpdateIncident(ctx context.Context, i *Incident) error
	DeleteIncident(ctx context.Context, id string) error

	ListWorksites(ctx context.Context, f WorksiteFilter) ([]*Worksite, error)
	GetWorksite(ctx context.Context, id string) (*Worksite, error)
	CreateWorksite(ctx context.Context, w *Worksite) error
	UpdateWorksite(ctx context.Context, w *Worksite) error
	DeleteWorksite(ctx context.Context, id string) error

	ListClients(ctx context.Context, f ClientFilter) ([]*Client, error)
	GetClient(ctx context.Context, id string) (*Client, error)
	CreateClient(ctx context.Context, c *Client) error
	UpdateClient(ctx context.Context, c *Client) error
	DeleteClient(ctx context.Context, id string) error

	ListAttachments(ctx context.Context, f AttachmentFilter) ([]*Attachment, error)
	GetAttachment(ctx context.Context, id string) (*Attachment, error)
	CreateAttachment(ctx context.Context, a *Attachment) error
	UpdateAttachment(ctx context.Context, a *Attachment) error
	DeleteAttachment(ctx context.Context, id string) error

	// GetProfile returns ErrNotFound when the subject has no profile row.
	GetProfile(ctx context.Context, id string) (*Profile, error)
	// SaveProfile inserts or overwrites a profile. Used by provisioning only.
	SaveProfile(ctx context.Context, p *Profile) error

	CountReports(ctx context.Context) (int64, error)
	CountReportsSince(ctx context.Context, since time.Time) (int64, error)
	CountAttachments(ctx context.Context) (int64, error)
	// CountIncidentsByStatus and CountWorksitesByStatus compare case-insensitively.
	CountIncidentsByStatus(ctx context.Context, status string) (int64, error)
	CountWorksitesByStatus(ctx context.Context, status string) (int64, error)
	RecentReports(ctx context.Context, limit int) ([]*Report, error)
	RecentIncidents(ctx context.Context, limit int) ([]*Incident, error)
}
