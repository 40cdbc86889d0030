package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/techmine/techmine/internal/apiserver/database"
	"github.com/techmine/techmine/internal/apiserver/validation"
	"go.uber.org/zap"
)

var (
	// ErrNotFound means the id did not exist when the operation ran
	ErrNotFound = errors.New("not found")
	// ErrConflict means the row changed between the existence check and the
	// write and still exists. Callers may retry.
	ErrConflict = errors.New("concurrent modification")
	// ErrInvalidID means the id is not a UUID
	ErrInvalidID = errors.New("invalid id")
	// ErrMissingSubject means the verified identity has no subject
	ErrMissingSubject = errors.New("missing subject")
)

// ValidationError lists every rejected field. Nothing was written.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return e.Fields.Error()
}

// QueryObserver receives the timing of each dashboard sub-query
type QueryObserver interface {
	QueryDone(query string, since time.Time, err error)
}

type options struct {
	now      func() time.Time
	observer QueryObserver
}

type Option func(*options)

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithObserver reports dashboard query timings
func WithObserver(obs QueryObserver) Option {
	return func(o *options) { o.observer = obs }
}

// Services bundles every service the handlers need
type Services struct {
	Reports     *ReportService
	Incidents   *IncidentService
	Worksites   *WorksiteService
	Clients     *ClientService
	Attachments *AttachmentService
	Profiles    *ProfileService
	Roles       *RoleResolver
	Dashboard   *DashboardService
}

func New(db database.Database, logger *zap.Logger, opts ...Option) *Services {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	v := validation.New()
	now := func() time.Time {
		// microsecond precision survives every supported database
		return o.now().UTC().Truncate(time.Microsecond)
	}

	return &Services{
		Reports:     newReportService(db, v, logger, now),
		Incidents:   newIncidentService(db, v, logger, now),
		Worksites:   newWorksiteService(db, v, logger, now),
		Clients:     newClientService(db, v, logger, now),
		Attachments: newAttachmentService(db, v, logger, now),
		Profiles:    &ProfileService{db: db, logger: logger.Named("profile")},
		Roles:       &RoleResolver{db: db, logger: logger.Named("role")},
		Dashboard:   &DashboardService{db: db, logger: logger.Named("dashboard"), now: now, observer: o.observer},
	}
}

// parseID accepts any UUID spelling and returns its canonical form
func parseID(id string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", ErrInvalidID
	}
	return u.String(), nil
}

func validate(v *validation.Validator, input any) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return &ValidationError{Fields: verrs}
	}
	return err
}
