package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmine/techmine/internal/common/config"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	cfg := &config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"}
	dbi, err := NewSQLite(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbi.Close() })
	return dbi.(*SQLite)
}

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func report(title, status string, age time.Duration) *Report {
	return &Report{ID: uuid.NewString(), Title: title, Status: status, CreatedAt: base.Add(-age)}
}

func TestSQLite_ReportCRUD(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, db.Ping(ctx))

	d := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)
	r := report("Shaft inspection", "Draft", 0)
	r.ReportDate = &d
	require.NoError(t, db.CreateReport(ctx, r))

	got, err := db.GetReport(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shaft inspection", got.Title)
	require.NotNil(t, got.ReportDate)
	assert.True(t, d.Equal(*got.ReportDate))
	assert.True(t, base.Equal(got.CreatedAt))

	// full overwrite, including clearing optional fields
	got.Title = "Shaft inspection v2"
	got.ReportDate = nil
	got.Status = ""
	got.CreatedAt = base.Add(time.Hour) // never rewritten
	require.NoError(t, db.UpdateReport(ctx, got))

	again, err := db.GetReport(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shaft inspection v2", again.Title)
	assert.Nil(t, again.ReportDate)
	assert.Empty(t, again.Status)
	assert.True(t, base.Equal(again.CreatedAt))

	// identical rewrite still matches the row
	require.NoError(t, db.UpdateReport(ctx, again))

	require.NoError(t, db.DeleteReport(ctx, r.ID))
	_, err = db.GetReport(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteReport(ctx, r.ID), ErrNoRowsAffected)
	assert.ErrorIs(t, db.UpdateReport(ctx, again), ErrNoRowsAffected)
}

func TestSQLite_ReportFiltersAndOrder(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	for _, r := range []*Report{
		report("Alpha drilling", "Open", 3*time.Hour),
		report("beta DRILLING", "open", 2*time.Hour),
		report("Gamma blasting", "Closed", time.Hour),
		report("100% done_ok", "Closed", 0),
	} {
		require.NoError(t, db.CreateReport(ctx, r))
	}

	all, err := db.ListReports(ctx, ReportFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "100% done_ok", all[0].Title)
	assert.Equal(t, "Alpha drilling", all[3].Title)

	opened, err := db.ListReports(ctx, ReportFilter{Status: "OPEN"})
	require.NoError(t, err)
	assert.Len(t, opened, 2)

	drill, err := db.ListReports(ctx, ReportFilter{TitleSearch: "drill"})
	require.NoError(t, err)
	assert.Len(t, drill, 2)

	both, err := db.ListReports(ctx, ReportFilter{Status: "open", TitleSearch: "BETA"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "beta DRILLING", both[0].Title)

	// wildcards match literally
	pct, err := db.ListReports(ctx, ReportFilter{TitleSearch: "%"})
	require.NoError(t, err)
	assert.Len(t, pct, 1)
	under, err := db.ListReports(ctx, ReportFilter{TitleSearch: "e_o"})
	require.NoError(t, err)
	assert.Len(t, under, 1)
	none, err := db.ListReports(ctx, ReportFilter{TitleSearch: "a_d"})
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestSQLite_IncidentOrderAndFilters(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }
	mk := func(title, sev string, incidentDay int, age time.Duration) *Incident {
		return &Incident{ID: uuid.NewString(), Title: title, Severity: sev, Status: "Open", IncidentDate: day(incidentDay), CreatedAt: base.Add(-age)}
	}
	require.NoError(t, db.CreateIncident(ctx, mk("older day", "High", 1, 0)))
	require.NoError(t, db.CreateIncident(ctx, mk("same day first", "low", 2, 2*time.Hour)))
	require.NoError(t, db.CreateIncident(ctx, mk("same day second", "Low", 2, time.Hour)))

	all, err := db.ListIncidents(ctx, IncidentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"same day second", "same day first", "older day"},
		[]string{all[0].Title, all[1].Title, all[2].Title})

	low, err := db.ListIncidents(ctx, IncidentFilter{Severity: "LOW", TitleSearch: "SAME"})
	require.NoError(t, err)
	assert.Len(t, low, 2)

	n, err := db.CountIncidentsByStatus(ctx, "open")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestSQLite_NameOrderedCollections(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	for _, n := range []string{"Zinc pit", "alpha camp", "Bravo site"} {
		require.NoError(t, db.CreateWorksite(ctx, &Worksite{ID: uuid.NewString(), Name: n, Status: "Active", CreatedAt: base}))
		require.NoError(t, db.CreateClient(ctx, &Client{ID: uuid.NewString(), Name: n, CreatedAt: base}))
	}

	ws, err := db.ListWorksites(ctx, WorksiteFilter{})
	require.NoError(t, err)
	require.Len(t, ws, 3)
	assert.Equal(t, "Bravo site", ws[0].Name)
	assert.Equal(t, "Zinc pit", ws[1].Name)
	assert.Equal(t, "alpha camp", ws[2].Name)

	cs, err := db.ListClients(ctx, ClientFilter{NameSearch: "SITE"})
	require.NoError(t, err)
	require.Len(t, cs, 1)

	active, err := db.CountWorksitesByStatus(ctx, "ACTIVE")
	require.NoError(t, err)
	assert.EqualValues(t, 3, active)
}

func TestSQLite_AttachmentsAndCounts(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, db.CreateAttachment(ctx, &Attachment{ID: uuid.NewString(), Name: "Core log", Type: "Forage", CreatedAt: base}))
	require.NoError(t, db.CreateAttachment(ctx, &Attachment{ID: uuid.NewString(), Name: "Pit map", Type: "Minage", CreatedAt: base.Add(time.Minute)}))

	forage, err := db.ListAttachments(ctx, AttachmentFilter{Type: "forage"})
	require.NoError(t, err)
	require.Len(t, forage, 1)
	assert.Equal(t, "Core log", forage[0].Name)

	n, err := db.CountAttachments(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, db.CreateReport(ctx, report("old", "", 10*24*time.Hour)))
	require.NoError(t, db.CreateReport(ctx, report("new", "", time.Hour)))
	recent, err := db.CountReportsSince(ctx, base.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, recent)
	total, err := db.CountReports(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	latest, err := db.RecentReports(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "new", latest[0].Title)
}

func TestSQLite_Profile(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()
	id := uuid.NewString()

	_, err := db.GetProfile(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.SaveProfile(ctx, &Profile{ID: id, FullName: "Awa", Role: "User"}))
	require.NoError(t, db.SaveProfile(ctx, &Profile{ID: id, FullName: "Awa", Role: "Admin"}))
	p, err := db.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Admin", p.Role)
}

func TestSQLite_TransactionRollback(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()
	r := report("rolled back", "", 0)

	boom := errors.New("boom")
	err := db.Transaction(ctx, func(ctx context.Context) error {
		require.True(t, InTransaction(ctx))
		require.NoError(t, db.CreateReport(ctx, r))
		// nested calls join the outer transaction
		return db.Transaction(ctx, func(ctx context.Context) error { return boom })
	})
	assert.ErrorIs(t, err, boom)

	_, err = db.GetReport(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewDatabase_Unsupported(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Type: "oracle"})
	assert.ErrorContains(t, err, "unsupported database type")
}
