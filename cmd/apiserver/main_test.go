package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmine/techmine/internal/apiserver/database"
	"github.com/techmine/techmine/internal/common/cnst"
	"github.com/techmine/techmine/internal/common/config"
	"go.uber.org/zap"
)

func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	defer func() { os.Stdout = old }()

	f()
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestRootCmd_Version(t *testing.T) {
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	rootCmd.SetArgs([]string{"version"})
	out := captureOutput(func() { _ = rootCmd.Execute() })
	assert.Contains(t, out, "apiserver version v")
}

func TestRootCmd_Help(t *testing.T) {
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	rootCmd.SetArgs([]string{"--help"})
	assert.NoError(t, rootCmd.Execute())
}

func TestInitLogger(t *testing.T) {
	lg := initLogger(&config.APIServerConfig{})
	require.NotNil(t, lg)
	_ = lg.Sync()
}

func TestInitDatabase_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "apiserver.db")
	db := initDatabase(zap.NewNop(), &config.DatabaseConfig{Type: "sqlite", DBName: dbPath})
	t.Cleanup(func() { _ = db.Close() })
	assert.NoError(t, db.Ping(context.Background()))
}

func TestInitLimiter(t *testing.T) {
	limiter, closeFn := initLimiter(zap.NewNop(), &config.RateLimitConfig{})
	assert.Nil(t, limiter)
	closeFn()

	mr := miniredis.RunT(t)
	limiter, closeFn = initLimiter(zap.NewNop(), &config.RateLimitConfig{
		Enabled: true, Addr: mr.Addr(), Prefix: "t", Limit: 1, Window: time.Minute,
	})
	t.Cleanup(closeFn)
	require.NotNil(t, limiter)
	ok, err := limiter.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBuildRouter(t *testing.T) {
	cfg := &config.APIServerConfig{
		Auth:    config.AuthConfig{Secret: "this-is-a-very-long-secret-key-for-testing"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "t"},
		I18n:    config.I18nConfig{DefaultLang: "fr"},
	}
	db := initDatabase(zap.NewNop(), &config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	t.Cleanup(func() { _ = db.Close() })

	router, err := buildRouter(cfg, zap.NewNop(), db, nil)
	require.NoError(t, err)

	for path, code := range map[string]int{
		"/healthz":          http.StatusOK,
		"/metrics":          http.StatusOK,
		"/api/reports":      http.StatusUnauthorized,
		"/api/openapi.json": http.StatusOK,
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, code, w.Code, path)
	}

	cfg.Auth.Secret = ""
	_, err = buildRouter(cfg, zap.NewNop(), db, nil)
	assert.Error(t, err)
}

func TestProfileSetCmd(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "techmine.db")
	confPath := filepath.Join(dir, "apiserver.yaml")
	require.NoError(t, os.WriteFile(confPath, []byte(`
database:
  type: sqlite
  dbname: `+dbPath+`
auth:
  secret: this-is-a-very-long-secret-key-for-testing
logger:
  level: error
`), 0o600))

	sub := uuid.NewString()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetArgs([]string{})
		rootCmd.SetOut(nil)
		configPath = cnst.ApiServerYaml
	})
	rootCmd.SetArgs([]string{"profile", "set", "--conf", confPath, "--subject", sub, "--name", "Ada", "--role", "Admin"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), sub)

	db, err := database.NewSQLite(&config.DatabaseConfig{Type: "sqlite", DBName: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	p, err := db.GetProfile(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.FullName)
	assert.Equal(t, "Admin", p.Role)
}
