package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmine/techmine/internal/auth/jwt"
	"github.com/techmine/techmine/internal/common/cnst"
	"github.com/techmine/techmine/internal/common/errorx"
	"github.com/techmine/techmine/internal/i18n"
	"go.uber.org/zap"
)

type stubVerifier map[string]*jwt.Identity

func (s stubVerifier) Verify(token string) (*jwt.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return nil, jwt.ErrInvalidToken
}

type stubResolver struct {
	role string
	err  error
}

func (s stubResolver) Resolve(context.Context, *jwt.Identity) (string, error) {
	return s.role, s.err
}

var (
	eh       = errorx.NewErrorHandler(zap.NewNop(), nil)
	verifier = stubVerifier{
		"good": {Subject: "0b8f8e0e-5a8a-4c39-9a43-2b8f4d5e6f70", Email: "ada@mine.test"},
	}
)

func isAdmin(role string) bool { return role == "Admin" }

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	code, _ := body["code"].(string)
	return code
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/p", Authenticate(verifier, eh), func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, id.Email)
	})

	w := serve(r, http.MethodGet, "/p", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "E2001", errorCode(t, w))

	w = serve(r, http.MethodGet, "/p", map[string]string{"Authorization": "Token good"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodGet, "/p", map[string]string{"Authorization": "Bearer "})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodGet, "/p", map[string]string{"Authorization": "Bearer bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "E2002", errorCode(t, w))

	w = serve(r, http.MethodGet, "/p", map[string]string{"Authorization": "bearer good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada@mine.test", w.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name     string
		resolver stubResolver
		want     int
	}{
		{"admin", stubResolver{role: "Admin"}, http.StatusOK},
		{"member", stubResolver{role: "Member"}, http.StatusForbidden},
		{"no role", stubResolver{}, http.StatusForbidden},
		{"lookup failure", stubResolver{err: errors.New("db down")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin", Authenticate(verifier, eh), RequireAdmin(tc.resolver, isAdmin, eh), func(c *gin.Context) {
				assert.Equal(t, "Admin", c.GetString(cnst.CtxKeyRole))
				c.Status(http.StatusOK)
			})
			w := serve(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer good"})
			assert.Equal(t, tc.want, w.Code)
		})
	}

	// unauthenticated requests never reach the resolver
	r := gin.New()
	r.GET("/admin", RequireAdmin(stubResolver{role: "Admin"}, isAdmin, eh), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", nil).Code)
}

func TestLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	_, err := NewLimiter(nil, "x", 1, time.Second)
	assert.Error(t, err)
	_, err = NewLimiter(client, "x", 0, time.Second)
	assert.Error(t, err)
	_, err = NewLimiter(client, "x", 1, 0)
	assert.Error(t, err)
	_, err = NewLimiter(client, "x", 1, 500*time.Microsecond)
	assert.ErrorContains(t, err, "at least 1ms")

	ms, err := NewLimiter(client, "test:ms", 1, time.Millisecond)
	require.NoError(t, err)
	assert.NotPanics(t, func() { _, _ = ms.Allow(context.Background(), "k") })

	l, err := NewLimiter(client, "test:ratelimit:", 2, time.Minute)
	require.NoError(t, err)
	l.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 30, 0, time.UTC) }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)

	// next window starts fresh
	l.now = func() time.Time { return time.Date(2024, 6, 1, 12, 1, 30, 0, time.UTC) }
	ok, err = l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	keys := mr.Keys()
	require.NotEmpty(t, keys)
	assert.Contains(t, keys[0], "test:ratelimit:")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l, err := NewLimiter(client, "test", 1, time.Hour)
	require.NoError(t, err)
	rejected := 0

	r := gin.New()
	r.GET("/p", Authenticate(verifier, eh), RateLimit(l, eh, zap.NewNop(), func() { rejected++ }),
		func(c *gin.Context) { c.Status(http.StatusNoContent) })

	auth := map[string]string{"Authorization": "Bearer good"}
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/p", auth).Code)
	w := serve(r, http.MethodGet, "/p", auth)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "E4291", errorCode(t, w))
	assert.Equal(t, 1, rejected)

	// redis gone: fail closed
	mr.Close()
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/p", auth).Code)
	assert.Equal(t, 2, rejected)
}

func TestLanguage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tr, err := i18n.New("en")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/l", Language(tr), func(c *gin.Context) { c.String(http.StatusOK, c.GetString(cnst.CtxKeyLang)) })

	assert.Equal(t, "en", serve(r, http.MethodGet, "/l", nil).Body.String())
	assert.Equal(t, "fr", serve(r, http.MethodGet, "/l", map[string]string{"Accept-Language": "fr-CA,fr;q=0.9"}).Body.String())
	assert.Equal(t, "en", serve(r, http.MethodGet, "/l", map[string]string{"Accept-Language": "fr", "X-Lang": "en"}).Body.String())
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/c", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/c", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = serve(r, http.MethodGet, "/c", map[string]string{"Origin": "http://evil.test"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodOptions, "/c", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}
