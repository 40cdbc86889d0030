package errorx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmine/techmine/internal/i18n"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type body struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Category string         `json:"category"`
	Severity string         `json:"severity"`
	Details  map[string]any `json:"details"`
	TraceID  string         `json:"trace_id"`
}

func serve(t *testing.T, h *ErrorHandler, err error, header http.Header) (*httptest.ResponseRecorder, body) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		if lang := c.GetHeader("X-Lang"); lang != "" {
			c.Set("lang", lang)
		}
		h.HandleError(c, err)
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var b body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return w, b
}

func TestHandleError_StatusMapping(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), nil)
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{Validation(FieldError{Field: "title", Rule: "required"}), http.StatusBadRequest, "E1001"},
		{InvalidID(), http.StatusBadRequest, "E1003"},
		{Unauthenticated(), http.StatusUnauthorized, "E2001"},
		{Forbidden(), http.StatusForbidden, "E3001"},
		{NotFound("Report"), http.StatusNotFound, "E4001"},
		{fmt.Errorf("wrapped: %w", Conflict("Report")), http.StatusConflict, "E4092"},
		{TooManyRequests(), http.StatusTooManyRequests, "E4291"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "E5001"},
	}
	for _, tc := range cases {
		w, b := serve(t, h, tc.err, nil)
		assert.Equal(t, tc.status, w.Code, tc.code)
		assert.Equal(t, tc.code, b.Code)
		assert.NotEmpty(t, b.TraceID)
		assert.Equal(t, b.TraceID, w.Header().Get("X-Trace-Id"))
	}
}

func TestHandleError_InternalDoesNotLeak(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewErrorHandler(zap.New(core), nil)

	w, b := serve(t, h, errors.New("dial tcp 10.0.0.5:5432: secret-host"), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", b.Message)
	assert.NotContains(t, w.Body.String(), "secret-host")

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "secret-host")
	assert.Contains(t, entries[0].ContextMap(), "stack_trace")
}

func TestHandleError_TraceIDFromHeader(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), nil)
	_, b := serve(t, h, NotFound("Client"), http.Header{"X-Trace-Id": {"abc-123"}})
	assert.Equal(t, "abc-123", b.TraceID)
}

func TestHandleError_Translated(t *testing.T) {
	tr, err := i18n.New("en")
	require.NoError(t, err)
	h := NewErrorHandler(zap.NewNop(), tr)

	_, b := serve(t, h, NotFound("Report"), nil)
	assert.Equal(t, "Report not found", b.Message)

	_, b = serve(t, h, NotFound("Report"), http.Header{"X-Lang": {"fr"}})
	assert.Equal(t, "Rapport introuvable", b.Message)

	verr := Validation(FieldError{Field: "title", Rule: "min", Param: "3", MessageID: "ValidationMin"})
	_, b = serve(t, h, verr, http.Header{"X-Lang": {"fr"}})
	assert.Equal(t, "La validation a échoué", b.Message)
	fields := b.Details["fields"].([]any)
	require.Len(t, fields, 1)
	assert.Equal(t, "title doit contenir au moins 3 caractères", fields[0].(map[string]any)["message"])
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewErrorHandler(zap.NewNop(), nil)
	r := gin.New()
	r.Use(TraceMiddleware(), h.RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
	assert.NotEmpty(t, w.Header().Get("X-Trace-Id"))
}

func TestConflictIsRetryable(t *testing.T) {
	e := Conflict("Incident")
	assert.Equal(t, true, e.Details["retryable"])
	assert.Equal(t, http.StatusConflict, e.HTTPStatus)
	assert.Contains(t, e.JSON(), `"category":"conflict"`)
}
