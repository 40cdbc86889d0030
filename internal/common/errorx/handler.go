package errorx

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/techmine/techmine/internal/common/cnst"
	"go.uber.org/zap"
)

// Translator localizes message ids
type Translator interface {
	Translate(lang, msgID string, data map[string]any) string
	Default() string
}

// ErrorHandler provides unified error handling capabilities
type ErrorHandler struct {
	logger     *zap.Logger
	translator Translator
}

// NewErrorHandler creates a new error handler. translator may be nil.
func NewErrorHandler(logger *zap.Logger, translator Translator) *ErrorHandler {
	return &ErrorHandler{
		logger:     logger,
		translator: translator,
	}
}

// HandleError converts any error to APIError and writes it as the response
func (h *ErrorHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	apiErr := ConvertToAPIError(err)
	apiErr.TraceID = ExtractTraceID(c)
	apiErr.Timestamp = time.Now().UTC().Format(time.RFC3339)
	h.translate(c, apiErr)

	h.logError(c, apiErr)

	c.Header(cnst.HeaderTraceID, apiErr.TraceID)
	c.AbortWithStatusJSON(apiErr.HTTPStatus, apiErr)
}

// ConvertToAPIError returns the APIError in err's chain or a generic internal
// error wrapping err
func ConvertToAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}

func (h *ErrorHandler) translate(c *gin.Context, apiErr *APIError) {
	if h.translator == nil {
		return
	}
	lang := c.GetString(cnst.CtxKeyLang)
	if lang == "" {
		lang = h.translator.Default()
	}

	data := make(map[string]any, len(apiErr.Params))
	for k, v := range apiErr.Params {
		data[k] = v
	}
	if res, ok := data["Resource"].(string); ok {
		data["Resource"] = h.translator.Translate(lang, "Resource"+res, nil)
	}
	if apiErr.MessageID != "" {
		apiErr.Message = h.translator.Translate(lang, apiErr.MessageID, data)
	}

	fields, ok := apiErr.Details["fields"].([]FieldError)
	if !ok {
		return
	}
	translated := make([]FieldError, len(fields))
	for i, f := range fields {
		translated[i] = f
		if f.MessageID != "" {
			translated[i].Message = h.translator.Translate(lang, f.MessageID, map[string]any{
				"Field": f.Field,
				"Param": f.Param,
			})
		}
	}
	apiErr.Details["fields"] = translated
}

// logError logs the error with request context. Critical errors carry a stack.
func (h *ErrorHandler) logError(c *gin.Context, apiErr *APIError) {
	fields := []zap.Field{
		zap.String("trace_id", apiErr.TraceID),
		zap.String("error_code", apiErr.Code),
		zap.String("category", string(apiErr.Category)),
		zap.Int("http_status", apiErr.HTTPStatus),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("client_ip", c.ClientIP()),
	}
	if apiErr.cause != nil {
		fields = append(fields, zap.Error(apiErr.cause))
	}

	switch apiErr.Severity {
	case SeverityInfo:
		h.logger.Info(apiErr.Message, fields...)
	case SeverityWarning:
		h.logger.Warn(apiErr.Message, fields...)
	case SeverityCritical:
		buf := make([]byte, 1024*4)
		n := runtime.Stack(buf, false)
		h.logger.Error(apiErr.Message, append(fields, zap.String("stack_trace", string(buf[:n])))...)
	default:
		h.logger.Error(apiErr.Message, fields...)
	}
}

// RecoveryMiddleware turns panics into a 500 APIError
func (h *ErrorHandler) RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		h.HandleError(c, Internal(fmt.Errorf("panic: %v", recovered)))
	})
}

// TraceMiddleware assigns every request a trace id, reusing X-Trace-Id when
// the caller sends one
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(cnst.HeaderTraceID, ExtractTraceID(c))
		c.Next()
	}
}

// ExtractTraceID extracts trace ID from context or request
func ExtractTraceID(c *gin.Context) string {
	if traceID := c.GetString(cnst.CtxKeyTraceID); traceID != "" {
		return traceID
	}
	traceID := c.GetHeader(cnst.HeaderTraceID)
	if traceID == "" {
		traceID = uuid.New().String()
	}
	c.Set(cnst.CtxKeyTraceID, traceID)
	return traceID
}
