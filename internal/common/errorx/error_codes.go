package errorx

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryValidation     ErrorCategory = "validation"
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryAuthorization  ErrorCategory = "authorization"
	CategoryNotFound       ErrorCategory = "not_found"
	CategoryConflict       ErrorCategory = "conflict"
	CategoryRateLimit      ErrorCategory = "rate_limit"
	CategoryInternal       ErrorCategory = "internal"
)

// Severity represents the severity level of an error
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// APIError is the body of every non-2xx response
type APIError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Category   ErrorCategory  `json:"category"`
	Severity   Severity       `json:"severity"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	TraceID    string         `json:"trace_id,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty"`

	// MessageID and Params drive translation of Message
	MessageID string         `json:"-"`
	Params    map[string]any `json:"-"`

	cause error
}

// FieldError describes one rejected input field
type FieldError struct {
	Field     string `json:"field"`
	Rule      string `json:"rule"`
	Param     string `json:"param,omitempty"`
	Message   string `json:"message"`
	MessageID string `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Code, e.Category, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Category, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *APIError) Unwrap() error {
	return e.cause
}

// JSON returns the error as a JSON string
func (e *APIError) JSON() string {
	out, _ := json.Marshal(e)
	return string(out)
}

// Wrap records the cause. The cause is logged, never sent to the client.
func (e *APIError) Wrap(err error) *APIError {
	e.cause = err
	return e
}

// WithDetail adds a detail to the error
func (e *APIError) WithDetail(key string, value any) *APIError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithParam adds a translation parameter
func (e *APIError) WithParam(key string, value any) *APIError {
	if e.Params == nil {
		e.Params = make(map[string]any)
	}
	e.Params[key] = value
	return e
}

func newError(code, msgID, message string, category ErrorCategory, severity Severity, status int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		Category:   category,
		Severity:   severity,
		HTTPStatus: status,
		MessageID:  msgID,
	}
}

// Validation carries the rejected fields under details.fields
func Validation(fields ...FieldError) *APIError {
	e := newError("E1001", "ErrorValidation", "Validation failed",
		CategoryValidation, SeverityWarning, http.StatusBadRequest)
	if fields == nil {
		fields = []FieldError{}
	}
	return e.WithDetail("fields", fields)
}

// MalformedBody reports a request body that could not be decoded
func MalformedBody(err error) *APIError {
	e := newError("E1002", "ErrorMalformedBody", "The request body is not valid JSON",
		CategoryValidation, SeverityWarning, http.StatusBadRequest)
	return e.WithDetail("fields", []FieldError{{
		Field:     "body",
		Rule:      "json",
		Message:   "The request body is not valid JSON",
		MessageID: "ErrorMalformedBody",
	}}).Wrap(err)
}

func InvalidID() *APIError {
	return newError("E1003", "ErrorInvalidID", "The identifier is not a valid UUID",
		CategoryValidation, SeverityWarning, http.StatusBadRequest)
}

func Unauthenticated() *APIError {
	return newError("E2001", "ErrorUnauthenticated", "Authentication is required",
		CategoryAuthentication, SeverityWarning, http.StatusUnauthorized)
}

func InvalidToken(err error) *APIError {
	return newError("E2002", "ErrorInvalidToken", "The bearer token is invalid or expired",
		CategoryAuthentication, SeverityWarning, http.StatusUnauthorized).Wrap(err)
}

func MissingSubject() *APIError {
	return newError("E2003", "ErrorMissingSubject", "The token carries no subject",
		CategoryAuthentication, SeverityWarning, http.StatusUnauthorized)
}

func Forbidden() *APIError {
	return newError("E3001", "ErrorForbidden", "This resource requires the Admin role",
		CategoryAuthorization, SeverityWarning, http.StatusForbidden)
}

// NotFound names the missing resource, e.g. "Report"
func NotFound(resource string) *APIError {
	return newError("E4001", "ErrorNotFound", resource+" not found",
		CategoryNotFound, SeverityWarning, http.StatusNotFound).
		WithParam("Resource", resource)
}

// Conflict signals a concurrent modification the client may retry
func Conflict(resource string) *APIError {
	return newError("E4092", "ErrorConflict", resource+" was modified concurrently, retry the request",
		CategoryConflict, SeverityWarning, http.StatusConflict).
		WithParam("Resource", resource).
		WithDetail("retryable", true)
}

func TooManyRequests() *APIError {
	return newError("E4291", "ErrorTooManyRequests", "Too many requests, slow down",
		CategoryRateLimit, SeverityWarning, http.StatusTooManyRequests)
}

// Internal hides err from the client and keeps it for the log
func Internal(err error) *APIError {
	return newError("E5001", "ErrorInternal", "Internal server error",
		CategoryInternal, SeverityCritical, http.StatusInternalServerError).Wrap(err)
}
