package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response decoded from the server's error body
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []FieldError
	TraceID string
}

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (http %d): %s", e.Code, e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func IsNotFound(err error) bool { return IsStatus(err, http.StatusNotFound) }

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		TraceID string `json:"trace_id"`
		Details struct {
			Fields []FieldError `json:"fields"`
		} `json:"details"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return apiErr
	}
	apiErr.Code = payload.Code
	apiErr.TraceID = payload.TraceID
	apiErr.Fields = payload.Details.Fields
	if payload.Message != "" {
		apiErr.Message = payload.Message
	}
	return apiErr
}
