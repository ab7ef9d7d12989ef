package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError carries a non-2xx response. Message holds the most specific
// server-provided error, picked in order: email field error, password
// field error, detail, non_field_errors. It stays empty when the body has
// none of those, so callers can substitute their own generic message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound reports whether err is a 404 response. The monthly-summary
// lookup is the only caller that treats this as "no data" rather than a
// failure.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func newAPIError(status int, body []byte) *APIError {
	var fields struct {
		Email          []string `json:"email"`
		Password       []string `json:"password"`
		Detail         string   `json:"detail"`
		NonFieldErrors []string `json:"non_field_errors"`
	}
	// Body may be empty or non-JSON; either way we fall back to the status.
	_ = json.Unmarshal(body, &fields)

	msg := ""
	switch {
	case len(fields.Email) > 0:
		msg = fields.Email[0]
	case len(fields.Password) > 0:
		msg = fields.Password[0]
	case fields.Detail != "":
		msg = fields.Detail
	case len(fields.NonFieldErrors) > 0:
		msg = fields.NonFieldErrors[0]
	}
	return &APIError{StatusCode: status, Message: msg}
}
