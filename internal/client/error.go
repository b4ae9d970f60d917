package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	ierr "erpdesk/internal/errors"
)

// StatusError is a non-2xx response from the document store.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     []string
}

func (e *StatusError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("document store returned %d", e.StatusCode)
	}
	return fmt.Sprintf("document store returned %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// newStatusError decodes the store envelope {"code","error","details"} and
// marks the result with the error taxonomy.
func newStatusError(statusCode int, body []byte) error {
	statusErr := &StatusError{StatusCode: statusCode}
	var envelope struct {
		Code    string `json:"code"`
		Error   string `json:"error"`
		Details struct {
			Fields []string `json:"fields"`
		} `json:"details"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		statusErr.Code = envelope.Code
		statusErr.Message = envelope.Error
		statusErr.Fields = envelope.Details.Fields
	}

	hint := statusErr.Message
	if hint == "" {
		hint = strings.ToLower(http.StatusText(statusCode))
	}

	err := ierr.WithError(statusErr).WithHint(hint).Mark(ierr.ErrTransport)
	switch statusCode {
	case http.StatusNotFound:
		err = ierr.WithError(err).Mark(ierr.ErrNotFound)
	case http.StatusUnprocessableEntity:
		err = ierr.WithError(err).Mark(ierr.ErrValidation)
	case http.StatusConflict:
		if statusErr.Code == "INVALID_TRANSITION" {
			err = ierr.WithError(err).Mark(ierr.ErrInvalidTransition)
		}
	}
	return err
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if ierr.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
