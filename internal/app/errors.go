package app

import (
	"fmt"
	"net/http"

	"erpdesk/internal/document"
	ierr "erpdesk/internal/errors"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// domainErrorFrom converts the document package's taxonomy into HTTP
// semantics. Anything it does not recognize is returned unchanged.
func domainErrorFrom(err error) error {
	switch {
	case ierr.IsValidation(err):
		message := ierr.Hint(err)
		if message == "" {
			message = "Validation failed"
		}
		var details any
		if fields := document.InvalidFields(err); len(fields) > 0 {
			details = map[string]any{"fields": fields}
		}
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", message, details)
	case ierr.IsInvalidTransition(err):
		message := ierr.Hint(err)
		if message == "" {
			message = "Status change not allowed"
		}
		return domainError(http.StatusConflict, "INVALID_TRANSITION", message, nil)
	default:
		return err
	}
}
