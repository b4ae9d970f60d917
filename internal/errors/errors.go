// Package errors defines the error taxonomy shared by the console and the
// document store client.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	ErrValidation        = new(ErrCodeValidation, "validation error")
	ErrTransport         = new(ErrCodeTransport, "transport error")
	ErrNotFound          = new(ErrCodeNotFound, "resource not found")
	ErrInvalidTransition = new(ErrCodeInvalidTransition, "invalid status transition")
	ErrNoSelection       = new(ErrCodeNoSelection, "no document selected")
	ErrDialogBusy        = new(ErrCodeDialogBusy, "assignment already in progress")
	ErrDialogClosed      = new(ErrCodeDialogClosed, "assignment dialog is not open")
	ErrAlreadyBound      = new(ErrCodeAlreadyBound, "editor already bound")
	ErrSystem            = new(ErrCodeSystemError, "system error")
)

const (
	ErrCodeValidation        = "validation_error"
	ErrCodeTransport         = "transport_error"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidTransition = "invalid_transition"
	ErrCodeNoSelection       = "no_selection"
	ErrCodeDialogBusy        = "dialog_busy"
	ErrCodeDialogClosed      = "dialog_closed"
	ErrCodeAlreadyBound      = "already_bound"
	ErrCodeSystemError       = "system_error"
)

// InternalError is a sentinel carrying a machine-readable code.
type InternalError struct {
	Code    string
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is matches sentinels by code so wrapped copies still compare equal.
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}
	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}
	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsTransport reports network and HTTP failures. Not-found responses are
// transport failures too.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

func IsNoSelection(err error) bool {
	return errors.Is(err, ErrNoSelection)
}

// Hint returns the first user-facing hint attached to err, or "".
func Hint(err error) string {
	if err == nil {
		return ""
	}
	hints := errors.GetAllHints(err)
	if len(hints) == 0 {
		return ""
	}
	return hints[0]
}
