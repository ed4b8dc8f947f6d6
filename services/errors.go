package services

import (
	"errors"
	"fmt"
)

// Validation codes surfaced to the view.
const (
	CodeInsufficientSelection = "InsufficientSelection"
	CodeInvalidAmount         = "InvalidAmount"
	CodeMissingField          = "MissingField"
	CodeUnknownStatus         = "UnknownStatus"
	CodeNoBillCapture         = "NoBillCapture"
)

var (
	ErrInsufficientSelection = &ValidationError{Code: CodeInsufficientSelection, Message: "select at least two tables to link"}
	ErrInvalidAmount         = &ValidationError{Code: CodeInvalidAmount, Message: "bill amount must be a non-negative number"}
	ErrMissingField          = &ValidationError{Code: CodeMissingField, Message: "required reservation field is missing"}
	ErrUnknownStatus         = &ValidationError{Code: CodeUnknownStatus, Message: "unknown reservation status"}
	ErrNoBillCapture         = &ValidationError{Code: CodeNoBillCapture, Message: "no bill capture in progress"}
)

// ValidationError is raised before any mutation or network call.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches on Code so detailed errors still satisfy errors.Is against the
// package sentinels.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

func validationf(code, format string, args ...interface{}) error {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// BackendError is a non-2xx response or a transport failure. StatusCode is 0
// for transport failures.
type BackendError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("backend unreachable: %v", e.Err)
		}
		return "backend unreachable"
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
