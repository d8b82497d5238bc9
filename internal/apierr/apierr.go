package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the typed failure surfaced by services. Status maps directly to the
// HTTP response code; Code is a stable machine-readable tag the UI keys on.
type Error struct {
	Status int
	Code   string
	Field  string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

const (
	CodeValidation       = "validation"
	CodeInvalidState     = "invalid_state"
	CodeStoreUnavailable = "store_unavailable"
	CodeNotFound         = "not_found"
)

// Validation marks a rejected input (missing company, bad time range). Field
// names the offending input when known.
func Validation(field string, err error) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: CodeValidation, Field: field, Err: err}
}

// InvalidState marks a transition requested from a state that does not permit
// it. Nothing was written; the caller should re-read and retry the correct
// transition.
func InvalidState(err error) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeInvalidState, Err: err}
}

// StoreUnavailable wraps a failed persistence call. Not retried by the core.
func StoreUnavailable(err error) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Code: CodeStoreUnavailable, Err: err}
}

func NotFound(err error) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Err: err}
}

func IsValidation(err error) bool       { return hasCode(err, CodeValidation) }
func IsInvalidState(err error) bool     { return hasCode(err, CodeInvalidState) }
func IsStoreUnavailable(err error) bool { return hasCode(err, CodeStoreUnavailable) }
func IsNotFound(err error) bool         { return hasCode(err, CodeNotFound) }

func hasCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// From returns the typed error inside err, or wraps err as a StoreUnavailable
// when no typed error is present.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return StoreUnavailable(err)
}
