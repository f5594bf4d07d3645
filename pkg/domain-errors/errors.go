// Package domainerrors defines the stable error codes shared across the
// engine. Services return these; the HTTP layer maps them to status codes.
// Conventionally imported as dErrors.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure. Codes are part of the API contract:
// they appear verbatim in JSON error envelopes.
type Code string

const (
	// CodeBadRequest covers malformed or incomplete request input.
	CodeBadRequest Code = "bad_request"

	// CodeMalformedJurisdictionID means a jurisdiction ID did not match any
	// of the three encoding patterns (STATE, COUNTY, CITY).
	CodeMalformedJurisdictionID Code = "malformed_jurisdiction_id"

	// CodeResourceKindUnsupported means the requested resource kind is not
	// one of the configured kinds. This is a configuration error, not a
	// data-availability condition.
	CodeResourceKindUnsupported Code = "resource_kind_unsupported"

	// CodeNotFound means a referenced entity does not exist.
	CodeNotFound Code = "not_found"

	// CodeStoreUnavailable means the regulation store could not be reached.
	// Resolution degrades to sentinel values instead of surfacing this.
	CodeStoreUnavailable Code = "store_unavailable"

	// CodeCacheUnavailable means the result cache could not be reached.
	// Always recoverable: callers bypass the cache and compute fresh.
	CodeCacheUnavailable Code = "cache_unavailable"

	// CodeInternal is the catch-all for unexpected failures.
	CodeInternal Code = "internal_error"
)

// Error carries a code, a human-readable message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err or any error in its chain carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.Err
		if err == nil {
			return false
		}
	}
	return false
}

// CodeOf extracts the code from err, or CodeInternal if err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP response status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeMalformedJurisdictionID, CodeResourceKindUnsupported:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeStoreUnavailable, CodeCacheUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
