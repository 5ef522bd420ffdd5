package types

import (
	"errors"
	"fmt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Error kinds
// ──────────────────────────────────────────────────────────────────────────────

type Kind string

const (
	KindConfiguration Kind = "CONFIGURATION_ERROR"
	KindCredential    Kind = "CREDENTIAL_ERROR"
	KindTransport     Kind = "TRANSPORT_ERROR"
	KindMapping       Kind = "MAPPING_ERROR"
	KindValidation    Kind = "VALIDATION_ERROR"
)

// ──────────────────────────────────────────────────────────────────────────────
// Error is a classified failure raised while resolving or executing a call
// ──────────────────────────────────────────────────────────────────────────────

type Error struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"` // 0 when no response was received
	Err        error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusCodeOf returns the HTTP status carried by err, or 0.
func StatusCodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// ──────────────────────────────────────────────────────────────────────────────
// Constructors
// ──────────────────────────────────────────────────────────────────────────────

func ErrConfiguration(msg string) *Error {
	return &Error{Kind: KindConfiguration, Message: msg}
}

func ErrCredential(msg string) *Error {
	return &Error{Kind: KindCredential, Message: msg}
}

func ErrTransport(msg string, statusCode int, err error) *Error {
	return &Error{Kind: KindTransport, Message: msg, StatusCode: statusCode, Err: err}
}

func ErrMapping(msg string, err error) *Error {
	return &Error{Kind: KindMapping, Message: msg, Err: err}
}

func ErrValidation(field, reason string) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf("validation: %s %s", field, reason)}
}
