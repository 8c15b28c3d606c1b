package backend

import (
	"errors"
	"fmt"
)

// Error is a sentinel backend error.
type Error string

const (
	ErrMissingID   = Error("row has no id")
	ErrBadEnvelope = Error("malformed page envelope")
	ErrBadColumns  = Error("malformed column payload")
)

func (e Error) Error() string {
	return string(e)
}

// Kind classifies which backend call failed.
type Kind string

const (
	KindColumnsFetch Kind = "columns_fetch"
	KindRowsFetch    Kind = "rows_fetch"
	KindSubmission   Kind = "submission"
)

// RequestError carries the context of a failed backend call.
type RequestError struct {
	Kind       Kind
	StatusCode int
	Page       int
	RequestID  string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Kind)
	if e.Page > 0 {
		msg = fmt.Sprintf("%s failed for page %d", e.Kind, e.Page)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a backend failure of the given kind.
func IsKind(err error, k Kind) bool {
	var re *RequestError
	if !errors.As(err, &re) {
		return false
	}
	return re.Kind == k
}

// StatusOf returns the HTTP status carried by err, 0 if none.
func StatusOf(err error) int {
	var re *RequestError
	if !errors.As(err, &re) {
		return 0
	}
	return re.StatusCode
}
