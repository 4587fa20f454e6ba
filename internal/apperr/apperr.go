// Package apperr defines the error taxonomy surfaced to API callers.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	// KindValidation is malformed or missing input.
	KindValidation Kind = iota + 1
	// KindBusiness is a deterministic rule rejection given current state.
	KindBusiness
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

// HTTPStatus maps the kind to a response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindBusiness:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Error is a caller-facing error with a stable code.
type Error struct {
	Kind    Kind
	Code    string         // Machine-readable code, also the i18n message id
	Message string         // Default English text
	Field   string         // Offending request field, if any
	Params  map[string]any // Template data for localisation
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithField returns a copy of e naming the offending field.
func (e *Error) WithField(field string) *Error {
	cp := *e
	cp.Field = field
	cp.Params = map[string]any{"Field": field}
	for k, v := range e.Params {
		cp.Params[k] = v
	}
	return &cp
}

// WithParams returns a copy of e carrying extra template data.
func (e *Error) WithParams(params map[string]any) *Error {
	cp := *e
	cp.Params = make(map[string]any, len(e.Params)+len(params))
	for k, v := range e.Params {
		cp.Params[k] = v
	}
	for k, v := range params {
		cp.Params[k] = v
	}
	return &cp
}

// Wrap returns a copy of e with cause attached.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or zero for infrastructure errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return 0
}
