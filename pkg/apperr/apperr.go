// Package apperr defines the error taxonomy shared by the governance core.
//
// Every failure that reaches a caller is one of four kinds:
//
//   - Validation: malformed or incomplete input (missing rollback plan, missing change request id)
//   - Authorization: insufficient role, missing break-glass approval, denied by policy
//   - NotFound: unknown session, policy or approval id
//   - Transport: failure reported by an external device collector
//
// The message of an *Error is machine readable and safe to return to
// operators verbatim.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindNotFound      Kind = "not_found"
	KindTransport     Kind = "transport"
	KindInternal      Kind = "internal"
)

// Error is a classified error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind and message.
// A target with an empty message matches any error of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Validation returns a bad-request class error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Forbidden returns an authorization class error.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

// NotFound returns a not-found class error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Transport wraps a collector failure.
func Transport(msg string, err error) *Error {
	return &Error{Kind: KindTransport, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to the status code the HTTP layer responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
