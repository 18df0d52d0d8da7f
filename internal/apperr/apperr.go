// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by the catalog and
// asset subsystems. Every domain failure is one of five kinds so that
// handlers can map errors to HTTP statuses and callers can decide
// whether to roll back, retry, or just log.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error.
type Kind string

const (
	// Validation: malformed or missing input, detected before any
	// network or database call.
	Validation Kind = "validation"

	// NotFound: a referenced id does not exist.
	NotFound Kind = "not_found"

	// Blocked: the operation is refused by a business invariant
	// (e.g. deleting a category that still has children).
	Blocked Kind = "blocked"

	// Transport: no response was received (offline, DNS, timeout).
	Transport Kind = "transport"

	// Remote: a response was received with a failure status.
	Remote Kind = "remote"
)

// Error is a classified domain error. Message holds the most specific
// human-readable text available; Status carries the remote HTTP status
// for Remote errors (0 otherwise).
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind wrapping a cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// FromStatus builds a Remote error for an HTTP failure status. When the
// remote side provided no message, a generic fallback per status class
// is used so the user always sees something actionable.
func FromStatus(status int, msg string) *Error {
	if msg == "" {
		switch {
		case status == 401:
			msg = "unauthorized"
		case status == 403:
			msg = "forbidden"
		case status == 404:
			msg = "not found"
		case status >= 400 && status < 500:
			msg = "bad request"
		default:
			msg = "server error"
		}
	}
	return &Error{Kind: Remote, Message: msg, Status: status}
}

// KindOf returns the Kind of err, or "" if err is not a classified error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is a classified error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return IsKind(err, Validation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return IsKind(err, NotFound) }

// IsBlocked reports whether err is a blocked error.
func IsBlocked(err error) bool { return IsKind(err, Blocked) }

// IsTransport reports whether err is a transport error.
func IsTransport(err error) bool { return IsKind(err, Transport) }

// IsRemote reports whether err is a remote error.
func IsRemote(err error) bool { return IsKind(err, Remote) }
