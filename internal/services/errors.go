package services

import "errors"

// ErrorKind classifies failures that callers are expected to report back to
// the client as-is.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindForbidden
	KindUnauthorized
)

// Error is a client-facing failure with a human readable message. Anything
// else returned by a service is an internal (storage) error.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func validationError(msg string) error   { return &Error{Kind: KindValidation, Message: msg} }
func notFoundError(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }
func forbiddenError(msg string) error    { return &Error{Kind: KindForbidden, Message: msg} }
func unauthorizedError(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }

// KindOf returns the kind of a service error, or 0 for internal errors.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return 0
}
