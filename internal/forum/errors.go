package forum

import "errors"

// Kind classifies forum errors so the transport layer can map them to
// status codes without inspecting messages.
type Kind int

// Error kinds
const (
	KindUnexpected Kind = iota
	KindValidation
	KindForbidden
	KindNotFound
)

// Error is a classified forum error with a caller-facing message
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Invalid creates a validation error
func Invalid(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// Forbidden creates an authorization error
func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound creates a missing-target error
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// KindOf returns the kind of err, KindUnexpected for anything that is not
// a forum error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnexpected
}
