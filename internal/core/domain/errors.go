package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable error classification exposed on the wire. Clients
// branch on the kind, never on the message.
type ErrorKind string

const (
	KindUnauthenticated  ErrorKind = "unauthenticated"
	KindInvalidArgument  ErrorKind = "invalid_argument"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindAlreadyExists    ErrorKind = "already_exists"
	KindNotFound         ErrorKind = "not_found"
	KindInternal         ErrorKind = "internal"
)

// Error is the structured error returned by every gateway operation.
// Details is optional and carries the collaborator's original code/message
// when the failure was re-classified as internal.
type Error struct {
	Kind    ErrorKind
	Message string
	Details string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// E builds a gateway error of the given kind.
func E(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Internal wraps a collaborator failure, preserving its text as detail so the
// caller can diagnose without us leaking a raw stack.
func Internal(message string, cause error) *Error {
	e := &Error{Kind: KindInternal, Message: message}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// KindOf classifies any error: gateway errors report their own kind, anything
// else is internal.
func KindOf(err error) ErrorKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindInternal
}
