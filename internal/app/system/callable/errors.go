// internal/app/system/callable/errors.go
package callable

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/daycarehub/internal/app/system/inputval"
)

// Kind classifies a callable failure. The string form is the wire status
// returned to clients.
type Kind string

const (
	Unauthenticated   Kind = "UNAUTHENTICATED"
	PermissionDenied  Kind = "PERMISSION_DENIED"
	InvalidArgument   Kind = "INVALID_ARGUMENT"
	NotFound          Kind = "NOT_FOUND"
	AlreadyExists     Kind = "ALREADY_EXISTS"
	ResourceExhausted Kind = "RESOURCE_EXHAUSTED"
	Internal          Kind = "INTERNAL"
)

// HTTPStatus maps a Kind to the HTTP status code of the response.
func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case PermissionDenied:
		return http.StatusForbidden
	case InvalidArgument:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists:
		return http.StatusConflict
	case ResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure with a stable kind and a message safe to show the caller.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause of an Internal error for logging.
func (e *Error) Unwrap() error {
	return e.cause
}

// Errorf builds an Error of the given kind.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap turns an unexpected failure into an Internal error whose message
// interpolates the cause: "Failed to <op>: <cause>".
// Errors that already carry a Kind are returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{
		Kind:    Internal,
		Message: fmt.Sprintf("Failed to %s: %s", op, err.Error()),
		cause:   err,
	}
}

// KindOf reports the Kind of err. Errors without a Kind are Internal.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return Internal
}

// Is reports whether err is a callable Error of the given kind.
func Is(err error, kind Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

// Invalid converts a request validation failure into an InvalidArgument
// error. A missing required field reports required; any other failed
// constraint reports other.
func Invalid(err error, required, other string) error {
	if err == nil {
		return nil
	}
	var verrs inputval.Errors
	if errors.As(err, &verrs) && verrs.Has("required") {
		return Errorf(InvalidArgument, "%s", required)
	}
	return Errorf(InvalidArgument, "%s", other)
}
