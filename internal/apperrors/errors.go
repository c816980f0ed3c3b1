// Package apperrors holds the error taxonomy shared by services and the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Internal Kind = iota
	NotFound
	Conflict
	Forbidden
	Unauthorized
	Validation
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "Not Found"
	case Conflict:
		return "Conflict"
	case Forbidden:
		return "Forbidden"
	case Unauthorized:
		return "Unauthorized"
	case Validation:
		return "Bad Request"
	default:
		return "Internal Server Error"
	}
}

// Error is a classified error with a message safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind and message, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches cause to a new classified error.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func NotFoundf(format string, args ...any) *Error { return Newf(NotFound, format, args...) }

func Conflictf(format string, args ...any) *Error { return Newf(Conflict, format, args...) }

func Forbiddenf(format string, args ...any) *Error { return Newf(Forbidden, format, args...) }

func Unauthorizedf(format string, args ...any) *Error { return Newf(Unauthorized, format, args...) }

func Validationf(format string, args ...any) *Error { return Newf(Validation, format, args...) }

func Internalf(cause error, format string, args ...any) *Error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
