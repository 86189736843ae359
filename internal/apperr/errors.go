// Package apperr defines the error kinds surfaced to users at the request
// boundary. Callers wrap them with context and match with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrConflict            = errors.New("conflict")
	ErrAuthentication      = errors.New("invalid email or password")
	ErrNotFoundOrForbidden = errors.New("not found")
)

type userError struct {
	kind error
	msg  string
}

func (e *userError) Error() string { return e.kind.Error() + ": " + e.msg }
func (e *userError) Unwrap() error { return e.kind }

// New returns an error of the given kind carrying a message safe to show to
// the user.
func New(kind error, msg string) error {
	return &userError{kind: kind, msg: msg}
}

// Newf is New with formatting.
func Newf(kind error, format string, args ...any) error {
	return &userError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Message extracts the user-visible text of err. Errors that are not one of
// the known kinds yield a generic message so internals never leak.
func Message(err error) string {
	var ue *userError
	if errors.As(err, &ue) {
		return ue.msg
	}
	switch {
	case errors.Is(err, ErrAuthentication):
		return "Invalid email or password"
	case errors.Is(err, ErrValidation):
		return "Invalid input"
	case errors.Is(err, ErrConflict):
		return "Already exists"
	default:
		return "Something went wrong, please try again"
	}
}

// IsUserError reports whether err is one of the kinds that is shown to the
// user rather than treated as an internal failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAuthentication) ||
		errors.Is(err, ErrNotFoundOrForbidden)
}
