// Package apperr defines the error kinds shared by the books and the dispatcher.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
	ErrUsage         = errors.New("usage")
	ErrParse         = errors.New("parse error")
)

// Error is a user-facing error of a known kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf returns an ErrNotFound error with a formatted message.
func NotFoundf(format string, args ...any) error { return newf(ErrNotFound, format, args...) }

// AlreadyExistsf returns an ErrAlreadyExists error with a formatted message.
func AlreadyExistsf(format string, args ...any) error {
	return newf(ErrAlreadyExists, format, args...)
}

// Validationf returns an ErrValidation error with a formatted message.
func Validationf(format string, args ...any) error { return newf(ErrValidation, format, args...) }

// Usagef returns an ErrUsage error with a formatted message.
func Usagef(format string, args ...any) error { return newf(ErrUsage, format, args...) }

// Parsef returns an ErrParse error with a formatted message.
func Parsef(format string, args ...any) error { return newf(ErrParse, format, args...) }

// Validation wraps a rule violation (typically from ozzo-validation) as ErrValidation.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrValidation, Msg: err.Error()}
}

// Message returns the user-facing text of err, unwrapping to the first *Error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}
