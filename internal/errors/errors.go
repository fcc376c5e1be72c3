package errors

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	// ErrorTypePrecondition aborts the run: no repository, dirty tree
	// without force, unusable arguments.
	ErrorTypePrecondition ErrorType = "PRECONDITION"
	// ErrorTypeApply is a per-file timestamp write failure. Recovered,
	// counted, never fatal.
	ErrorTypeApply ErrorType = "APPLY"
	// ErrorTypeParse is a malformed history record. Skipped and counted.
	ErrorTypeParse ErrorType = "PARSE"
	// ErrorTypeGit covers subprocess failures outside early termination.
	ErrorTypeGit ErrorType = "GIT"
)

type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Path    string    `json:"path,omitempty"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Precondition(format string, args ...any) *Error {
	return &Error{
		Type:    ErrorTypePrecondition,
		Message: fmt.Sprintf(format, args...),
	}
}

func Apply(path string, err error) *Error {
	return &Error{
		Type:    ErrorTypeApply,
		Message: "setting file times",
		Path:    path,
		Err:     err,
	}
}

func Parse(message string) *Error {
	return &Error{
		Type:    ErrorTypeParse,
		Message: message,
	}
}

func Git(message string, err error) *Error {
	return &Error{
		Type:    ErrorTypeGit,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether err is or wraps an *Error of the given type.
func IsType(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// Is and As re-export the standard helpers so callers get by with one
// errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
