// Package errs defines the typed error taxonomy that every scheduler stage
// returns instead of panicking or calling log.Fatal.
package errs

import (
	"errors"
	"fmt"
)

// Code names one entry of the scheduler's error taxonomy.
type Code string

const (
	InputMissing   Code = "INPUT_MISSING"
	InputMalformed Code = "INPUT_MALFORMED"
	ReferentialGap Code = "REFERENTIAL_GAP"
	ModelEmpty     Code = "MODEL_EMPTY"
	Infeasible     Code = "INFEASIBLE"
	Timeout        Code = "TIMEOUT"
	EmitterFailure Code = "EMITTER_FAILURE"
	ConfigInvalid  Code = "CONFIG_INVALID"
)

// ExitCode maps a taxonomy entry to a process exit status. Recoverable codes
// (InputMissing, InputMalformed, ReferentialGap, ModelEmpty) never reach here
// as a fatal error; they are logged as warnings and the run continues.
func (c Code) ExitCode() int {
	switch c {
	case Infeasible:
		return 2
	case Timeout:
		return 3
	case EmitterFailure:
		return 4
	case ConfigInvalid:
		return 5
	default:
		return 1
	}
}

// Error is a typed domain error carrying a taxonomy code alongside the
// underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error with no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a taxonomy code and message to an existing error.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// Clone returns a copy of err, optionally overriding the message.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// As reports whether err (or one it wraps) is an *Error, writing it into target.
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// CodeOf extracts the taxonomy code from err, or "" if err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
