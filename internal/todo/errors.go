package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks input outside an operation's domain. Nothing is mutated.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrParseFailure marks a snapshot or import payload that could not be decoded.
	ErrParseFailure = errors.New("parse failure")
)

// ValidationError locates a schema violation inside a JSON payload.
type ValidationError struct {
	Path string // dotted path, e.g. "[2].priority"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// parseError joins ErrParseFailure with the detail that caused it so callers
// can match either with errors.Is / errors.As.
type parseError struct {
	op   string
	errs []error
}

func newParseError(op string, errs ...error) error {
	return &parseError{op: op, errs: errs}
}

func (e *parseError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.op, ErrParseFailure)
	for _, err := range e.errs {
		msg += "; " + err.Error()
	}
	return msg
}

func (e *parseError) Unwrap() []error {
	return append([]error{ErrParseFailure}, e.errs...)
}
