// Package fwerr classifies the failures the calculation engine can produce
// so transport layers can map them to status codes without string matching.
package fwerr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind is the machine-readable classification of an engine error.
type Kind string

const (
	// KindInput covers malformed sequences, non-positive dimensions and
	// other caller mistakes. Never retried.
	KindInput Kind = "input"

	// KindNumerical covers singular matrices, non-convergent roots and
	// division by degenerate quantities.
	KindNumerical Kind = "numerical"

	// KindConfig covers missing material or process entries.
	KindConfig Kind = "config"
)

// Error is a classified engine error. ID is generated at construction so a
// response and its log line can be correlated.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	ID      string `json:"error_id"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Message, e.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so sentinel comparisons like
// errors.Is(err, &Error{Kind: KindInput}) work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		ID:      uuid.NewString(),
	}
}

// Input creates a KindInput error.
func Input(format string, args ...any) *Error {
	return newError(KindInput, format, args...)
}

// Numerical creates a KindNumerical error.
func Numerical(format string, args ...any) *Error {
	return newError(KindNumerical, format, args...)
}

// Config creates a KindConfig error.
func Config(format string, args ...any) *Error {
	return newError(KindConfig, format, args...)
}

// Wrap classifies an underlying error, keeping it on the chain for
// errors.Is/As inspection.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		ID:      uuid.NewString(),
		Err:     err,
	}
}

// KindOf returns the classification of err, or an empty Kind for errors
// that did not come from the engine.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Kind("")
}

// IsInput reports whether err is classified as a caller mistake.
func IsInput(err error) bool { return KindOf(err) == KindInput }

// IsNumerical reports whether err is classified as a numerical failure.
func IsNumerical(err error) bool { return KindOf(err) == KindNumerical }

// IsConfig reports whether err is classified as a configuration failure.
func IsConfig(err error) bool { return KindOf(err) == KindConfig }
