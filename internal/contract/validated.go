// Package contract defines the typed inputs and outputs exchanged with each flow stage,
// the JSON schemas sent to the backend, and the validators guarding both directions.
package contract

import (
	"errors"
	"fmt"
)

// ErrInputValidation marks input rejected before any backend call.
var ErrInputValidation = errors.New("input validation failed")

// Validated is either an accepted value or a rejection reason. Flows only take
// Validated inputs, so an unchecked value cannot reach the backend.
type Validated[T any] struct {
	value    T
	reason   string
	rejected bool
}

// Accept wraps a value that passed validation.
func Accept[T any](v T) Validated[T] {
	return Validated[T]{value: v}
}

// Reject records why a value was refused.
func Reject[T any](format string, args ...any) Validated[T] {
	return Validated[T]{reason: fmt.Sprintf(format, args...), rejected: true}
}

// OK reports whether the value was accepted.
func (v Validated[T]) OK() bool { return !v.rejected }

// Reason is empty for accepted values.
func (v Validated[T]) Reason() string { return v.reason }

// Get returns the accepted value, or an error wrapping ErrInputValidation.
func (v Validated[T]) Get() (T, error) {
	if v.rejected {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrInputValidation, v.reason)
	}
	return v.value, nil
}
