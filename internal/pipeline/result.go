package pipeline

import "github.com/kiranshivaraju/radassist/internal/flow"

// Result is the outcome of a user-facing operation. Stage errors are folded into
// it so nothing above the session boundary has to handle raw errors.
type Result[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
	Kind    flow.Kind `json:"kind,omitempty"`
	// Skipped is set when a precondition was not met and nothing ran.
	Skipped bool `json:"skipped,omitempty"`

	cause error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Success: true, Data: v}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{Error: err.Error(), Kind: flow.KindOf(err), cause: err}
}

func Skip[T any](reason string) Result[T] {
	return Result[T]{Skipped: true, Error: reason}
}

// Err returns the failure behind an unsuccessful Result, or nil.
func (r Result[T]) Err() error { return r.cause }
