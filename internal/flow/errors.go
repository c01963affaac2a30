package flow

import (
	"errors"
	"fmt"

	"github.com/kiranshivaraju/radassist/internal/contract"
)

// Kind classifies why a stage failed.
type Kind string

const (
	KindInputValidation   Kind = "input_validation"
	KindBackendInvocation Kind = "backend_invocation"
	KindSchemaParse       Kind = "schema_parse"
	KindPartialFailure    Kind = "partial_failure"
)

var (
	ErrInputValidation   = contract.ErrInputValidation
	ErrBackendInvocation = errors.New("backend invocation failed")
	ErrSchemaParse       = errors.New("backend output did not match the stage contract")
	ErrPartialFailure    = errors.New("not every analysis stage succeeded")

	// ErrPromptUnavailable marks a stage whose prompt is missing from the
	// catalogue or failed to render. The backend was never called.
	ErrPromptUnavailable = errors.New("stage prompt unavailable")
)

func (k Kind) sentinel() error {
	switch k {
	case KindInputValidation:
		return ErrInputValidation
	case KindBackendInvocation:
		return ErrBackendInvocation
	case KindSchemaParse:
		return ErrSchemaParse
	case KindPartialFailure:
		return ErrPartialFailure
	}
	return nil
}

// StageError reports a failed stage. It matches both its Kind's sentinel and
// the underlying cause under errors.Is.
type StageError struct {
	Stage string
	Kind  Kind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	if s := e.Kind.sentinel(); s != nil {
		return []error{s, e.Err}
	}
	return []error{e.Err}
}

// KindOf returns the outermost classification of err, or "" when err is not a stage failure.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPartialFailure):
		return KindPartialFailure
	case errors.Is(err, ErrInputValidation):
		return KindInputValidation
	case errors.Is(err, ErrSchemaParse):
		return KindSchemaParse
	case errors.Is(err, ErrBackendInvocation):
		return KindBackendInvocation
	}
	return ""
}
