package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrRunnerMustBeSet = errors.New("runner must be set")
	ErrStreamMustBeSet = errors.New("stream must be set")
	ErrStreamClosed    = errors.New("stream is closed")
	ErrEmptyStream     = errors.New("empty stream and no initial value")
	ErrDomain          = errors.New("record outside stage domain")
	ErrTypeConstraint  = errors.New("record type incompatible with stage domain")
	ErrUnknownPolicy   = errors.New("unknown failure policy")
	ErrParallelLimit   = errors.New("limit must be greater than 0")
)

// DomainError is returned by a stage when a record does not satisfy its input precondition.
type DomainError struct {
	Stage string
	Value any
	Want  string
}

// NewDomainError creates a DomainError for the given stage.
func NewDomainError(stage string, value any, want string) *DomainError {
	return &DomainError{Stage: stage, Value: value, Want: want}
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("stage %q: %v is not %s", e.Stage, e.Value, e.Want)
}

func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// TypeConstraintError is returned before a run when an input record is outside the domain
// declared by the first stage.
type TypeConstraintError struct {
	Index int
	Stage string
	Value any
	Want  string
}

func (e *TypeConstraintError) Error() string {
	return fmt.Sprintf("record %d: %v is not %s as required by stage %q", e.Index, e.Value, e.Want, e.Stage)
}

func (e *TypeConstraintError) Is(target error) bool {
	return target == ErrTypeConstraint
}

// PipelineError is returned when a stage fails under the abort-pipeline policy.
type PipelineError[T any] struct {
	Record T
	Err    error
	Stage  string
	Index  int
}

func (e *PipelineError[T]) Error() string {
	return fmt.Sprintf("record %d failed at stage %q: %v", e.Index, e.Stage, e.Err)
}

func (e *PipelineError[T]) Unwrap() error {
	return e.Err
}
