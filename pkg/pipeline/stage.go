package pipeline

import (
	"context"
)

// Stage is a named, pure transformation applied to one record at a time.
//
// Apply returns the transformed record and whether it must be kept. A filter returns
// keep=false to drop a record without failing. Stages must not read or write state outside of
// their input and output; per-run state is obtained through Opener.
type Stage[T any] interface {
	Name() string
	Apply(ctx context.Context, in T) (out T, keep bool, err error)
}

// Opener is implemented by stages that need state for the duration of one run, such as
// deduplication. The runner calls Open once per run and uses the returned stage.
type Opener[T any] interface {
	Open() Stage[T]
}

// Constrained is implemented by stages declaring the domain of records they accept.
type Constrained[T any] interface {
	Accepts(in T) bool
	Domain() string
}

func open[T any](stage Stage[T]) Stage[T] {
	if o, ok := stage.(Opener[T]); ok {
		return o.Open()
	}

	return stage
}

type funcStage[T any] struct {
	fn   func(ctx context.Context, in T) (T, bool, error)
	name string
}

func (s *funcStage[T]) Name() string { return s.name }

func (s *funcStage[T]) Apply(ctx context.Context, in T) (T, bool, error) {
	return s.fn(ctx, in)
}

// StageFunc creates a stage from a function with the full Apply signature.
func StageFunc[T any](name string, fn func(ctx context.Context, in T) (T, bool, error)) Stage[T] {
	return &funcStage[T]{name: name, fn: fn}
}

// Map creates a stage applying a transformation that cannot fail.
func Map[T any](name string, fn func(in T) T) Stage[T] {
	return StageFunc(name, func(_ context.Context, in T) (T, bool, error) {
		return fn(in), true, nil
	})
}

// TryMap creates a stage applying a transformation that can fail.
func TryMap[T any](name string, fn func(ctx context.Context, in T) (T, error)) Stage[T] {
	return StageFunc(name, func(ctx context.Context, in T) (T, bool, error) {
		out, err := fn(ctx, in)
		if err != nil {
			return in, false, err
		}

		return out, true, nil
	})
}

// Filter creates a stage keeping only the records matching pred.
func Filter[T any](name string, pred func(in T) bool) Stage[T] {
	return StageFunc(name, func(_ context.Context, in T) (T, bool, error) {
		return in, pred(in), nil
	})
}

// Tap creates a stage calling fn with every record and passing it through unchanged.
func Tap[T any](name string, fn func(in T)) Stage[T] {
	return StageFunc(name, func(_ context.Context, in T) (T, bool, error) {
		fn(in)
		return in, true, nil
	})
}

type uniqueStage[T any, K comparable] struct {
	key  func(in T) K
	seen map[K]struct{}
	name string
}

func (s *uniqueStage[T, K]) Name() string { return s.name }

func (s *uniqueStage[T, K]) Apply(_ context.Context, in T) (T, bool, error) {
	k := s.key(in)
	if _, ok := s.seen[k]; ok {
		return in, false, nil
	}
	s.seen[k] = struct{}{}

	return in, true, nil
}

func (s *uniqueStage[T, K]) Open() Stage[T] {
	return &uniqueStage[T, K]{name: s.name, key: s.key, seen: make(map[K]struct{})}
}

// Unique creates a stage keeping the first occurrence of every record.
func Unique[T comparable](name string) Stage[T] {
	return UniqueBy(name, func(in T) T { return in })
}

// UniqueBy creates a stage keeping the first record of every key.
func UniqueBy[T any, K comparable](name string, key func(in T) K) Stage[T] {
	return &uniqueStage[T, K]{name: name, key: key, seen: make(map[K]struct{})}
}

type constrainedStage[T any] struct {
	Stage[T]
	accepts func(in T) bool
	domain  string
}

func (s *constrainedStage[T]) Accepts(in T) bool { return s.accepts(in) }

func (s *constrainedStage[T]) Domain() string { return s.domain }

func (s *constrainedStage[T]) Apply(ctx context.Context, in T) (T, bool, error) {
	if !s.accepts(in) {
		return in, false, NewDomainError(s.Name(), in, s.domain)
	}

	return s.Stage.Apply(ctx, in)
}

func (s *constrainedStage[T]) Open() Stage[T] {
	return &constrainedStage[T]{Stage: open(s.Stage), accepts: s.accepts, domain: s.domain}
}

// WithDomain restricts stage to the records accepted by accepts. Other records fail with a
// DomainError naming domain.
func WithDomain[T any](stage Stage[T], domain string, accepts func(in T) bool) Stage[T] {
	return &constrainedStage[T]{Stage: stage, accepts: accepts, domain: domain}
}

type namedStage[T any] struct {
	Stage[T]
	name string
}

func (s *namedStage[T]) Name() string { return s.name }

func (s *namedStage[T]) Open() Stage[T] {
	return &namedStage[T]{Stage: open(s.Stage), name: s.name}
}

// Named renames stage.
func Named[T any](name string, stage Stage[T]) Stage[T] {
	return &namedStage[T]{Stage: stage, name: name}
}

func (s *namedStage[T]) Unwrap() Stage[T] { return s.Stage }

// constraintOf returns the domain constraint declared by stage, looking through renames.
func constraintOf[T any](stage Stage[T]) (Constrained[T], bool) {
	for stage != nil {
		if c, ok := stage.(Constrained[T]); ok {
			return c, true
		}
		u, ok := stage.(interface{ Unwrap() Stage[T] })
		if !ok {
			return nil, false
		}
		stage = u.Unwrap()
	}

	return nil, false
}
