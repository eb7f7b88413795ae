package pipeline

import (
	"cmp"
	"context"

	"github.com/pkg/errors"
)

// Combine folds one record into an accumulator.
type Combine[A, T any] func(acc A, rec T) A

// Reduce folds the remaining records of stream from left to right, starting from initial.
// When reading fails or ctx is done, stream is closed.
func Reduce[T, A any](ctx context.Context, stream *Stream[T], combine Combine[A, T], initial A) (A, error) {
	if stream == nil {
		return initial, ErrStreamMustBeSet
	}

	acc := initial
	for rec, err := range stream.All() {
		if err != nil {
			_ = stream.Close()

			return acc, errors.Wrap(err, "unable to read stream")
		}
		if err := ctx.Err(); err != nil {
			_ = stream.Close()

			return acc, errors.Wrap(err, "reduce interrupted")
		}
		acc = combine(acc, rec)
	}

	return acc, nil
}

// Fold folds the remaining records of stream from left to right using the first one as the
// initial value. It fails with ErrEmptyStream when no record remains. When reading fails or
// ctx is done, stream is closed.
func Fold[T any](ctx context.Context, stream *Stream[T], combine Combine[T, T]) (T, error) {
	var zero T
	if stream == nil {
		return zero, ErrStreamMustBeSet
	}

	first := true
	acc, err := Reduce(ctx, stream, func(acc, rec T) T {
		if first {
			first = false
			return rec
		}

		return combine(acc, rec)
	}, zero)
	if err != nil {
		return acc, err
	}
	if first {
		return zero, ErrEmptyStream
	}

	return acc, nil
}

// Number is the set of types the numeric combiners work on.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Sum adds records.
func Sum[T Number](acc, rec T) T { return acc + rec }

// Product multiplies records.
func Product[T Number](acc, rec T) T { return acc * rec }

// Count counts records, whatever their type.
func Count[T any](acc int, _ T) int { return acc + 1 }

// Max keeps the greatest record.
func Max[T cmp.Ordered](acc, rec T) T { return max(acc, rec) }

// Min keeps the smallest record.
func Min[T cmp.Ordered](acc, rec T) T { return min(acc, rec) }

// GroupCount returns a combiner counting records per key. The accumulator must be a non-nil map.
func GroupCount[T any, K comparable](key func(rec T) K) Combine[map[K]int, T] {
	return func(acc map[K]int, rec T) map[K]int {
		acc[key(rec)]++
		return acc
	}
}
