package funcs

import (
	"iter"
)

// FibonacciSeq yields the Fibonacci numbers 0, 1, 1, 2, 3... forever.
func FibonacciSeq() iter.Seq[int] {
	return func(yield func(int) bool) {
		a, b := 0, 1
		for {
			if !yield(a) {
				return
			}
			a, b = b, a+b
		}
	}
}

// Squares yields the squares of 0 to n-1.
func Squares(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range n {
			if !yield(i * i) {
				return
			}
		}
	}
}

// MapSeq yields fn applied to every value of seq.
func MapSeq[T, R any](seq iter.Seq[T], fn func(T) R) iter.Seq[R] {
	return func(yield func(R) bool) {
		for v := range seq {
			if !yield(fn(v)) {
				return
			}
		}
	}
}

// Take returns at most the first n values of seq.
func Take[T any](seq iter.Seq[T], n int) []T {
	out := make([]T, 0, max(n, 0))
	if n <= 0 {
		return out
	}
	for v := range seq {
		out = append(out, v)
		if len(out) == n {
			break
		}
	}

	return out
}
