package pipeline

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Stream is a finite, ordered sequence of records.
//
// A stream built with FromCollection is eager: it owns a copy of its items and a cursor moved
// by Next. ToList and All read the items from the cursor without moving it, so an eager
// stream can be traversed again. Every other stream is lazy: it is consumed as it is
// traversed, ToList only returns the remaining items and a second traversal is empty.
type Stream[T any] struct {
	items  []T
	pos    int
	next   func() (T, bool, error)
	stop   func() error
	lazy   bool
	closed bool
}

// FromCollection creates an eager stream over a copy of items.
func FromCollection[T any](items []T) *Stream[T] {
	cp := make([]T, len(items))
	copy(cp, items)

	return &Stream[T]{items: cp}
}

// FromSeq creates a lazy stream pulling from seq.
func FromSeq[T any](seq iter.Seq[T]) *Stream[T] {
	next, stop := iter.Pull(seq)

	return &Stream[T]{
		lazy: true,
		next: func() (T, bool, error) {
			v, ok := next()
			return v, ok, nil
		},
		stop: func() error {
			stop()
			return nil
		},
	}
}

// FromFunc creates a lazy stream calling next until it reports exhaustion or fails. stop, when
// not nil, is called by Close.
func FromFunc[T any](next func() (T, bool, error), stop func() error) *Stream[T] {
	return &Stream[T]{lazy: true, next: next, stop: stop}
}

// Convert creates a lazy stream applying fn to every record of s. Closing it closes s.
func Convert[T, U any](s *Stream[T], fn func(in T) (U, error)) *Stream[U] {
	return FromFunc(func() (U, bool, error) {
		var zero U

		v, ok, err := s.Next()
		if err != nil || !ok {
			return zero, false, err
		}
		out, err := fn(v)
		if err != nil {
			return zero, false, err
		}

		return out, true, nil
	}, s.Close)
}

// FromChan creates a lazy stream receiving from input until it is closed.
func FromChan[T any](input <-chan T) *Stream[T] {
	return &Stream[T]{
		lazy: true,
		next: func() (T, bool, error) {
			v, ok := <-input
			return v, ok, nil
		},
	}
}

// FromReader creates a lazy stream of the lines of rd, with trailing whitespace removed.
func FromReader(rd io.Reader) *Stream[string] {
	scanner := bufio.NewScanner(rd)

	return &Stream[string]{
		lazy: true,
		next: func() (string, bool, error) {
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return "", false, errors.Wrap(err, "unable to read line")
				}

				return "", false, nil
			}

			return strings.TrimRightFunc(scanner.Text(), isSpace), true, nil
		},
	}
}

// FromLines opens path and creates a lazy stream of its lines. The file is closed once the
// stream is exhausted or closed.
func FromLines(path string) (*Stream[string], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}

	released := false
	release := func() error {
		if released {
			return nil
		}
		released = true

		return file.Close()
	}

	stream := FromReader(file)
	read := stream.next
	stream.next = func() (string, bool, error) {
		line, ok, err := read()
		if !ok {
			_ = release()
		}

		return line, ok, err
	}
	stream.stop = release

	return stream, nil
}

// Concat creates a lazy stream yielding every record of each stream in turn.
func Concat[T any](streams ...*Stream[T]) *Stream[T] {
	idx := 0

	return &Stream[T]{
		lazy: true,
		next: func() (T, bool, error) {
			for idx < len(streams) {
				v, ok, err := streams[idx].Next()
				if err != nil || ok {
					return v, ok, err
				}
				idx++
			}

			var zero T

			return zero, false, nil
		},
		stop: func() error {
			var firstErr error
			for _, s := range streams {
				if err := s.Close(); err != nil && firstErr == nil {
					firstErr = err
				}
			}

			return firstErr
		},
	}
}

// Lazy reports whether the stream is consumed by traversal.
func (s *Stream[T]) Lazy() bool {
	return s.lazy
}

// Next returns the next record. ok is false once the stream is exhausted.
func (s *Stream[T]) Next() (T, bool, error) {
	var zero T
	if s.closed {
		return zero, false, ErrStreamClosed
	}

	if !s.lazy {
		if s.pos >= len(s.items) {
			return zero, false, nil
		}
		v := s.items[s.pos]
		s.pos++

		return v, true, nil
	}

	return s.next()
}

// All returns an iterator over the remaining records. Iteration stops after the first error.
func (s *Stream[T]) All() iter.Seq2[T, error] {
	if !s.lazy {
		return s.remaining
	}

	return func(yield func(T, error) bool) {
		for {
			v, ok, err := s.Next()
			if err != nil {
				yield(v, err)
				return
			}
			if !ok {
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// remaining iterates over the items of an eager stream from the cursor.
func (s *Stream[T]) remaining(yield func(T, error) bool) {
	if s.closed {
		var zero T
		yield(zero, ErrStreamClosed)

		return
	}

	for _, v := range s.items[s.pos:] {
		if !yield(v, nil) {
			return
		}
	}
}

// ToList materialises the remaining records. A lazy stream is exhausted by the call.
func (s *Stream[T]) ToList() ([]T, error) {
	if !s.lazy {
		if s.closed {
			return nil, ErrStreamClosed
		}
		out := make([]T, len(s.items)-s.pos)
		copy(out, s.items[s.pos:])

		return out, nil
	}

	out := []T{}
	for v, err := range s.All() {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}

	return out, nil
}

// Close releases the resources held by the stream. It is safe to call more than once.
func (s *Stream[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.stop != nil {
		return s.stop()
	}

	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f'
}
