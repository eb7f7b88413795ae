// Package collections provides generic helpers on sets, slices and maps.
package collections

import (
	"cmp"
	"slices"
)

// Set is an unordered collection of unique elements. The zero value is not usable, use NewSet.
type Set[T comparable] struct {
	items map[T]struct{}
}

// NewSet creates a set holding items. Duplicates are kept once.
func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{items: make(map[T]struct{}, len(items))}
	for _, item := range items {
		s.items[item] = struct{}{}
	}

	return s
}

func (s *Set[T]) Add(items ...T) {
	for _, item := range items {
		s.items[item] = struct{}{}
	}
}

func (s *Set[T]) Remove(item T) {
	delete(s.items, item)
}

func (s *Set[T]) Has(item T) bool {
	_, ok := s.items[item]
	return ok
}

func (s *Set[T]) Len() int {
	return len(s.items)
}

// Values returns the elements in no particular order.
func (s *Set[T]) Values() []T {
	out := make([]T, 0, len(s.items))
	for item := range s.items {
		out = append(out, item)
	}

	return out
}

// Union returns the elements of s or other.
func (s *Set[T]) Union(other *Set[T]) *Set[T] {
	out := NewSet[T]()
	for item := range s.items {
		out.items[item] = struct{}{}
	}
	for item := range other.items {
		out.items[item] = struct{}{}
	}

	return out
}

// Intersection returns the elements of both s and other.
func (s *Set[T]) Intersection(other *Set[T]) *Set[T] {
	small, large := s, other
	if small.Len() > large.Len() {
		small, large = large, small
	}

	out := NewSet[T]()
	for item := range small.items {
		if large.Has(item) {
			out.items[item] = struct{}{}
		}
	}

	return out
}

// Difference returns the elements of s that are not in other.
func (s *Set[T]) Difference(other *Set[T]) *Set[T] {
	out := NewSet[T]()
	for item := range s.items {
		if !other.Has(item) {
			out.items[item] = struct{}{}
		}
	}

	return out
}

// IsSubset reports whether every element of s is in other.
func (s *Set[T]) IsSubset(other *Set[T]) bool {
	if s.Len() > other.Len() {
		return false
	}
	for item := range s.items {
		if !other.Has(item) {
			return false
		}
	}

	return true
}

// Equal reports whether both sets hold the same elements.
func (s *Set[T]) Equal(other *Set[T]) bool {
	return s.Len() == other.Len() && s.IsSubset(other)
}

// Sorted returns the elements of s in ascending order.
func Sorted[T cmp.Ordered](s *Set[T]) []T {
	out := s.Values()
	slices.Sort(out)

	return out
}
