package collections

import (
	"cmp"
	"slices"
	"sort"
)

// Dedupe returns items without duplicates, keeping the first occurrence of each.
func Dedupe[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}

	return out
}

// SortBy returns a copy of items sorted by key. The sort is stable.
func SortBy[T any, K cmp.Ordered](items []T, key func(T) K) []T {
	out := slices.Clone(items)
	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]) < key(out[j])
	})

	return out
}

// Reversed returns a copy of items in reverse order.
func Reversed[T any](items []T) []T {
	out := slices.Clone(items)
	slices.Reverse(out)

	return out
}
