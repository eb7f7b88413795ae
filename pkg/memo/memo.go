// Package memo provides a memoising cache owned by the caller.
//
// The cache of a Memo lives as long as the Memo itself and can be inspected and reset, so no
// result is ever shared between unrelated callers through hidden state.
package memo

import (
	"sync"
)

// Func computes the value of key. It receives the memo so it can recurse through it.
type Func[K comparable, V any] func(m *Memo[K, V], key K) V

// Memo caches the results of a function. It is safe for concurrent use.
type Memo[K comparable, V any] struct {
	fn     Func[K, V]
	cache  map[K]V
	mu     sync.Mutex
	hits   int
	misses int
}

// New creates a memo computing missing values with fn.
func New[K comparable, V any](fn Func[K, V]) *Memo[K, V] {
	return &Memo[K, V]{fn: fn, cache: make(map[K]V)}
}

// Get returns the cached value of key, computing and caching it when missing.
// The lock is not held while fn runs, so fn may call Get recursively.
func (m *Memo[K, V]) Get(key K) V {
	m.mu.Lock()
	if v, ok := m.cache[key]; ok {
		m.hits++
		m.mu.Unlock()

		return v
	}
	m.misses++
	m.mu.Unlock()

	v := m.fn(m, key)

	m.mu.Lock()
	m.cache[key] = v
	m.mu.Unlock()

	return v
}

// Len returns the number of cached values.
func (m *Memo[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.cache)
}

// Stats returns the number of cache hits and misses since the last Clear.
func (m *Memo[K, V]) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hits, m.misses
}

// Clear empties the cache.
func (m *Memo[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache = make(map[K]V)
	m.hits, m.misses = 0, 0
}

// Fibonacci returns a memo computing Fibonacci numbers in linear time.
func Fibonacci() *Memo[int, int] {
	return New(func(m *Memo[int, int], n int) int {
		if n <= 1 {
			return n
		}

		return m.Get(n-1) + m.Get(n-2)
	})
}
