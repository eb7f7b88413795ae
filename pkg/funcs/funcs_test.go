package funcs_test

import (
	"bytes"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-recordpipe/pkg/funcs"
)

func TestCompose(t *testing.T) {
	t.Parallel()

	clean := funcs.Compose(strings.TrimSpace, strings.ToLower)
	assert.Equal(t, "hello", clean("  HeLLo "))
	assert.Equal(t, 7, funcs.Compose[int]()(7), "composing nothing is the identity")

	data := []int{1, 2, 3}
	assert.Equal(t, []int{11, 21, 31}, funcs.ApplyAll(data, funcs.Multiplier(10), func(v int) int { return v + 1 }))
	assert.Equal(t, []int{1, 2, 3}, data)
}

func TestClosures(t *testing.T) {
	t.Parallel()

	count := funcs.Counter()
	other := funcs.Counter()
	count()
	count()
	assert.Equal(t, 3, count())
	assert.Equal(t, 1, other(), "counters do not share state")

	assert.InDelta(t, 7.5, funcs.Multiplier(2.5)(3), 1e-9)
	assert.Equal(t, 15, funcs.SumOf(1, 2, 3, 4, 5))

	mean, ok := funcs.MeanOf(1.0, 2.0, 6.0)
	require.True(t, ok)
	assert.InDelta(t, 3.0, mean, 1e-9)
	_, ok = funcs.MeanOf[int]()
	assert.False(t, ok)
}

func TestRecursion(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		n        int
		expected int
	}{
		"zero": {n: 0, expected: 1},
		"one":  {n: 1, expected: 1},
		"five": {n: 5, expected: 120},
		"ten":  {n: 10, expected: 3628800},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := funcs.Factorial(tc.n)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)

			got, err = funcs.FactorialIterative(tc.n)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, err := funcs.Factorial(-1)
	require.ErrorIs(t, err, funcs.ErrNegative)
	_, err = funcs.FactorialIterative(-1)
	require.ErrorIs(t, err, funcs.ErrNegative)

	assert.Equal(t, 55, funcs.Fibonacci(10))
	assert.Equal(t, 10, funcs.SumList([]int{1, 2, 3, 4}))
	assert.Zero(t, funcs.SumList([]float64{}))
}

func TestGenerators(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{0, 1, 1, 2, 3, 5, 8, 13}, funcs.Take(funcs.FibonacciSeq(), 8))
	assert.Equal(t, []int{0, 1, 4, 9}, slices.Collect(funcs.Squares(4)))
	assert.Equal(t, []int{0, 1}, funcs.Take(funcs.Squares(2), 5))
	assert.Empty(t, funcs.Take(funcs.FibonacciSeq(), 0))

	labels := funcs.MapSeq(funcs.Squares(3), func(v int) string { return strings.Repeat("*", v) })
	assert.Equal(t, []string{"", "*", "****"}, slices.Collect(labels))
}

func TestDecorators(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	var (
		reported string
		elapsed  time.Duration = -1
	)
	square := funcs.Timed("square", func(name string, d time.Duration) {
		reported, elapsed = name, d
	}, func(v int) int { return v * v })
	square = funcs.Logged(logger, "square", square)

	assert.Equal(t, 81, square(9))
	assert.Equal(t, "square", reported)
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	assert.Contains(t, buf.String(), `"arg":9`)
	assert.Contains(t, buf.String(), `"result":81`)

	buf.Reset()
	funcs.LogDuration(logger)("square", time.Millisecond)
	assert.Contains(t, buf.String(), `"func":"square"`)
}

func TestValidatePositive(t *testing.T) {
	t.Parallel()

	sum := funcs.ValidatePositive(funcs.SumOf[int])

	got, err := sum(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, got)

	_, err = sum(1, -2)
	require.ErrorIs(t, err, funcs.ErrNotPositive)
}
