package pipeline_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
)

func TestFromCollectionCopiesInput(t *testing.T) {
	t.Parallel()

	input := []int{1, 2, 3}
	stream := pipeline.FromCollection(input)
	input[0] = 100

	assert.False(t, stream.Lazy())
	assert.Equal(t, []int{1, 2, 3}, collect(t, stream))
	assert.Equal(t, []int{1, 2, 3}, collect(t, stream), "an eager stream is repeatable")
}

func TestFromSeqIsConsumed(t *testing.T) {
	t.Parallel()

	stream := pipeline.FromSeq(slices.Values([]int{1, 2, 3}))

	v, ok, err := stream.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	assert.True(t, stream.Lazy())
	assert.Equal(t, []int{2, 3}, collect(t, stream), "only the remaining records are returned")
	assert.Empty(t, collect(t, stream))
	require.NoError(t, stream.Close())
}

func TestFromChan(t *testing.T) {
	t.Parallel()

	input := make(chan int)
	go func() {
		defer close(input)
		for _, v := range ints(5) {
			input <- v
		}
	}()

	assert.Equal(t, ints(5), collect(t, pipeline.FromChan(input)))
}

func TestFromLines(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "alice  \nbob\t\n\n  charlie\r\n")

	stream, err := pipeline.FromLines(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob", "", "  charlie"}, collect(t, stream))
	assert.Empty(t, collect(t, stream))
	require.NoError(t, stream.Close())
}

func TestFromLinesMissingFile(t *testing.T) {
	t.Parallel()

	_, err := pipeline.FromLines("does/not/exist.txt")
	assert.Error(t, err)
}

func TestFromReader(t *testing.T) {
	t.Parallel()

	stream := pipeline.FromReader(strings.NewReader("a \nb"))
	assert.Equal(t, []string{"a", "b"}, collect(t, stream))
}

func TestConcat(t *testing.T) {
	t.Parallel()

	stream := pipeline.Concat(
		pipeline.FromCollection([]int{1, 2}),
		pipeline.FromCollection([]int{}),
		pipeline.FromSeq(slices.Values([]int{3})),
	)

	assert.Equal(t, []int{1, 2, 3}, collect(t, stream))
	require.NoError(t, stream.Close())
}

func TestConvert(t *testing.T) {
	t.Parallel()

	stream := pipeline.Convert(pipeline.FromCollection([]int{1, 2, -1, 3}), func(in int) (string, error) {
		if in < 0 {
			return "", errNegative
		}

		return strings.Repeat("x", in), nil
	})

	out, err := stream.ToList()
	require.ErrorIs(t, err, errNegative)
	assert.Equal(t, []string{"x", "xx"}, out)
}

func TestClosedStream(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		stream *pipeline.Stream[int]
	}{
		"eager": {stream: pipeline.FromCollection([]int{1})},
		"lazy":  {stream: pipeline.FromSeq(slices.Values([]int{1}))},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.NoError(t, tc.stream.Close())
			require.NoError(t, tc.stream.Close(), "closing twice is allowed")

			_, _, err := tc.stream.Next()
			assert.ErrorIs(t, err, pipeline.ErrStreamClosed)
			_, err = tc.stream.ToList()
			assert.ErrorIs(t, err, pipeline.ErrStreamClosed)
		})
	}
}

func TestEagerStreamReadsFromCursor(t *testing.T) {
	t.Parallel()

	stream := pipeline.FromCollection([]int{1, 2, 3})

	v, ok, err := stream.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	assert.Equal(t, []int{2, 3}, collect(t, stream), "only the remaining records are returned")
	assert.Equal(t, []int{2, 3}, collect(t, stream), "reading does not move the cursor")

	got := []int{}
	for v, err := range stream.All() {
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []int{2, 3}, got)

	res, err := pipeline.Run(t.Context(), stream, []pipeline.Stage[int]{double()})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 6}, res.Records)
}
