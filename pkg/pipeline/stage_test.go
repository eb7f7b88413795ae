package pipeline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
)

func TestStageBuilders(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		stage        pipeline.Stage[string]
		input        string
		expected     string
		expectedKeep bool
		expectedErr  error
	}{
		"map": {
			stage: pipeline.Map("upper", strings.ToUpper), input: "go", expected: "GO", expectedKeep: true,
		},
		"filter keeps": {
			stage: pipeline.Filter("non empty", func(in string) bool { return in != "" }), input: "go", expected: "go", expectedKeep: true,
		},
		"filter drops": {
			stage: pipeline.Filter("non empty", func(in string) bool { return in != "" }), input: "", expected: "",
		},
		"try map fails": {
			stage: pipeline.TryMap("fail", func(_ context.Context, in string) (string, error) {
				return in, assert.AnError
			}),
			input: "go", expected: "go", expectedErr: assert.AnError,
		},
		"domain rejects": {
			stage:       pipeline.WithDomain(pipeline.Map("upper", strings.ToUpper), "lowercase text", func(in string) bool { return in == strings.ToLower(in) }),
			input:       "Go",
			expected:    "Go",
			expectedErr: pipeline.ErrDomain,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, keep, err := tc.stage.Apply(t.Context(), tc.input)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.expectedKeep, keep)
		})
	}
}

func TestTap(t *testing.T) {
	t.Parallel()

	seen := []int{}
	res, err := pipeline.Run(t.Context(), pipeline.FromCollection(ints(3)),
		[]pipeline.Stage[int]{pipeline.Tap("seen", func(in int) { seen = append(seen, in) })})
	require.NoError(t, err)
	assert.Equal(t, ints(3), res.Records)
	assert.Equal(t, ints(3), seen)
}

func TestUniqueByOpen(t *testing.T) {
	t.Parallel()

	stage := pipeline.UniqueBy("first letter", func(in string) byte { return in[0] })
	opener, ok := stage.(pipeline.Opener[string])
	require.True(t, ok)

	first := opener.Open()
	_, keep, err := first.Apply(t.Context(), "apple")
	require.NoError(t, err)
	assert.True(t, keep)
	_, keep, err = first.Apply(t.Context(), "avocado")
	require.NoError(t, err)
	assert.False(t, keep)

	second := opener.Open()
	_, keep, err = second.Apply(t.Context(), "avocado")
	require.NoError(t, err)
	assert.True(t, keep, "an opened stage starts with no state")
}

func TestDomainError(t *testing.T) {
	t.Parallel()

	err := pipeline.NewDomainError("parse", "abc", "numeric text")
	require.ErrorIs(t, err, pipeline.ErrDomain)
	assert.Equal(t, `stage "parse": abc is not numeric text`, err.Error())
}
