package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
)

var errNegative = errors.New("negative value")

func ints(total int) []int {
	out := make([]int, total)
	for i := range total {
		out[i] = i
	}

	return out
}

func double() pipeline.Stage[int] {
	return pipeline.Map("double", func(in int) int { return in * 2 })
}

func addOne() pipeline.Stage[int] {
	return pipeline.Map("add one", func(in int) int { return in + 1 })
}

func greaterThan(threshold int) pipeline.Stage[int] {
	return pipeline.Filter("greater than "+strconv.Itoa(threshold), func(in int) bool { return in > threshold })
}

// failOnNegative fails for negative records.
func failOnNegative() pipeline.Stage[int] {
	return pipeline.TryMap("check", func(_ context.Context, in int) (int, error) {
		if in < 0 {
			return 0, errNegative
		}

		return in, nil
	})
}

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func collect[T any](t *testing.T, stream *pipeline.Stream[T]) []T {
	t.Helper()

	out, err := stream.ToList()
	require.NoError(t, err)

	return out
}
