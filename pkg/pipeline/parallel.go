package pipeline

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// RunParallel runs the same runner on independent streams, at most limit at a time.
// Results are returned in the order of streams. The first failing run cancels the others.
func RunParallel[T any](ctx context.Context, runner *Runner[T], streams []*Stream[T], limit int) ([]*Result[T], error) {
	if runner == nil {
		return nil, ErrRunnerMustBeSet
	}
	if limit <= 0 {
		return nil, ErrParallelLimit
	}

	results := make([]*Result[T], len(streams))
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(limit)

	for idx, stream := range streams {
		errGrp.Go(func() error {
			res, err := runner.Run(dCtx, stream)
			if err != nil {
				return errors.Wrapf(err, "stream %d", idx)
			}
			results[idx] = res

			return nil
		})
	}

	err := errGrp.Wait()
	if err != nil {
		return nil, err
	}

	return results, nil
}
