// Package etl runs extract, transform and load jobs: records are extracted from a source,
// transformed by a pipeline runner and handed to a loader in one batch.
package etl

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
	"github.com/askiada/go-recordpipe/pkg/record"
)

var (
	ErrExtractorMustBeSet = errors.New("extractor must be set")
	ErrLoaderMustBeSet    = errors.New("loader must be set")
)

// Extractor produces the records of a job.
type Extractor interface {
	Extract(ctx context.Context) (*pipeline.Stream[record.Record], error)
}

// Loader stores the transformed records of a job. batchID identifies the job run.
type Loader interface {
	Load(ctx context.Context, batchID string, records []record.Record) error
}

// Report describes a finished job.
type Report struct {
	BatchID  string
	Summary  pipeline.Summary
	Loaded   int
	Duration time.Duration
}

// Job extracts records, transforms them with a runner and loads the result.
type Job struct {
	extractor Extractor
	runner    *pipeline.Runner[record.Record]
	loader    Loader
	logger    zerolog.Logger
}

type JobOption func(*Job)

// WithLogger sets the logger of the job.
func WithLogger(logger zerolog.Logger) JobOption {
	return func(j *Job) {
		j.logger = logger
	}
}

// NewJob creates a job. A nil runner loads the extracted records unchanged.
func NewJob(extractor Extractor, runner *pipeline.Runner[record.Record], loader Loader, opts ...JobOption) (*Job, error) {
	if extractor == nil {
		return nil, ErrExtractorMustBeSet
	}
	if loader == nil {
		return nil, ErrLoaderMustBeSet
	}
	if runner == nil {
		runner = pipeline.New[record.Record](nil)
	}

	j := &Job{extractor: extractor, runner: runner, loader: loader, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(j)
	}

	return j, nil
}

// Run runs the job once. Nothing is loaded when extraction or transformation fails.
func (j *Job) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	batchID := uuid.NewString()
	logger := j.logger.With().Str("batch_id", batchID).Logger()

	stream, err := j.extractor.Extract(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to extract records")
	}
	defer stream.Close()

	res, err := j.runner.Run(ctx, stream)
	if err != nil {
		return nil, errors.Wrap(err, "unable to transform records")
	}
	logger.Debug().Int("input", res.Input).Int("output", res.Output).Msg("records transformed")

	err = j.loader.Load(ctx, batchID, res.Records)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load records")
	}

	report := &Report{
		BatchID:  batchID,
		Summary:  res.Summary,
		Loaded:   len(res.Records),
		Duration: time.Since(start),
	}
	logger.Info().Int("loaded", report.Loaded).Int("dropped", res.Dropped).Dur("duration", report.Duration).Msg("job done")

	return report, nil
}
