package mlmodel

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
	"github.com/askiada/go-recordpipe/pkg/record"
	"github.com/askiada/go-recordpipe/pkg/stages"
)

// Preprocessor applies a fixed list of stages to datasets.
type Preprocessor struct {
	runner *pipeline.Runner[record.Record]
}

// NewPreprocessor creates a preprocessor applying stages in order.
func NewPreprocessor(steps []stages.Stage, opts ...pipeline.RunnerOption) *Preprocessor {
	return &Preprocessor{runner: pipeline.New(steps, opts...)}
}

// Process runs the stages over data and returns the kept records.
func (p *Preprocessor) Process(ctx context.Context, data []record.Record) ([]record.Record, error) {
	res, err := p.runner.Run(ctx, pipeline.FromCollection(data))
	if err != nil {
		return nil, errors.Wrap(err, "unable to preprocess data")
	}

	return res.Records, nil
}

// Steps returns the names of the stages.
func (p *Preprocessor) Steps() []string {
	return p.runner.Stages()
}

// NewTextPreprocessor creates a preprocessor cleaning texts: it trims and lowercases them,
// drops empty ones and removes duplicates. Non text records are skipped.
func NewTextPreprocessor(opts ...pipeline.RunnerOption) *Preprocessor {
	steps := []stages.Stage{
		stages.DropEmpty(),
		stages.Trim(),
		stages.Lowercase(),
		stages.DropEmpty(),
		stages.Dedupe(),
	}

	return NewPreprocessor(steps, append([]pipeline.RunnerOption{pipeline.WithPolicy(pipeline.SkipRecord)}, opts...)...)
}
