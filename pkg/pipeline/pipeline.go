package pipeline

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/askiada/go-recordpipe/pkg/pipeline/model"
)

// Runner applies an ordered list of stages to record streams.
//
// A Runner holds no state between runs: stages implementing Opener are opened again for every
// run. It is safe to run the same Runner on different streams from several goroutines, as
// long as the stages themselves are pure.
type Runner[T any] struct {
	stages []Stage[T]
	cfg    runnerConfig
}

// Drop describes a record dropped under the skip-record policy.
type Drop struct {
	Err   error
	Stage string
	Index int
}

// Summary counts what happened during a run.
type Summary struct {
	RunID    string
	Drops    []Drop
	Input    int
	Output   int
	Filtered int
	Dropped  int
	Duration time.Duration
}

// Result is the materialised output of a run.
type Result[T any] struct {
	Records []T
	Summary
}

// New creates a runner applying stages in order.
func New[T any](stages []Stage[T], opts ...RunnerOption) *Runner[T] {
	cfg := runnerConfig{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	cp := make([]Stage[T], len(stages))
	copy(cp, stages)

	return &Runner[T]{stages: cp, cfg: cfg}
}

// Stages returns the names of the stages in order. A name already used by an earlier stage is
// suffixed with "#" and the 1-based position of the stage, so every name is unique within a
// run. These are the names reported in errors, drops and run options.
func (r *Runner[T]) Stages() []string {
	names := make([]string, len(r.stages))
	seen := make(map[string]struct{}, len(r.stages))
	for i, s := range r.stages {
		name := s.Name()
		if _, ok := seen[name]; ok {
			name += "#" + strconv.Itoa(i+1)
		}
		seen[name] = struct{}{}
		names[i] = name
	}

	return names
}

// Policy returns the failure policy of the runner.
func (r *Runner[T]) Policy() Policy {
	return r.cfg.policy
}

// run is the state of one run: its opened stages and its counters.
type run[T any] struct {
	startTime time.Time
	runner    *Runner[T]
	logger    zerolog.Logger
	stages    []Stage[T]
	infos     []*model.StageInfo
	summary   *Summary
	index     int
	finished  bool
}

func (r *Runner[T]) start() (*run[T], error) {
	id := uuid.NewString()
	rn := &run[T]{
		runner:    r,
		startTime: time.Now(),
		logger:    r.cfg.logger.With().Str("run_id", id).Logger(),
		stages:    make([]Stage[T], len(r.stages)),
		infos:     make([]*model.StageInfo, len(r.stages)),
		summary:   &Summary{RunID: id},
	}

	for _, opt := range r.cfg.opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply run option")
		}
	}

	names := r.Stages()
	parent := model.SourceStage
	for i, stage := range r.stages {
		rn.stages[i] = open(stage)
		rn.infos[i] = &model.StageInfo{Type: model.NormalStageType, Name: names[i], Index: i}
		for _, opt := range r.cfg.opts {
			err := opt.PrepareStage(parent, rn.infos[i])
			if err != nil {
				return nil, errors.Wrap(err, "unable to run prepare stage function")
			}
		}
		parent = rn.infos[i]
	}

	for _, opt := range r.cfg.opts {
		err := opt.PrepareStage(parent, model.SinkStage)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run prepare stage function")
		}
	}

	rn.logger.Debug().Strs("stages", names).Str("policy", r.cfg.policy.String()).Msg("run started")

	return rn, nil
}

// apply runs every stage on the record at the current index. ok is false when the record was
// filtered out or dropped.
func (rn *run[T]) apply(ctx context.Context, rec T) (T, bool, error) {
	idx := rn.index
	rn.index++
	rn.summary.Input++

	out := rec
	parent := model.SourceStage
	for i, stage := range rn.stages {
		if err := ctx.Err(); err != nil {
			return out, false, errors.Wrapf(err, "record %d", idx)
		}

		startFn := time.Now()
		next, keep, err := stage.Apply(ctx, out)
		endFn := time.Since(startFn)

		for _, opt := range rn.runner.cfg.opts {
			optErr := opt.OnStageOutput(parent, rn.infos[i], endFn)
			if optErr != nil {
				return out, false, errors.Wrap(optErr, "unable to run stage output function")
			}
		}

		if err != nil {
			return out, false, rn.fail(idx, i, out, err)
		}
		if !keep {
			rn.summary.Filtered++
			return next, false, nil
		}
		out = next
		parent = rn.infos[i]
	}
	rn.summary.Output++

	return out, true, nil
}

// fail applies the failure policy. It returns nil when the record is dropped.
func (rn *run[T]) fail(idx, stageIdx int, rec T, err error) error {
	info := rn.infos[stageIdx]
	if rn.runner.cfg.policy != SkipRecord {
		return &PipelineError[T]{Index: idx, Stage: info.Name, Record: rec, Err: err}
	}

	rn.summary.Dropped++
	rn.summary.Drops = append(rn.summary.Drops, Drop{Index: idx, Stage: info.Name, Err: err})
	rn.logger.Warn().Err(err).Int("index", idx).Str("stage", info.Name).Msg("record dropped")

	for _, opt := range rn.runner.cfg.opts {
		optErr := opt.OnDrop(info, idx, err)
		if optErr != nil {
			return errors.Wrap(optErr, "unable to run drop function")
		}
	}

	return nil
}

func (rn *run[T]) finish() error {
	if rn.finished {
		return nil
	}
	rn.finished = true
	rn.summary.Duration = time.Since(rn.startTime)

	for _, opt := range rn.runner.cfg.opts {
		err := opt.Finish(rn.summary.Duration)
		if err != nil {
			return errors.Wrap(err, "unable to finish run option")
		}
	}

	rn.logger.Info().
		Int("input", rn.summary.Input).
		Int("output", rn.summary.Output).
		Int("filtered", rn.summary.Filtered).
		Int("dropped", rn.summary.Dropped).
		Dur("duration", rn.summary.Duration).
		Msg("run finished")

	return nil
}

// Run applies the stages to every record of stream, in order, and materialises the output.
// When the run fails, stream is closed.
func (r *Runner[T]) Run(ctx context.Context, stream *Stream[T]) (*Result[T], error) {
	if r == nil {
		return nil, ErrRunnerMustBeSet
	}
	if stream == nil {
		return nil, ErrStreamMustBeSet
	}

	res, err := r.run(ctx, stream)
	if err != nil {
		_ = stream.Close()

		return nil, err
	}

	return res, nil
}

func (r *Runner[T]) run(ctx context.Context, stream *Stream[T]) (*Result[T], error) {
	if r.cfg.typeCheck {
		err := r.check(stream)
		if err != nil {
			return nil, err
		}
	}

	rn, err := r.start()
	if err != nil {
		return nil, err
	}

	out := []T{}
	for rec, err := range stream.All() {
		if err != nil {
			return nil, errors.Wrap(err, "unable to read stream")
		}
		res, ok, err := rn.apply(ctx, rec)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, res)
		}
	}

	err = rn.finish()
	if err != nil {
		return nil, err
	}

	return &Result[T]{Records: out, Summary: *rn.summary}, nil
}

// Stream applies the stages lazily: records are transformed as the returned stream is
// consumed. The summary is complete once the returned stream is exhausted. Closing the
// returned stream closes stream, and so does any failure.
func (r *Runner[T]) Stream(ctx context.Context, stream *Stream[T]) (*Stream[T], *Summary, error) {
	if r == nil {
		return nil, nil, ErrRunnerMustBeSet
	}
	if stream == nil {
		return nil, nil, ErrStreamMustBeSet
	}

	if r.cfg.typeCheck {
		err := r.check(stream)
		if err != nil {
			_ = stream.Close()

			return nil, nil, err
		}
	}

	rn, err := r.start()
	if err != nil {
		_ = stream.Close()

		return nil, nil, err
	}

	next := func() (T, bool, error) {
		for {
			rec, ok, err := stream.Next()
			if err != nil {
				return rec, false, errors.Wrap(err, "unable to read stream")
			}
			if !ok {
				return rec, false, rn.finish()
			}
			res, keep, err := rn.apply(ctx, rec)
			if err != nil {
				return res, false, err
			}
			if keep {
				return res, true, nil
			}
		}
	}

	out := &Stream[T]{
		lazy: true,
		stop: stream.Close,
		next: func() (T, bool, error) {
			res, ok, err := next()
			if err != nil {
				_ = stream.Close()
			}

			return res, ok, err
		},
	}

	return out, rn.summary, nil
}

// check validates an eager stream against the domain of the first stage.
func (r *Runner[T]) check(stream *Stream[T]) error {
	if stream.Lazy() || len(r.stages) == 0 {
		return nil
	}

	c, ok := constraintOf(r.stages[0])
	if !ok {
		return nil
	}

	for i, item := range stream.items {
		if !c.Accepts(item) {
			return &TypeConstraintError{Index: i, Stage: r.stages[0].Name(), Value: item, Want: c.Domain()}
		}
	}

	return nil
}

// Run is a shortcut creating a runner for stages and running it on stream.
func Run[T any](ctx context.Context, stream *Stream[T], stages []Stage[T], opts ...RunnerOption) (*Result[T], error) {
	return New(stages, opts...).Run(ctx, stream)
}
