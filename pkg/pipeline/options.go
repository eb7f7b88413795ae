package pipeline

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/askiada/go-recordpipe/pkg/pipeline/model"
)

// Policy decides what the runner does when a stage fails for a record.
type Policy int

const (
	// AbortPipeline stops the run at the first failing record.
	AbortPipeline Policy = iota
	// SkipRecord drops the failing record, counts it and continues.
	SkipRecord
)

func (p Policy) String() string {
	switch p {
	case SkipRecord:
		return "skip-record"
	case AbortPipeline:
		return "abort-pipeline"
	default:
		return "unknown"
	}
}

// ParsePolicy parses "skip-record" or "abort-pipeline".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "skip-record", "skip":
		return SkipRecord, nil
	case "abort-pipeline", "abort", "":
		return AbortPipeline, nil
	default:
		return AbortPipeline, errors.Wrapf(ErrUnknownPolicy, "%q", s)
	}
}

type RunnerOption func(r *runnerConfig)

type runnerConfig struct {
	logger    zerolog.Logger
	opts      []model.RunOption
	policy    Policy
	typeCheck bool
}

// WithPolicy sets the failure policy. The default is AbortPipeline.
func WithPolicy(policy Policy) RunnerOption {
	return func(r *runnerConfig) {
		r.policy = policy
	}
}

// WithLogger sets the logger used to report runs and dropped records.
func WithLogger(logger zerolog.Logger) RunnerOption {
	return func(r *runnerConfig) {
		r.logger = logger
	}
}

// WithRunOptions adds options observing every run, such as measure.RunMeasure.
func WithRunOptions(opts ...model.RunOption) RunnerOption {
	return func(r *runnerConfig) {
		r.opts = append(r.opts, opts...)
	}
}

// WithTypeCheck checks every input record against the domain of the first stage before a
// run starts. Only eager streams are checked.
func WithTypeCheck() RunnerOption {
	return func(r *runnerConfig) {
		r.typeCheck = true
	}
}
