package model

import "time"

// RunOption defines the interface for options observing a pipeline run.
type RunOption interface {
	// New initialises the run option. It runs once per run, before any stage is prepared.
	New() error

	runStageOption

	// OnDrop runs everytime a record is dropped under the skip-record policy.
	OnDrop(stage *StageInfo, index int, err error) error
	// Finish runs after the run is finished, with the total duration of the run.
	Finish(totalDuration time.Duration) error
}

// runStageOption defines the interface for stage options at the run level.
type runStageOption interface {
	// PrepareStage runs before the first record reaches the stage.
	PrepareStage(parentStage, stage *StageInfo) error
	// OnStageOutput runs everytime the stage is applied to a record.
	OnStageOutput(parentStage, stage *StageInfo, computationDuration time.Duration) error
}
