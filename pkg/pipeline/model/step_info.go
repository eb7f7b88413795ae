package model

type stageType string

const (
	SourceStageType stageType = "source"
	NormalStageType stageType = "stage"
	SinkStageType   stageType = "sink"
)

// StageInfo describes one stage of a run.
type StageInfo struct {
	Type  stageType
	Name  string
	Index int
}

var (
	SourceStage = &StageInfo{Type: SourceStageType, Name: "source", Index: -1}
	SinkStage   = &StageInfo{Type: SinkStageType, Name: "sink", Index: -1}
)
