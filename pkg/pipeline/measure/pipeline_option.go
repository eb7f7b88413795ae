package measure

import (
	"time"

	"github.com/askiada/go-recordpipe/pkg/pipeline/model"
)

type runMeasure struct {
	Measure
}

func (rm *runMeasure) New() error {
	rm.AddMetric(model.SourceStage.Name)
	rm.AddMetric(model.SinkStage.Name)

	return nil
}

func (rm *runMeasure) PrepareStage(_, stage *model.StageInfo) error {
	rm.AddMetric(stage.Name)

	return nil
}

func (rm *runMeasure) OnStageOutput(parentStage, stage *model.StageInfo, computationDuration time.Duration) error {
	mt := rm.GetMetric(stage.Name)
	mt.AddDuration(computationDuration)
	mt.AddTransport(parentStage.Name)

	return nil
}

func (rm *runMeasure) OnDrop(stage *model.StageInfo, _ int, _ error) error {
	rm.GetMetric(stage.Name).AddDrop()

	return nil
}

func (rm *runMeasure) Finish(totalDuration time.Duration) error {
	rm.GetMetric(model.SinkStage.Name).SetTotalDuration(totalDuration)

	return nil
}

// RunMeasure returns a run option recording the metrics of every stage into measure.
func RunMeasure(measure Measure) model.RunOption {
	return &runMeasure{measure}
}
