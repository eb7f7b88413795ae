package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-recordpipe/pkg/pipeline/measure"
	"github.com/askiada/go-recordpipe/pkg/pipeline/model"
)

type runDrawer struct {
	Drawer
	m measure.Measure
}

func (rd *runDrawer) New() error {
	err := rd.AddStage(model.SourceStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add source stage to drawer")
	}
	err = rd.AddStage(model.SinkStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add sink stage to drawer")
	}

	return nil
}

func (rd *runDrawer) PrepareStage(parentStage, stage *model.StageInfo) error {
	err := rd.AddStage(stage.Name)
	if err != nil {
		return err
	}

	return rd.AddLink(parentStage.Name, stage.Name)
}

func (rd *runDrawer) OnStageOutput(_, _ *model.StageInfo, _ time.Duration) error {
	return nil
}

func (rd *runDrawer) OnDrop(_ *model.StageInfo, _ int, _ error) error {
	return nil
}

func (rd *runDrawer) Finish(totalDuration time.Duration) error {
	if rd.m != nil {
		err := rd.AddMeasure(rd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := rd.SetTotalTime(model.SinkStage.Name, totalDuration)
	if err != nil {
		return errors.Wrap(err, "unable to set total time")
	}

	err = rd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// RunDrawer returns a run option drawing the run with drawer when it finishes. When msr is
// not nil, it must also be given to the runner, before the drawer, through
// measure.RunMeasure, so the drawing carries the metrics of the run.
func RunDrawer(drawer Drawer, msr measure.Measure) model.RunOption {
	return &runDrawer{drawer, msr}
}
