package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
	"github.com/askiada/go-recordpipe/pkg/pipeline/drawer"
	"github.com/askiada/go-recordpipe/pkg/pipeline/measure"
	"github.com/askiada/go-recordpipe/pkg/record"
)

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw a pipeline as a DOT graph",
	Long: `draw writes the graph of a pipeline in the DOT format. With --input, the
pipeline is run on the input first and the graph carries the number of records
that went through every link and the time spent in every stage.`,
	Example: `  recordpipe draw --stage trim --stage dedupe --out pipeline.dot
  recordpipe draw --stage trim --stage dedupe --input names.txt --out pipeline.dot`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		specs := stringsFlag(cmd, "stage", appCfg.Pipeline.Stages)
		out, _ := cmd.Flags().GetString("out")
		policy := stringFlag(cmd, "policy", appCfg.Pipeline.Policy)

		var (
			msr    measure.Measure
			stream *pipeline.Stream[record.Record]
			opts   []pipeline.RunnerOption
		)
		if cmd.Flags().Changed("input") {
			input, _ := cmd.Flags().GetString("input")
			var err error
			stream, err = openInput(cmd, input)
			if err != nil {
				return err
			}
			defer stream.Close()

			msr = measure.NewDefaultMeasure()
			opts = append(opts, pipeline.WithRunOptions(measure.RunMeasure(msr)))
		} else {
			stream = pipeline.FromCollection([]record.Record{})
		}
		opts = append(opts, pipeline.WithRunOptions(drawer.RunDrawer(drawer.NewDOTDrawer(out), msr)))

		runner, err := buildRunner(specs, policy, opts...)
		if err != nil {
			return err
		}

		_, err = runner.Run(cmd.Context(), stream)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "pipeline drawn to %s\n", out)

		return nil
	},
}

func init() {
	drawCmd.Flags().StringArray("stage", nil, "stage to draw; repeatable")
	drawCmd.Flags().String("out", "pipeline.dot", "DOT file to write")
	drawCmd.Flags().String("input", "", "input file to run the pipeline on before drawing")
	drawCmd.Flags().String("policy", "abort-pipeline", "failure policy: skip-record or abort-pipeline")
}
