package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
	"github.com/askiada/go-recordpipe/pkg/pipeline/measure"
	"github.com/askiada/go-recordpipe/pkg/record"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Apply stages to records and print the result",
	Example: `  recordpipe run --input names.txt --stage trim --stage lowercase --stage dedupe
  recordpipe run --input values.txt --stage parse_number --stage filter_gt:25 --policy skip-record
  recordpipe run --input jan.txt --input feb.txt --parallelism 2 --stage select:name,age`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		inputs := stringsFlag(cmd, "input", []string{appCfg.Pipeline.Input})
		specs := stringsFlag(cmd, "stage", appCfg.Pipeline.Stages)
		policy := stringFlag(cmd, "policy", appCfg.Pipeline.Policy)
		lazy := boolFlag(cmd, "lazy", appCfg.Pipeline.Lazy)
		withMeasure := boolFlag(cmd, "measure", appCfg.Pipeline.Measure)
		parallelism := intFlag(cmd, "parallelism", appCfg.Pipeline.Parallelism)

		opts := []pipeline.RunnerOption{}
		msr := measure.NewDefaultMeasure()
		if withMeasure {
			opts = append(opts, pipeline.WithRunOptions(measure.RunMeasure(msr)))
		}

		runner, err := buildRunner(specs, policy, opts...)
		if err != nil {
			return err
		}

		switch {
		case len(inputs) > 1:
			err = runInputs(cmd, runner, inputs, parallelism)
		case lazy:
			err = runLazy(cmd, runner, inputs[0])
		default:
			err = runInputs(cmd, runner, inputs, 1)
		}
		if err != nil {
			return err
		}

		if withMeasure {
			for _, name := range runner.Stages() {
				mt := msr.GetMetric(name)
				if mt == nil {
					continue
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "  %-14s records=%d drops=%d avg=%s\n", name, mt.Total(), mt.Drops(), mt.AVGDuration())
			}
		}

		return nil
	},
}

// runInputs runs every input, at most limit at a time, and prints the results in the order of
// inputs.
func runInputs(cmd *cobra.Command, runner *pipeline.Runner[record.Record], inputs []string, limit int) error {
	streams := make([]*pipeline.Stream[record.Record], 0, len(inputs))
	defer func() {
		for _, s := range streams {
			_ = s.Close()
		}
	}()

	for _, input := range inputs {
		stream, err := openInput(cmd, input)
		if err != nil {
			return err
		}
		streams = append(streams, stream)
	}

	results, err := pipeline.RunParallel(cmd.Context(), runner, streams, limit)
	if err != nil {
		return err
	}

	for i, res := range results {
		for _, rec := range res.Records {
			fmt.Fprintln(cmd.OutOrStdout(), rec.String())
		}
		label := "run"
		if len(inputs) > 1 {
			label = "run " + inputs[i]
		}
		printSummary(cmd.ErrOrStderr(), label, &res.Summary)
	}

	return nil
}

func runLazy(cmd *cobra.Command, runner *pipeline.Runner[record.Record], input string) error {
	stream, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	defer stream.Close()

	records, summary, err := runner.Stream(cmd.Context(), stream)
	if err != nil {
		return err
	}
	for rec, err := range records.All() {
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rec.String())
	}
	printSummary(cmd.ErrOrStderr(), "run", summary)

	return nil
}

// printSummary writes the counters of a run then one line per dropped record.
func printSummary(w io.Writer, label string, summary *pipeline.Summary) {
	fmt.Fprintf(w, "%s %s: input=%d output=%d filtered=%d dropped=%d duration=%s\n",
		label, summary.RunID, summary.Input, summary.Output, summary.Filtered, summary.Dropped, summary.Duration)
	for _, d := range summary.Drops {
		fmt.Fprintf(w, "  dropped record %d at %s: %v\n", d.Index, d.Stage, d.Err)
	}
}

func init() {
	runCmd.Flags().StringArray("input", nil, "input file, one record per line; standard input when empty; repeatable")
	runCmd.Flags().StringArray("stage", nil, `stage to apply, "name" or "name:arg,arg"; repeatable`)
	runCmd.Flags().String("policy", "abort-pipeline", "failure policy: skip-record or abort-pipeline")
	runCmd.Flags().Bool("lazy", false, "stream records instead of materialising them; single input only")
	runCmd.Flags().Bool("measure", false, "print per-stage metrics")
	runCmd.Flags().Int("parallelism", 1, "inputs run at the same time, defaults to pipeline.parallelism")
}
