package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
	"github.com/askiada/go-recordpipe/pkg/record"
)

var ErrUnknownOperation = errors.New("unknown operation")

var reduceCmd = &cobra.Command{
	Use:   "reduce",
	Short: "Reduce numeric records to a single value",
	Long: `reduce parses every line, applies the optional stages and folds the numbers
with the given operation. Without --initial, sum starts at 0, product at 1, and
max and min start from the first number, failing on an empty input.`,
	Example: `  recordpipe reduce --input values.txt --op sum
  recordpipe reduce --input values.txt --stage filter_gt:25 --op max`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		input := stringFlag(cmd, "input", appCfg.Pipeline.Input)
		specs, _ := cmd.Flags().GetStringArray("stage")
		op, _ := cmd.Flags().GetString("op")
		policy := stringFlag(cmd, "policy", appCfg.Pipeline.Policy)

		runner, err := buildRunner(specs, policy)
		if err != nil {
			return err
		}

		stream, err := openInput(cmd, input)
		if err != nil {
			return err
		}
		defer stream.Close()

		records, summary, err := runner.Stream(cmd.Context(), stream)
		if err != nil {
			return err
		}

		var initial *float64
		if cmd.Flags().Changed("initial") {
			v, _ := cmd.Flags().GetFloat64("initial")
			initial = &v
		}

		result, err := reduce(cmd, records, op, initial)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(result, 'f', -1, 64))
		printSummary(cmd.ErrOrStderr(), "reduce", summary)

		return nil
	},
}

func reduce(cmd *cobra.Command, records *pipeline.Stream[record.Record], op string, initial *float64) (float64, error) {
	ctx := cmd.Context()

	if op == "count" {
		n, err := pipeline.Reduce(ctx, records, pipeline.Count[record.Record], 0)
		if initial != nil {
			return *initial + float64(n), err
		}

		return float64(n), err
	}

	var combine pipeline.Combine[float64, float64]
	start := 0.0
	switch op {
	case "sum":
		combine = pipeline.Sum[float64]
	case "product":
		combine, start = pipeline.Product[float64], 1
	case "max":
		combine = pipeline.Max[float64]
	case "min":
		combine = pipeline.Min[float64]
	default:
		return 0, errors.Wrapf(ErrUnknownOperation, "%q", op)
	}

	numbers := pipeline.Convert(records, func(r record.Record) (float64, error) {
		f, ok := r.Number()
		if !ok {
			return 0, pipeline.NewDomainError(op, r, "number")
		}

		return f, nil
	})

	if initial != nil {
		return pipeline.Reduce(ctx, numbers, combine, *initial)
	}
	if op == "max" || op == "min" {
		return pipeline.Fold(ctx, numbers, combine)
	}

	return pipeline.Reduce(ctx, numbers, combine, start)
}

func init() {
	reduceCmd.Flags().String("input", "", "input file, one record per line; standard input when empty")
	reduceCmd.Flags().StringArray("stage", nil, "stage applied before reducing; repeatable")
	reduceCmd.Flags().String("op", "sum", "operation: sum, product, count, max or min")
	reduceCmd.Flags().Float64("initial", 0, "initial accumulator")
	reduceCmd.Flags().String("policy", "abort-pipeline", "failure policy: skip-record or abort-pipeline")
}
