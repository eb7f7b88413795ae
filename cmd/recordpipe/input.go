package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
	"github.com/askiada/go-recordpipe/pkg/record"
	"github.com/askiada/go-recordpipe/pkg/stages"
)

// openInput returns a lazy stream of raw text records, one per line of path, or of the
// standard input when path is empty or "-".
func openInput(cmd *cobra.Command, path string) (*pipeline.Stream[record.Record], error) {
	var lines *pipeline.Stream[string]
	if path == "" || path == "-" {
		lines = pipeline.FromReader(cmd.InOrStdin())
	} else {
		var err error
		lines, err = pipeline.FromLines(path)
		if err != nil {
			return nil, err
		}
	}

	return pipeline.Convert(lines, func(line string) (record.Record, error) {
		return record.NewText(line), nil
	}), nil
}

// buildRunner builds a runner parsing raw lines then applying the stages named by specs.
func buildRunner(specs []string, policyName string, opts ...pipeline.RunnerOption) (*pipeline.Runner[record.Record], error) {
	policy, err := pipeline.ParsePolicy(policyName)
	if err != nil {
		return nil, err
	}

	steps, err := stages.BuildAll(specs)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build stages")
	}
	steps = stages.WithParse(steps)

	opts = append([]pipeline.RunnerOption{
		pipeline.WithPolicy(policy),
		pipeline.WithLogger(appLogger),
	}, opts...)

	return pipeline.New(steps, opts...), nil
}

// stringsFlag returns the value of a repeatable string flag, or fallback when it was not set.
// Values are not split on commas.
func stringsFlag(cmd *cobra.Command, name string, fallback []string) []string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetStringArray(name)
		return v
	}

	return fallback
}

// stringFlag returns the value of a string flag, or fallback when it was not set.
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	return fallback
}

// boolFlag returns the value of a bool flag, or fallback when it was not set.
func boolFlag(cmd *cobra.Command, name string, fallback bool) bool {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetBool(name)
		return v
	}

	return fallback
}

// intFlag returns the value of an int flag, or fallback when it was not set.
func intFlag(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}

	return fallback
}
