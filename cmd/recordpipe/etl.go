package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-recordpipe/pkg/etl"
	"github.com/askiada/go-recordpipe/pkg/pipeline"
	"github.com/askiada/go-recordpipe/pkg/stages"
)

var ErrUnknownFormat = errors.New("unknown input format")

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Extract records from a file, transform them and load them into SQLite",
	Example: `  recordpipe etl --input users.csv --stage drop_null --stage select:name,age --db users.db
  recordpipe etl --input values.txt --format lines --stage parse_number --policy skip-record`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		input, _ := cmd.Flags().GetString("input")
		format, _ := cmd.Flags().GetString("format")
		specs := stringsFlag(cmd, "stage", appCfg.Pipeline.Stages)
		db := stringFlag(cmd, "db", appCfg.ETL.Database)

		policy, err := pipeline.ParsePolicy(stringFlag(cmd, "policy", appCfg.Pipeline.Policy))
		if err != nil {
			return err
		}

		extractor, err := newExtractor(input, format)
		if err != nil {
			return err
		}

		steps, err := stages.BuildAll(specs)
		if err != nil {
			return errors.Wrap(err, "unable to build stages")
		}
		runner := pipeline.New(stages.WithParse(steps), pipeline.WithPolicy(policy), pipeline.WithLogger(appLogger))

		loader, err := etl.NewSQLiteLoader(cmd.Context(), db)
		if err != nil {
			return err
		}
		defer loader.Close()

		job, err := etl.NewJob(extractor, runner, loader, etl.WithLogger(appLogger))
		if err != nil {
			return err
		}

		report, err := job.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "batch %s: loaded=%d dropped=%d filtered=%d into %s\n",
			report.BatchID, report.Loaded, report.Summary.Dropped, report.Summary.Filtered, db)

		return nil
	},
}

func newExtractor(input, format string) (etl.Extractor, error) {
	if format == "" {
		format = "lines"
		if strings.EqualFold(filepath.Ext(input), ".csv") {
			format = "csv"
		}
	}

	switch format {
	case "csv":
		return etl.NewCSVExtractor(input), nil
	case "tsv":
		return etl.NewCSVExtractor(input, etl.WithComma('\t')), nil
	case "lines":
		return etl.NewLinesExtractor(input), nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

func init() {
	etlCmd.Flags().String("input", "", "input file")
	etlCmd.Flags().String("format", "", "input format: csv, tsv or lines; guessed from the extension when empty")
	etlCmd.Flags().StringArray("stage", nil, "stage to apply; repeatable")
	etlCmd.Flags().String("db", "", "SQLite database, defaults to etl.database")
	etlCmd.Flags().String("policy", "abort-pipeline", "failure policy: skip-record or abort-pipeline")
	_ = etlCmd.MarkFlagRequired("input")
}
