package etl

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
	"github.com/askiada/go-recordpipe/pkg/record"
)

var ErrMissingHeader = errors.New("csv file has no header")

// StaticExtractor extracts a fixed list of records.
type StaticExtractor struct {
	records []record.Record
}

func NewStaticExtractor(records ...record.Record) *StaticExtractor {
	return &StaticExtractor{records: records}
}

func (e *StaticExtractor) Extract(_ context.Context) (*pipeline.Stream[record.Record], error) {
	return pipeline.FromCollection(e.records), nil
}

// LinesExtractor extracts one raw text record per line of a file. Run the lines through
// stages.Parse to get typed records, so that a malformed line is handled by the failure policy.
type LinesExtractor struct {
	path string
}

func NewLinesExtractor(path string) *LinesExtractor {
	return &LinesExtractor{path: path}
}

func (e *LinesExtractor) Extract(_ context.Context) (*pipeline.Stream[record.Record], error) {
	lines, err := pipeline.FromLines(e.path)
	if err != nil {
		return nil, err
	}

	return pipeline.Convert(lines, func(line string) (record.Record, error) {
		return record.NewText(line), nil
	}), nil
}

// CSVExtractor extracts one mapping per row of a CSV file, keyed by the header. Cells are raw
// text and missing cells are null; stages.Parse types them.
type CSVExtractor struct {
	path  string
	comma rune
}

type CSVOption func(*CSVExtractor)

// WithComma sets the field delimiter.
func WithComma(comma rune) CSVOption {
	return func(e *CSVExtractor) {
		e.comma = comma
	}
}

func NewCSVExtractor(path string, opts ...CSVOption) *CSVExtractor {
	e := &CSVExtractor{path: path, comma: ','}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *CSVExtractor) Extract(_ context.Context) (*pipeline.Stream[record.Record], error) {
	file, err := os.Open(e.path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", e.path)
	}

	rd := csv.NewReader(file)
	rd.Comma = e.comma
	rd.LazyQuotes = true
	rd.ReuseRecord = false
	rd.FieldsPerRecord = -1

	header, err := rd.Read()
	if err != nil {
		_ = file.Close()
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrap(ErrMissingHeader, e.path)
		}

		return nil, errors.Wrapf(err, "unable to read header of %s", e.path)
	}

	line := 1
	next := func() (record.Record, bool, error) {
		row, err := rd.Read()
		if errors.Is(err, io.EOF) {
			return record.Record{}, false, nil
		}
		line++
		if err != nil {
			return record.Record{}, false, errors.Wrapf(err, "unable to read line %d of %s", line, e.path)
		}

		fields := make([]record.Field, 0, len(header))
		for i, key := range header {
			value := record.NewNull()
			if i < len(row) {
				value = record.NewText(row[i])
			}
			fields = append(fields, record.F(key, value))
		}

		return record.NewMap(fields...), true, nil
	}

	return pipeline.FromFunc(next, file.Close), nil
}
