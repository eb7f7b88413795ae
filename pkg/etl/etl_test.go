package etl_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-recordpipe/pkg/etl"
	"github.com/askiada/go-recordpipe/pkg/pipeline"
	"github.com/askiada/go-recordpipe/pkg/record"
	"github.com/askiada/go-recordpipe/pkg/stages"
)

var errLoad = errors.New("load failed")

type failingLoader struct{}

func (failingLoader) Load(context.Context, string, []record.Record) error {
	return errLoad
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func assertRecords(t *testing.T, expected, got []record.Record) {
	t.Helper()

	require.Len(t, got, len(expected))
	for i := range expected {
		assert.True(t, expected[i].Equal(got[i]), "record %d: expected %s, got %s", i, expected[i], got[i])
	}
}

func TestNewJob(t *testing.T) {
	t.Parallel()

	_, err := etl.NewJob(nil, nil, etl.NewSliceLoader())
	require.ErrorIs(t, err, etl.ErrExtractorMustBeSet)

	_, err = etl.NewJob(etl.NewStaticExtractor(), nil, nil)
	require.ErrorIs(t, err, etl.ErrLoaderMustBeSet)
}

func TestJobRun(t *testing.T) {
	t.Parallel()

	loader := etl.NewSliceLoader()
	runner := pipeline.New([]stages.Stage{stages.FilterGreaterThan(2), stages.Scale(10)},
		pipeline.WithPolicy(pipeline.SkipRecord))

	job, err := etl.NewJob(
		etl.NewStaticExtractor(record.NewNumber(1), record.NewNumber(3), record.NewText("x"), record.NewNumber(5)),
		runner,
		loader,
	)
	require.NoError(t, err)

	report, err := job.Run(t.Context())
	require.NoError(t, err)
	assert.NotEmpty(t, report.BatchID)
	assert.Equal(t, 2, report.Loaded)
	assert.Equal(t, 4, report.Summary.Input)
	assert.Equal(t, 1, report.Summary.Filtered)
	assert.Equal(t, 1, report.Summary.Dropped)
	assert.Equal(t, []string{report.BatchID}, loader.Batches())
	assertRecords(t, record.Numbers(30, 50), loader.Records())

	again, err := job.Run(t.Context())
	require.NoError(t, err)
	assert.NotEqual(t, report.BatchID, again.BatchID, "every run is a new batch")
	assert.Len(t, loader.Records(), 4)
}

func TestJobRunIdentity(t *testing.T) {
	t.Parallel()

	loader := etl.NewSliceLoader()
	job, err := etl.NewJob(etl.NewStaticExtractor(record.Texts("a", "b")...), nil, loader)
	require.NoError(t, err)

	_, err = job.Run(t.Context())
	require.NoError(t, err)
	assertRecords(t, record.Texts("a", "b"), loader.Records())
}

func TestJobRunErrors(t *testing.T) {
	t.Parallel()

	t.Run("transform", func(t *testing.T) {
		t.Parallel()

		loader := etl.NewSliceLoader()
		runner := pipeline.New([]stages.Stage{stages.Scale(2)})
		job, err := etl.NewJob(etl.NewStaticExtractor(record.NewText("x")), runner, loader)
		require.NoError(t, err)

		_, err = job.Run(t.Context())
		require.ErrorIs(t, err, pipeline.ErrDomain)
		assert.Empty(t, loader.Batches(), "nothing is loaded when the transformation fails")
	})

	t.Run("extract", func(t *testing.T) {
		t.Parallel()

		job, err := etl.NewJob(etl.NewLinesExtractor(filepath.Join(t.TempDir(), "missing")), nil, etl.NewSliceLoader())
		require.NoError(t, err)

		_, err = job.Run(t.Context())
		require.Error(t, err)
	})

	t.Run("load", func(t *testing.T) {
		t.Parallel()

		job, err := etl.NewJob(etl.NewStaticExtractor(record.NewNumber(1)), nil, failingLoader{})
		require.NoError(t, err)

		_, err = job.Run(t.Context())
		require.ErrorIs(t, err, errLoad)
	})
}

func TestLinesExtractor(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "input.txt", "1.5\nhello\nnull\n{\"a\": 2}\n")

	stream, err := etl.NewLinesExtractor(path).Extract(t.Context())
	require.NoError(t, err)
	got, err := stream.ToList()
	require.NoError(t, err)

	assertRecords(t, record.Texts("1.5", "hello", "null", `{"a": 2}`), got)

	typed, _, err := pipeline.New(stages.WithParse(nil)).Run(t.Context(), pipeline.FromCollection(got))
	require.NoError(t, err)
	assertRecords(t, []record.Record{
		record.NewNumber(1.5),
		record.NewText("hello"),
		record.NewNull(),
		record.NewMap(record.F("a", record.NewNumber(2))),
	}, typed)
}

func TestExtractorsSkipMalformedRecords(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		extractor func(t *testing.T) etl.Extractor
		expected  []record.Record
	}{
		"lines": {
			extractor: func(t *testing.T) etl.Extractor {
				t.Helper()
				return etl.NewLinesExtractor(writeFile(t, "input.txt", "1\n2\n{bad\n4\n5\n"))
			},
			expected: record.Numbers(1, 2, 4, 5),
		},
		"csv": {
			extractor: func(t *testing.T) etl.Extractor {
				t.Helper()
				return etl.NewCSVExtractor(writeFile(t, "input.csv", "name,age\nada,36\nalan,{bad\ngrace,85\n"))
			},
			expected: []record.Record{
				record.NewMap(record.F("name", record.NewText("ada")), record.F("age", record.NewNumber(36))),
				record.NewMap(record.F("name", record.NewText("grace")), record.F("age", record.NewNumber(85))),
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			loader := etl.NewSliceLoader()
			runner := pipeline.New(stages.WithParse(nil), pipeline.WithPolicy(pipeline.SkipRecord))
			job, err := etl.NewJob(tc.extractor(t), runner, loader)
			require.NoError(t, err)

			report, err := job.Run(t.Context())
			require.NoError(t, err)
			assert.Equal(t, len(tc.expected), report.Loaded)
			assert.Equal(t, 1, report.Summary.Dropped)
			require.Len(t, report.Summary.Drops, 1)
			assert.ErrorIs(t, report.Summary.Drops[0].Err, pipeline.ErrDomain)
			assertRecords(t, tc.expected, loader.Records())
		})
	}
}

func TestCSVExtractor(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		content  string
		opts     []etl.CSVOption
		expected []record.Record
		expErr   error
	}{
		"comma": {
			content: "name,age\nada,36\nalan,\n",
			expected: []record.Record{
				record.NewMap(record.F("name", record.NewText("ada")), record.F("age", record.NewText("36"))),
				record.NewMap(record.F("name", record.NewText("alan")), record.F("age", record.NewText(""))),
			},
		},
		"short row": {
			content: "name,age\nada\n",
			expected: []record.Record{
				record.NewMap(record.F("name", record.NewText("ada")), record.F("age", record.NewNull())),
			},
		},
		"tab": {
			content: "city\tzip\nLondon\tN1\n",
			opts:    []etl.CSVOption{etl.WithComma('\t')},
			expected: []record.Record{
				record.NewMap(record.F("city", record.NewText("London")), record.F("zip", record.NewText("N1"))),
			},
		},
		"header only": {
			content:  "name,age\n",
			expected: []record.Record{},
		},
		"empty": {
			content: "",
			expErr:  etl.ErrMissingHeader,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, "input.csv", tc.content)

			stream, err := etl.NewCSVExtractor(path, tc.opts...).Extract(t.Context())
			if tc.expErr != nil {
				require.ErrorIs(t, err, tc.expErr)
				return
			}
			require.NoError(t, err)

			got, err := stream.ToList()
			require.NoError(t, err)
			assertRecords(t, tc.expected, got)
		})
	}
}

func TestLogLoader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	loader := etl.NewLogLoader(zerolog.New(&buf))

	require.NoError(t, loader.Load(t.Context(), "batch-1", record.Texts("a")))
	assert.Contains(t, buf.String(), `"batch_id":"batch-1"`)
	assert.Contains(t, buf.String(), `"kind":"text"`)
}

func TestSQLiteLoader(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	loader, err := etl.NewSQLiteLoader(ctx, filepath.Join(t.TempDir(), "etl.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = loader.Close() })

	path := writeFile(t, "people.csv", "name,age\nAda,36\nAlan,41\n")
	runner := pipeline.New(stages.WithParse([]stages.Stage{stages.Lowercase(), stages.OnField("age", stages.Offset(1))}))
	job, err := etl.NewJob(etl.NewCSVExtractor(path), runner, loader)
	require.NoError(t, err)

	report, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Loaded)

	got, err := loader.Records(ctx, report.BatchID)
	require.NoError(t, err)
	assertRecords(t, []record.Record{
		record.NewMap(record.F("name", record.NewText("ada")), record.F("age", record.NewNumber(37))),
		record.NewMap(record.F("name", record.NewText("alan")), record.F("age", record.NewNumber(42))),
	}, got)

	batches, err := loader.Batches(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{report.BatchID: 2}, batches)

	empty, err := loader.Records(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
