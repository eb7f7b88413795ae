package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
)

// resetFlags puts every flag of cmd and its sub-commands back to its default value.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command once with fresh flags. Commands share global state, so no
// test runs in parallel.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.ExecuteContext(t.Context())

	return stdout.String(), stderr.String(), err
}

func TestRunCommand(t *testing.T) {
	stdout, stderr, err := execute(t, "  Ada\nbob\n{bad\nada\n",
		"run", "--stage", "trim", "--stage", "lowercase", "--stage", "dedupe", "--policy", "skip-record")
	require.NoError(t, err)

	assert.Equal(t, "ada\nbob\n", stdout)
	assert.Contains(t, stderr, "input=4 output=2 filtered=1 dropped=1")
	assert.Contains(t, stderr, "dropped record 2 at parse")
}

func TestRunCommandStageArguments(t *testing.T) {
	stdout, _, err := execute(t, "{\"name\":\"Ada\",\"age\":36,\"x\":1}\n", "run", "--stage", "select:name,age")
	require.NoError(t, err)

	assert.Equal(t, "{name: \"Ada\", age: 36}\n", stdout)
}

func TestRunCommandManyInputs(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	require.NoError(t, os.WriteFile(first, []byte("1\n2\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("3\nfour\n5\n"), 0o600))

	stdout, stderr, err := execute(t, "", "run", "--input", first, "--input", second,
		"--parallelism", "2", "--stage", "scale:10", "--policy", "skip-record")
	require.NoError(t, err)

	assert.Equal(t, "10\n20\n30\n50\n", stdout)
	assert.Contains(t, stderr, "run "+first+" ")
	assert.Contains(t, stderr, "input=3 output=2 filtered=0 dropped=1")
	assert.Contains(t, stderr, "dropped record 1 at scale")
}

func TestRunCommandInvalidParallelism(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("1\n"), 0o600))

	_, _, err := execute(t, "", "run", "--input", input, "--input", input, "--parallelism", "0")
	require.ErrorIs(t, err, pipeline.ErrParallelLimit)
}

func TestRunCommandMeasure(t *testing.T) {
	_, stderr, err := execute(t, "1\n-2\n3\n", "run", "--stage", "filter_gt:0", "--measure")
	require.NoError(t, err)

	assert.Contains(t, stderr, "records=3")
	assert.NotContains(t, stderr, "outputs=")
}

func TestReduceCommand(t *testing.T) {
	stdout, stderr, err := execute(t, "1\n2\n3.5\n10\nx\n", "reduce", "--stage", "filter_lt:5", "--op", "sum",
		"--policy", "skip-record")
	require.NoError(t, err)

	assert.Equal(t, "6.5\n", stdout)
	assert.Contains(t, stderr, "input=5 output=3 filtered=1 dropped=1")
	assert.Contains(t, stderr, "dropped record 4 at filter_lt")
}

func TestDrawCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pipeline.dot")

	_, stderr, err := execute(t, "", "draw", "--stage", "trim", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "pipeline drawn to "+out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"parse" -> "trim"`)
}

func TestETLCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(input, []byte("name,age,team\nAda,36,x\nBob,{bad,y\nAlan,41,z\n"), 0o600))
	db := filepath.Join(dir, "people.db")

	stdout, _, err := execute(t, "", "etl", "--input", input, "--stage", "select:name,age",
		"--stage", "lowercase", "--policy", "skip-record", "--db", db)
	require.NoError(t, err)

	assert.Contains(t, stdout, "loaded=2 dropped=1 filtered=0 into "+db)
	assert.FileExists(t, db)
}

func TestStagesCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "stages")
	require.NoError(t, err)

	names := strings.Fields(stdout)
	assert.Contains(t, names, "parse")
	assert.Contains(t, names, "filter_gt")
}

func TestLessonsCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "lessons", "list")
	require.NoError(t, err)

	assert.Contains(t, stdout, "pipelines")
	assert.Contains(t, stdout, "recursion")
}

func TestUnknownExtractorFormat(t *testing.T) {
	_, err := newExtractor("input.xml", "xml")
	require.ErrorIs(t, err, ErrUnknownFormat)

	extractor, err := newExtractor("input.CSV", "")
	require.NoError(t, err)
	assert.NotNil(t, extractor)
}
