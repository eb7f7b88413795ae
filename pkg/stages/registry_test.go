package stages_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-recordpipe/pkg/record"
	"github.com/askiada/go-recordpipe/pkg/stages"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		spec         string
		expectedName string
		expectedErr  error
	}{
		"no argument":       {spec: "lowercase", expectedName: "lowercase"},
		"one argument":      {spec: "filter_gt:25", expectedName: "filter_gt"},
		"spaces":            {spec: " scale : 2 ", expectedName: "scale"},
		"many arguments":    {spec: "select:name, age", expectedName: "select"},
		"fill null":         {spec: "fill_null:0", expectedName: "fill_null"},
		"unknown":           {spec: "explode", expectedErr: stages.ErrUnknownStage},
		"unexpected args":   {spec: "trim:1", expectedErr: stages.ErrStageArgs},
		"not a number":      {spec: "scale:two", expectedErr: stages.ErrStageArgs},
		"infinite number":   {spec: "scale:inf", expectedErr: stages.ErrStageArgs},
		"missing argument":  {spec: "offset", expectedErr: stages.ErrStageArgs},
		"missing selection": {spec: "select", expectedErr: stages.ErrStageArgs},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stage, err := stages.Build(tc.spec)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedName, stage.Name())
		})
	}
}

func TestBuildAll(t *testing.T) {
	t.Parallel()

	built, err := stages.BuildAll([]string{"trim", "scale:2"})
	require.NoError(t, err)
	require.Len(t, built, 2)

	out, keep, err := built[1].Apply(t.Context(), record.NewNumber(2))
	require.NoError(t, err)
	assert.True(t, keep)
	assert.True(t, record.NewNumber(4).Equal(out))

	_, err = stages.BuildAll([]string{"trim", "nope"})
	require.ErrorIs(t, err, stages.ErrUnknownStage)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := stages.NewRegistry()
	factory := func([]string) (stages.Stage, error) { return stages.Trim(), nil }
	require.NoError(t, reg.Register("strip", factory))
	require.ErrorIs(t, reg.Register("strip", factory), stages.ErrStageExists)
	assert.Equal(t, []string{"strip"}, reg.Names())

	stage, err := reg.Build("strip")
	require.NoError(t, err)
	assert.Equal(t, "trim", stage.Name())

	assert.Contains(t, stages.Names(), "dedupe")
	assert.Contains(t, stages.Names(), "parse")
}
