package measure_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
	"github.com/askiada/go-recordpipe/pkg/pipeline/measure"
)

func TestDefaultMetric(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	mt := msr.AddMetric("stage")
	assert.Same(t, mt, msr.AddMetric("stage"), "adding a metric twice keeps the first one")

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mt.AddDuration(2 * time.Millisecond)
			mt.AddTransport("source")
		}()
	}
	wg.Wait()
	mt.AddDrop()
	mt.SetTotalDuration(time.Second)

	assert.EqualValues(t, 10, mt.Total())
	assert.EqualValues(t, 1, mt.Drops())
	assert.Equal(t, 2*time.Millisecond, mt.AVGDuration())
	assert.Equal(t, time.Second, mt.GetTotalDuration())
	assert.Equal(t, map[string]*measure.TransportInfo{"source": {Total: 10}}, mt.AllTransports())
	assert.Nil(t, msr.GetMetric("unknown"))
	assert.Len(t, msr.AllMetrics(), 1)
}

func TestRunMeasure(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	positive := pipeline.TryMap("positive", func(_ context.Context, in int) (int, error) {
		if in < 0 {
			return 0, assert.AnError
		}

		return in, nil
	})
	even := pipeline.Filter("even", func(in int) bool { return in%2 == 0 })

	res, err := pipeline.Run(t.Context(), pipeline.FromCollection([]int{1, 2, -3, 4, 6}),
		[]pipeline.Stage[int]{positive, even},
		pipeline.WithPolicy(pipeline.SkipRecord),
		pipeline.WithRunOptions(measure.RunMeasure(msr)))
	require.NoError(t, err)
	require.Equal(t, []int{2, 4, 6}, res.Records)

	metrics := msr.AllMetrics()
	require.Len(t, metrics, 4)

	assert.EqualValues(t, 5, metrics["positive"].Total())
	assert.EqualValues(t, 1, metrics["positive"].Drops())
	assert.EqualValues(t, 5, metrics["positive"].AllTransports()["source"].Total)
	assert.EqualValues(t, 4, metrics["even"].Total())
	assert.EqualValues(t, 4, metrics["even"].AllTransports()["positive"].Total)
	assert.Equal(t, res.Duration, metrics["sink"].GetTotalDuration())
}
