package mlmodel

import (
	"context"
	"math"

	"github.com/askiada/go-recordpipe/pkg/pipeline"
	"github.com/askiada/go-recordpipe/pkg/record"
)

// DataStats computes summary statistics over a dataset.
type DataStats struct {
	values []float64
}

func NewDataStats(values []float64) *DataStats {
	return &DataStats{values: append([]float64(nil), values...)}
}

func (s *DataStats) Len() int {
	return len(s.values)
}

func (s *DataStats) Mean() (float64, error) {
	if len(s.values) == 0 {
		return 0, ErrEmptyData
	}

	var sum float64
	for _, v := range s.values {
		sum += v
	}

	return sum / float64(len(s.values)), nil
}

// Std returns the population standard deviation.
func (s *DataStats) Std() (float64, error) {
	mean, err := s.Mean()
	if err != nil {
		return 0, err
	}

	var sq float64
	for _, v := range s.values {
		sq += (v - mean) * (v - mean)
	}

	return math.Sqrt(sq / float64(len(s.values))), nil
}

// FeatureScaler standardises values with (x-mean)/std, the mean and deviation being learned
// by Fit.
type FeatureScaler struct {
	mean, std float64
	fitted    bool
}

func NewFeatureScaler() *FeatureScaler {
	return &FeatureScaler{}
}

func (f *FeatureScaler) Fit(values []float64) error {
	stats := NewDataStats(values)

	mean, err := stats.Mean()
	if err != nil {
		return err
	}
	std, err := stats.Std()
	if err != nil {
		return err
	}
	f.mean, f.std, f.fitted = mean, std, true

	return nil
}

// Transform standardises one value. A zero deviation maps every value to 0.
func (f *FeatureScaler) Transform(v float64) (float64, error) {
	if !f.fitted {
		return 0, ErrNotFitted
	}
	if f.std == 0 {
		return 0, nil
	}

	return (v - f.mean) / f.std, nil
}

// Stage returns a stage standardising number records. Other records fail with a domain error.
func (f *FeatureScaler) Stage() pipeline.Stage[record.Record] {
	const name = "feature_scaler"

	return pipeline.WithDomain(pipeline.TryMap(name, func(_ context.Context, r record.Record) (record.Record, error) {
		v, _ := r.Number()

		out, err := f.Transform(v)
		if err != nil {
			return r, err
		}

		return record.NewNumber(out), nil
	}), "number", func(r record.Record) bool { return r.Kind() == record.Number })
}
