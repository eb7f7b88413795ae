// Package mlmodel provides toy models sharing a preprocessing base, validated
// hyper-parameters and record preprocessors built on the pipeline runner.
package mlmodel

import (
	"github.com/pkg/errors"
)

var (
	ErrNotFitted      = errors.New("model is not fitted")
	ErrEmptyData      = errors.New("data must not be empty")
	ErrLengthMismatch = errors.New("features and targets must have the same length")
)

// Model is a model that can be fitted and used to predict.
type Model interface {
	Name() string
	Fit(x, y []float64) error
	Predict(x []float64) ([]float64, error)
}

// Base holds what every model shares: a name and a fitted flag.
type Base struct {
	name   string
	fitted bool
}

func NewBase(name string) Base {
	return Base{name: name}
}

func (b *Base) Name() string {
	return b.name
}

// Fitted reports whether Fit succeeded at least once.
func (b *Base) Fitted() bool {
	return b.fitted
}

// Fit checks that x and y are a non empty training set of the same length.
func (b *Base) Fit(x, y []float64) error {
	if len(x) == 0 {
		return ErrEmptyData
	}
	if len(x) != len(y) {
		return errors.Wrapf(ErrLengthMismatch, "%d features for %d targets", len(x), len(y))
	}

	b.fitted = true

	return nil
}

// Preprocess scales data to [0, 1] using (x-min)/(max-min) over data itself, fitted or not.
// Constant data scales to zeros.
func (b *Base) Preprocess(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}

	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		return out
	}
	for i, v := range data {
		out[i] = (v - lo) / (hi - lo)
	}

	return out
}

func (b *Base) predict(x []float64, fn func(float64) float64) ([]float64, error) {
	if !b.fitted {
		return nil, errors.Wrap(ErrNotFitted, b.name)
	}

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = fn(v)
	}

	return out, nil
}

// LinearRegression predicts twice its input.
type LinearRegression struct {
	Base
}

func NewLinearRegression() *LinearRegression {
	return &LinearRegression{Base: NewBase("linear_regression")}
}

func (m *LinearRegression) Predict(x []float64) ([]float64, error) {
	return m.predict(x, func(v float64) float64 { return v * 2 })
}

// DecisionTree predicts the square of its input.
type DecisionTree struct {
	Base
}

func NewDecisionTree() *DecisionTree {
	return &DecisionTree{Base: NewBase("decision_tree")}
}

func (m *DecisionTree) Predict(x []float64) ([]float64, error) {
	return m.predict(x, func(v float64) float64 { return v * v })
}

var (
	_ Model = (*LinearRegression)(nil)
	_ Model = (*DecisionTree)(nil)
)
