package mlmodel

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var ErrInvalidHyperparameters = errors.New("invalid hyper-parameters")

const (
	learningRateRule = "gt=0,lte=1"
	epochsRule       = "gt=0"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Hyperparameters can only hold valid values: they are built by NewHyperparameters and changed
// by setters that validate before assigning.
type Hyperparameters struct {
	learningRate float64
	epochs       int
}

// NewHyperparameters returns validated hyper-parameters.
func NewHyperparameters(learningRate float64, epochs int) (*Hyperparameters, error) {
	h := &Hyperparameters{}

	err := h.SetLearningRate(learningRate)
	if err != nil {
		return nil, err
	}
	err = h.SetEpochs(epochs)
	if err != nil {
		return nil, err
	}

	return h, nil
}

func (h *Hyperparameters) LearningRate() float64 {
	return h.learningRate
}

func (h *Hyperparameters) Epochs() int {
	return h.epochs
}

// SetLearningRate sets the learning rate, which must be in (0, 1].
func (h *Hyperparameters) SetLearningRate(lr float64) error {
	err := validate.Var(lr, learningRateRule)
	if err != nil {
		return errors.Wrapf(ErrInvalidHyperparameters, "learning rate %v", lr)
	}
	h.learningRate = lr

	return nil
}

// SetEpochs sets the number of epochs, which must be positive.
func (h *Hyperparameters) SetEpochs(epochs int) error {
	err := validate.Var(epochs, epochsRule)
	if err != nil {
		return errors.Wrapf(ErrInvalidHyperparameters, "epochs %d", epochs)
	}
	h.epochs = epochs

	return nil
}
