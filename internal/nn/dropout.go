package nn

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sstilz/simclr/internal/tensor"
)

// Dropout randomly zeroes elements during training and is the identity during
// evaluation. Uses inverted dropout: survivors are scaled by 1/(1-rate) so
// that the expected activation magnitude matches between modes and no
// rescaling is needed at evaluation time.
//
// Mode is a mutable flag. The owning network fans SetTraining out to every
// dropout layer before a forward pass; layers start in training mode, matching
// the convention that models are constructed for training first.
type Dropout[B tensor.Backend] struct {
	rate     float64
	training bool
	backend  B
}

// NewDropout creates a dropout layer. rate is the drop probability and must
// be in [0, 1); a rate of 0 makes the layer a no-op in both modes.
func NewDropout[B tensor.Backend](rate float64, backend B) *Dropout[B] {
	if rate < 0 || rate >= 1 {
		panic(fmt.Sprintf("dropout: rate %v outside [0, 1)", rate))
	}
	return &Dropout[B]{rate: rate, training: true, backend: backend}
}

// SetTraining toggles between training (random zeroing) and evaluation
// (identity) behavior.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

// Training reports whether the layer is in training mode.
func (d *Dropout[B]) Training() bool {
	return d.training
}

// Rate returns the configured drop probability.
func (d *Dropout[B]) Rate() float64 {
	return d.rate
}

// Forward applies dropout to the input.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.rate == 0 {
		return input
	}

	keep := distuv.Bernoulli{P: 1 - d.rate}
	scale := float32(1 / (1 - d.rate))

	mask := tensor.Zeros[float32](input.Shape(), d.backend)
	maskData := mask.Data()
	for i := range maskData {
		if keep.Rand() == 1 {
			maskData[i] = scale
		}
	}

	return input.Mul(mask)
}

// Parameters returns nil; dropout has no trainable state.
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}

// String returns a string representation of the layer.
func (d *Dropout[B]) String() string {
	return fmt.Sprintf("Dropout(p=%v)", d.rate)
}
