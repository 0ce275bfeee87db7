package nn

import (
	"github.com/sstilz/simclr/internal/tensor"
)

// Parameter is a named trainable tensor. The external training framework
// collects Parameters from a model and owns their gradients and updates.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewParameter creates a new trainable parameter.
// The tensor should already be initialized.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{name: name, tensor: t}
}

// Name returns the parameter name (e.g. "conv2d.weight").
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}
