// Package nn implements the neural network layer primitives the models are
// composed of: Linear, Conv2D, MaxPool2D, ReLU and Dropout, plus the Module
// interface and Parameter type that tie them together.
//
// Design follows PyTorch's nn.Module adapted for Go generics: every layer is
// parameterized by the compute backend B.
package nn

import (
	"github.com/sstilz/simclr/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module.
	// Modules without trainable state return an empty slice.
	Parameters() []*Parameter[B]
}
