package nn

import (
	"github.com/sstilz/simclr/internal/tensor"
)

// ReLUBackend is implemented by backends that support the ReLU activation.
type ReLUBackend interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

// ReLU is the rectified linear unit activation: f(x) = max(0, x).
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies the rectifier element-wise.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	if reluBackend, ok := any(backend).(ReLUBackend); ok {
		return tensor.New[float32, B](reluBackend.ReLU(input.Raw()), backend)
	}
	panic("ReLU: backend must implement the ReLU operation")
}

// Parameters returns nil; ReLU has no trainable state.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// String returns a string representation of the layer.
func (r *ReLU[B]) String() string {
	return "ReLU()"
}
