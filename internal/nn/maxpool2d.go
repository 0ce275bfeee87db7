package nn

import (
	"fmt"

	"github.com/sstilz/simclr/internal/tensor"
)

// MaxPool2D is a 2D max pooling layer. It reduces spatial dimensions by
// taking the maximum value in each window and has no learnable parameters.
//
// Input shape:  [batch, channels, H, W]
// Output shape: [batch, channels, (H-K)/stride+1, (W-K)/stride+1]
type MaxPool2D[B tensor.Backend] struct {
	kernelSize int
	stride     int
	backend    B
}

// NewMaxPool2D creates a new 2D max pooling layer. The common configuration
// is kernelSize == stride == 2, which halves spatial dimensions.
func NewMaxPool2D[B tensor.Backend](kernelSize, stride int, backend B) *MaxPool2D[B] {
	if kernelSize <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid stride %d", stride))
	}
	return &MaxPool2D[B]{kernelSize: kernelSize, stride: stride, backend: backend}
}

// Forward performs the pooling.
func (m *MaxPool2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if len(input.Shape()) != 4 {
		panic(fmt.Sprintf("maxpool2d: expected 4D input [N,C,H,W], got %dD", len(input.Shape())))
	}
	raw := m.backend.MaxPool2D(input.Raw(), m.kernelSize, m.stride)
	return tensor.New[float32, B](raw, m.backend)
}

// Parameters returns an empty slice; pooling has no trainable state.
func (m *MaxPool2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// KernelSize returns the pooling window size.
func (m *MaxPool2D[B]) KernelSize() int {
	return m.kernelSize
}

// Stride returns the stride.
func (m *MaxPool2D[B]) Stride() int {
	return m.stride
}

// String returns a string representation of the layer.
func (m *MaxPool2D[B]) String() string {
	return fmt.Sprintf("MaxPool2D(kernel_size=%d, stride=%d)", m.kernelSize, m.stride)
}
