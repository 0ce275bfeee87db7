package cpu

import (
	"fmt"

	"github.com/sstilz/simclr/internal/tensor"
)

// Reshape returns a view of the tensor under a new shape.
// Panics if the element counts differ.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result, err := t.WithShape(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return result
}

// Transpose permutes the tensor's dimensions, materializing the result.
// With no axes the dimension order is reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	rank := len(shape)

	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", rank, len(axes)))
	}

	seen := make([]bool, rank)
	outShape := make(tensor.Shape, rank)
	for i, ax := range axes {
		if ax < 0 || ax >= rank || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes %v for rank %d", axes, rank))
		}
		seen[ax] = true
		outShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(outShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	srcStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	numElements := t.NumElements()

	// Walk output positions, gathering from the permuted source index.
	srcIndex := func(flat int) int {
		idx := 0
		for i := 0; i < rank; i++ {
			coord := flat / outStrides[i]
			flat -= coord * outStrides[i]
			idx += coord * srcStrides[axes[i]]
		}
		return idx
	}

	switch t.DType() {
	case tensor.Float32:
		src, dst := t.AsFloat32(), result.AsFloat32()
		for i := 0; i < numElements; i++ {
			dst[i] = src[srcIndex(i)]
		}
	case tensor.Float64:
		src, dst := t.AsFloat64(), result.AsFloat64()
		for i := 0; i < numElements; i++ {
			dst[i] = src[srcIndex(i)]
		}
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}

	return result
}
