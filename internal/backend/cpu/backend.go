// Package cpu implements the CPU compute backend. Dense matrix products go
// through gonum's BLAS; convolution and pooling are hand-rolled loops.
package cpu

import (
	"fmt"

	"github.com/sstilz/simclr/internal/tensor"
)

// CPUBackend implements tensor operations on the CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{device: tensor.CPU}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("mulscalar: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		s := toFloat64(scalar)
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i := range src {
			dst[i] = src[i] * float32(s)
		}
	case tensor.Float64:
		s := toFloat64(scalar)
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i := range src {
			dst[i] = src[i] * s
		}
	default:
		panic(fmt.Sprintf("mulscalar: unsupported dtype %s", x.DType()))
	}
	return result
}

func toFloat64(scalar any) float64 {
	switch v := scalar.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	default:
		panic(fmt.Sprintf("unsupported scalar type %T", scalar))
	}
}

// binaryOp applies an element-wise binary operation with broadcasting.
func (cpu *CPUBackend) binaryOp(
	name string,
	a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	switch a.DType() {
	case tensor.Float32:
		if !needsBroadcast {
			x, y, dst := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
			for i := range dst {
				dst[i] = f32(x[i], y[i])
			}
			return result
		}
		x, y, dst := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
		aIdx := broadcastIndexer(a.Shape(), outShape)
		bIdx := broadcastIndexer(b.Shape(), outShape)
		for i := range dst {
			dst[i] = f32(x[aIdx(i)], y[bIdx(i)])
		}
	case tensor.Float64:
		if !needsBroadcast {
			x, y, dst := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
			for i := range dst {
				dst[i] = f64(x[i], y[i])
			}
			return result
		}
		x, y, dst := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
		aIdx := broadcastIndexer(a.Shape(), outShape)
		bIdx := broadcastIndexer(b.Shape(), outShape)
		for i := range dst {
			dst[i] = f64(x[aIdx(i)], y[bIdx(i)])
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}

	return result
}

// broadcastIndexer maps a flat index in the broadcast output shape to the flat
// index in a (possibly smaller) source shape. Size-1 source dimensions get a
// zero stride.
func broadcastIndexer(src, out tensor.Shape) func(int) int {
	outStrides := out.ComputeStrides()
	srcStrides := src.ComputeStrides()

	// Effective per-output-dimension strides into the source buffer.
	strides := make([]int, len(out))
	offset := len(out) - len(src)
	for i := range out {
		si := i - offset
		if si < 0 || src[si] == 1 {
			strides[i] = 0
		} else {
			strides[i] = srcStrides[si]
		}
	}

	return func(flat int) int {
		idx := 0
		for i := range out {
			coord := flat / outStrides[i]
			flat -= coord * outStrides[i]
			idx += coord * strides[i]
		}
		return idx
	}
}
