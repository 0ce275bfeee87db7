package tensor

// Backend defines the interface compute backends must implement. Backends do
// the actual numeric work; layers and models only compose backend calls.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MulScalar multiplies every element by a scalar.
	MulScalar(x *RawTensor, scalar any) *RawTensor

	// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Conv2D convolves input [N, C_in, H, W] with kernel
	// [C_out, C_in, K, K] producing [N, C_out, H_out, W_out].
	Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor

	// MaxPool2D reduces spatial dimensions of [N, C, H, W] by taking the
	// maximum over kernelSize windows.
	MaxPool2D(input *RawTensor, kernelSize, stride int) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
