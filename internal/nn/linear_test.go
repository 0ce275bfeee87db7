package nn

import (
	"testing"

	"github.com/sstilz/simclr/internal/backend/cpu"
	"github.com/sstilz/simclr/internal/tensor"
)

func TestLinear_Creation(t *testing.T) {
	backend := cpu.New()

	layer := NewLinear(784, 128, backend)
	if layer.InFeatures() != 784 || layer.OutFeatures() != 128 {
		t.Errorf("expected 784 -> 128, got %d -> %d", layer.InFeatures(), layer.OutFeatures())
	}

	if !layer.Weight().Tensor().Shape().Equal(tensor.Shape{128, 784}) {
		t.Errorf("weight shape = %v, want [128, 784]", layer.Weight().Tensor().Shape())
	}
	if !layer.Bias().Tensor().Shape().Equal(tensor.Shape{128}) {
		t.Errorf("bias shape = %v, want [128]", layer.Bias().Tensor().Shape())
	}
	if len(layer.Parameters()) != 2 {
		t.Errorf("expected 2 parameters, got %d", len(layer.Parameters()))
	}
}

func TestLinear_ForwardShape(t *testing.T) {
	backend := cpu.New()

	layer := NewLinear(1024, 128, backend)
	input := tensor.Zeros[float32](tensor.Shape{8, 1024}, backend)

	output := layer.Forward(input)
	if !output.Shape().Equal(tensor.Shape{8, 128}) {
		t.Errorf("output shape = %v, want [8, 128]", output.Shape())
	}
}

func TestLinear_ForwardValues(t *testing.T) {
	backend := cpu.New()

	layer := NewLinear(2, 1, backend)

	// y = 2*x0 + 3*x1 + 1
	weights := layer.Weight().Tensor().Data()
	weights[0], weights[1] = 2, 3
	layer.Bias().Tensor().Data()[0] = 1

	input, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{1, 2}, backend)
	if err != nil {
		t.Fatal(err)
	}

	output := layer.Forward(input)
	if got := output.At(0, 0); got != 9 {
		t.Errorf("forward = %v, want 9", got)
	}
}

func TestLinear_FeatureMismatchPanics(t *testing.T) {
	backend := cpu.New()

	layer := NewLinear(1024, 128, backend)
	input := tensor.Zeros[float32](tensor.Shape{8, 784}, backend)

	defer func() {
		if recover() == nil {
			t.Fatal("forward with wrong feature count should panic")
		}
	}()
	layer.Forward(input)
}

func TestLinear_InvalidConfigPanics(t *testing.T) {
	backend := cpu.New()

	defer func() {
		if recover() == nil {
			t.Fatal("zero input features should panic")
		}
	}()
	NewLinear(0, 128, backend)
}
