package nn

import (
	"testing"

	"github.com/sstilz/simclr/internal/backend/cpu"
	"github.com/sstilz/simclr/internal/tensor"
)

func TestConv2D_Creation(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(1, 32, 5, 1, 0, backend)
	if conv.InChannels() != 1 || conv.OutChannels() != 32 {
		t.Errorf("expected 1 -> 32 channels, got %d -> %d", conv.InChannels(), conv.OutChannels())
	}
	if conv.KernelSize() != 5 {
		t.Errorf("kernel size = %d, want 5", conv.KernelSize())
	}

	if !conv.weight.Tensor().Shape().Equal(tensor.Shape{32, 1, 5, 5}) {
		t.Errorf("weight shape = %v, want [32, 1, 5, 5]", conv.weight.Tensor().Shape())
	}
	if !conv.bias.Tensor().Shape().Equal(tensor.Shape{32}) {
		t.Errorf("bias shape = %v, want [32]", conv.bias.Tensor().Shape())
	}
	if len(conv.Parameters()) != 2 {
		t.Errorf("expected 2 parameters, got %d", len(conv.Parameters()))
	}
}

func TestConv2D_ForwardShape(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(1, 32, 5, 1, 0, backend)
	input := tensor.Zeros[float32](tensor.Shape{2, 1, 28, 28}, backend)

	output := conv.Forward(input)
	// (28 - 5)/1 + 1 = 24
	if !output.Shape().Equal(tensor.Shape{2, 32, 24, 24}) {
		t.Errorf("output shape = %v, want [2, 32, 24, 24]", output.Shape())
	}
}

func TestConv2D_ForwardValues(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(1, 1, 2, 1, 0, backend)

	// Ones kernel, zero bias: each output is a window sum.
	weights := conv.weight.Tensor().Data()
	for i := range weights {
		weights[i] = 1
	}

	input, err := tensor.FromSlice([]float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}, tensor.Shape{1, 1, 3, 3}, backend)
	if err != nil {
		t.Fatal(err)
	}

	output := conv.Forward(input)
	want := []float32{12, 16, 24, 28}
	got := output.Data()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("forward = %v, want %v", got, want)
		}
	}
}

func TestConv2D_ChannelMismatchPanics(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(3, 8, 3, 1, 0, backend)
	input := tensor.Zeros[float32](tensor.Shape{1, 1, 8, 8}, backend)

	defer func() {
		if recover() == nil {
			t.Fatal("forward with wrong channel count should panic")
		}
	}()
	conv.Forward(input)
}
