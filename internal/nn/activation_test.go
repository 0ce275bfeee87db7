package nn

import (
	"testing"

	"github.com/sstilz/simclr/internal/backend/cpu"
	"github.com/sstilz/simclr/internal/tensor"
)

func TestReLU_Forward(t *testing.T) {
	backend := cpu.New()

	relu := NewReLU[*cpu.CPUBackend]()
	input, err := tensor.FromSlice([]float32{-2, -0.5, 0, 0.5, 2}, tensor.Shape{5}, backend)
	if err != nil {
		t.Fatal(err)
	}

	output := relu.Forward(input)
	want := []float32{0, 0, 0, 0.5, 2}
	got := output.Data()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ReLU = %v, want %v", got, want)
		}
	}
}

func TestReLU_NoParameters(t *testing.T) {
	relu := NewReLU[*cpu.CPUBackend]()
	if relu.Parameters() != nil {
		t.Error("ReLU should have no parameters")
	}
}

func TestXavier_Bounds(t *testing.T) {
	backend := cpu.New()

	fanIn, fanOut := 100, 50
	w := Xavier(fanIn, fanOut, tensor.Shape{fanOut, fanIn}, backend)

	// sqrt(6/150) ≈ 0.2
	bound := float32(0.2001)
	for _, v := range w.Data() {
		if v < -bound || v > bound {
			t.Fatalf("Xavier value %v outside ±%v", v, bound)
		}
	}
}
