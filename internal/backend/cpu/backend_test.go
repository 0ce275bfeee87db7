package cpu

import (
	"testing"

	"github.com/sstilz/simclr/internal/tensor"
)

func rawFromFloat32(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw(%v): %v", shape, err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func TestAdd_SameShape(t *testing.T) {
	backend := New()

	a := rawFromFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawFromFloat32(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})

	result := backend.Add(a, b)
	want := []float32{11, 22, 33, 44}
	got := result.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Add = %v, want %v", got, want)
		}
	}
}

func TestAdd_BroadcastBias(t *testing.T) {
	backend := New()

	// [2, 3] + [1, 3]: the bias row broadcasts over the batch dimension,
	// the same pattern Linear uses.
	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := rawFromFloat32(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	result := backend.Add(x, bias)
	want := []float32{11, 22, 33, 14, 25, 36}
	got := result.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Add broadcast = %v, want %v", got, want)
		}
	}
}

func TestAdd_BroadcastChannelBias(t *testing.T) {
	backend := New()

	// [1, 2, 2, 2] + [1, 2, 1, 1]: per-channel bias over space, the
	// pattern Conv2D uses.
	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{1, 2, 2, 2})
	bias := rawFromFloat32(t, []float32{100, 200}, tensor.Shape{1, 2, 1, 1})

	result := backend.Add(x, bias)
	want := []float32{101, 102, 103, 104, 205, 206, 207, 208}
	got := result.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Add channel broadcast = %v, want %v", got, want)
		}
	}
}

func TestAdd_IncompatibleShapes(t *testing.T) {
	backend := New()

	a := rawFromFloat32(t, make([]float32, 12), tensor.Shape{3, 4})
	b := rawFromFloat32(t, make([]float32, 15), tensor.Shape{3, 5})

	defer func() {
		if recover() == nil {
			t.Fatal("Add with incompatible shapes should panic")
		}
	}()
	backend.Add(a, b)
}

func TestMulScalar(t *testing.T) {
	backend := New()

	x := rawFromFloat32(t, []float32{1, -2, 3}, tensor.Shape{3})
	result := backend.MulScalar(x, float32(2))

	want := []float32{2, -4, 6}
	got := result.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MulScalar = %v, want %v", got, want)
		}
	}
}

func TestReLU(t *testing.T) {
	backend := New()

	x := rawFromFloat32(t, []float32{-1, 0, 2, -3.5, 4}, tensor.Shape{5})
	result := backend.ReLU(x)

	want := []float32{0, 0, 2, 0, 4}
	got := result.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ReLU = %v, want %v", got, want)
		}
	}
}

func TestTranspose2D(t *testing.T) {
	backend := New()

	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	result := backend.Transpose(x)

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Transpose shape = %v, want [3, 2]", result.Shape())
	}
	want := []float32{1, 4, 2, 5, 3, 6}
	got := result.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Transpose = %v, want %v", got, want)
		}
	}
}

func TestReshape_View(t *testing.T) {
	backend := New()

	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	result := backend.Reshape(x, tensor.Shape{3, 2})

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Reshape shape = %v, want [3, 2]", result.Shape())
	}
	// Row-major order is preserved.
	got := result.AsFloat32()
	for i, want := range []float32{1, 2, 3, 4, 5, 6} {
		if got[i] != want {
			t.Fatalf("Reshape data = %v", got)
		}
	}
}
