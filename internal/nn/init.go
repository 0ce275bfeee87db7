package nn

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sstilz/simclr/internal/tensor"
)

// Xavier returns a tensor initialized with Xavier/Glorot uniform values:
// U(-sqrt(6/(fanIn+fanOut)), +sqrt(6/(fanIn+fanOut))). This keeps activation
// variance roughly constant across layers.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	dist := distuv.Uniform{Min: -bound, Max: bound}

	t := tensor.Zeros[float32](shape, backend)
	data := t.Data()
	for i := range data {
		data[i] = float32(dist.Rand())
	}
	return t
}

// Zeros creates a zero-filled tensor, commonly used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32](shape, backend)
}
