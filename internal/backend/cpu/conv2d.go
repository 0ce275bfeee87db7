package cpu

import (
	"fmt"

	"github.com/sstilz/simclr/internal/tensor"
)

// Conv2D performs 2D convolution using im2col followed by GEMM.
//
// Input shape:  [N, C_in, H, W]
// Kernel shape: [C_out, C_in, K_h, K_w]
// Output shape: [N, C_out, H_out, W_out]
//
// where H_out = (H + 2*padding - K_h)/stride + 1 and likewise for W_out.
//
// Im2col lays each receptive field out as a row so the whole convolution
// becomes one matrix product (Chellapilla et al., 2006), which we hand to the
// same BLAS GEMM the Linear layer uses.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", len(kernelShape)))
	}

	N, cIn, h, w := inputShape[0], inputShape[1], inputShape[2], inputShape[3]
	cOut, cInK, kh, kw := kernelShape[0], kernelShape[1], kernelShape[2], kernelShape[3]

	if cIn != cInK {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", cIn, cInK))
	}

	hOut := (h+2*padding-kh)/stride + 1
	wOut := (w+2*padding-kw)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions %dx%d (kernel=%dx%d, stride=%d, padding=%d, input=%dx%d)",
			hOut, wOut, kh, kw, stride, padding, h, w))
	}

	output, err := tensor.NewRaw(tensor.Shape{N, cOut, hOut, wOut}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("conv2d: %v", err))
	}

	switch input.DType() {
	case tensor.Float32:
		conv2dFloat32(output, input, kernel, N, cIn, h, w, cOut, kh, kw, hOut, wOut, stride, padding)
	case tensor.Float64:
		conv2dFloat64(output, input, kernel, N, cIn, h, w, cOut, kh, kw, hOut, wOut, stride, padding)
	default:
		panic(fmt.Sprintf("conv2d: unsupported dtype %s", input.DType()))
	}

	return output
}

func conv2dFloat32(output, input, kernel *tensor.RawTensor, n, cIn, h, w, cOut, kh, kw, hOut, wOut, stride, padding int) {
	inputData := input.AsFloat32()
	kernelData := kernel.AsFloat32()
	outputData := output.AsFloat32()

	// colBuf rows are receptive fields, one per output position:
	// [C_in*K_h*K_w, N*H_out*W_out] in column-per-position layout so that
	// kernel @ colBuf directly yields [C_out, N*H_out*W_out].
	colWidth := cIn * kh * kw
	colHeight := n * hOut * wOut
	colBuf := make([]float32, colWidth*colHeight)
	im2colFloat32(colBuf, inputData, n, cIn, h, w, kh, kw, hOut, wOut, stride, padding)

	// kernelData is already the [C_out, C_in*K_h*K_w] matrix in row-major.
	prod := make([]float32, cOut*colHeight)
	gemmFloat32(prod, kernelData, colBuf, cOut, colWidth, colHeight)

	// Rearrange [C_out, N*H_out*W_out] into [N, C_out, H_out, W_out].
	plane := hOut * wOut
	for c := 0; c < cOut; c++ {
		for b := 0; b < n; b++ {
			src := prod[c*colHeight+b*plane:]
			dst := outputData[b*cOut*plane+c*plane:]
			copy(dst[:plane], src[:plane])
		}
	}
}

// im2colFloat32 writes receptive fields as columns: colBuf[k, p] holds kernel
// position k of output position p.
func im2colFloat32(colBuf, inputData []float32, n, c, h, w, kh, kw, hOut, wOut, stride, padding int) {
	colHeight := n * hOut * wOut
	col := 0

	for b := 0; b < n; b++ {
		for outH := 0; outH < hOut; outH++ {
			for outW := 0; outW < wOut; outW++ {
				hStart := outH*stride - padding
				wStart := outW*stride - padding

				row := 0
				for ch := 0; ch < c; ch++ {
					channel := inputData[(b*c+ch)*h*w:]
					for i := 0; i < kh; i++ {
						for j := 0; j < kw; j++ {
							y := hStart + i
							x := wStart + j
							if y >= 0 && y < h && x >= 0 && x < w {
								colBuf[row*colHeight+col] = channel[y*w+x]
							}
							// Out-of-bounds positions stay zero (padding).
							row++
						}
					}
				}
				col++
			}
		}
	}
}

func conv2dFloat64(output, input, kernel *tensor.RawTensor, n, cIn, h, w, cOut, kh, kw, hOut, wOut, stride, padding int) {
	inputData := input.AsFloat64()
	kernelData := kernel.AsFloat64()
	outputData := output.AsFloat64()

	colWidth := cIn * kh * kw
	colHeight := n * hOut * wOut
	colBuf := make([]float64, colWidth*colHeight)
	im2colFloat64(colBuf, inputData, n, cIn, h, w, kh, kw, hOut, wOut, stride, padding)

	prod := make([]float64, cOut*colHeight)
	gemmFloat64(prod, kernelData, colBuf, cOut, colWidth, colHeight)

	plane := hOut * wOut
	for c := 0; c < cOut; c++ {
		for b := 0; b < n; b++ {
			src := prod[c*colHeight+b*plane:]
			dst := outputData[b*cOut*plane+c*plane:]
			copy(dst[:plane], src[:plane])
		}
	}
}

func im2colFloat64(colBuf, inputData []float64, n, c, h, w, kh, kw, hOut, wOut, stride, padding int) {
	colHeight := n * hOut * wOut
	col := 0

	for b := 0; b < n; b++ {
		for outH := 0; outH < hOut; outH++ {
			for outW := 0; outW < wOut; outW++ {
				hStart := outH*stride - padding
				wStart := outW*stride - padding

				row := 0
				for ch := 0; ch < c; ch++ {
					channel := inputData[(b*c+ch)*h*w:]
					for i := 0; i < kh; i++ {
						for j := 0; j < kw; j++ {
							y := hStart + i
							x := wStart + j
							if y >= 0 && y < h && x >= 0 && x < w {
								colBuf[row*colHeight+col] = channel[y*w+x]
							}
							row++
						}
					}
				}
				col++
			}
		}
	}
}
