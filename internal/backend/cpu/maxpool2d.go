package cpu

import (
	"fmt"
	"math"

	"github.com/sstilz/simclr/internal/tensor"
)

// MaxPool2D performs 2D max pooling over non-overlapping or strided windows.
//
// Input shape:  [N, C, H, W]
// Output shape: [N, C, H_out, W_out]
//
// where H_out = (H - kernelSize)/stride + 1 and likewise for W_out.
func (cpu *CPUBackend) MaxPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("maxpool2d: expected 4D input [N,C,H,W], got %dD", len(inputShape)))
	}
	if kernelSize <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid stride %d", stride))
	}

	n, c, h, w := inputShape[0], inputShape[1], inputShape[2], inputShape[3]
	if kernelSize > h || kernelSize > w {
		panic(fmt.Sprintf("maxpool2d: kernel size %d too large for input %dx%d", kernelSize, h, w))
	}

	hOut := (h-kernelSize)/stride + 1
	wOut := (w-kernelSize)/stride + 1

	output, err := tensor.NewRaw(tensor.Shape{n, c, hOut, wOut}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("maxpool2d: %v", err))
	}

	switch input.DType() {
	case tensor.Float32:
		maxpool2dFloat32(output, input, n, c, h, w, hOut, wOut, kernelSize, stride)
	case tensor.Float64:
		maxpool2dFloat64(output, input, n, c, h, w, hOut, wOut, kernelSize, stride)
	default:
		panic(fmt.Sprintf("maxpool2d: unsupported dtype %s", input.DType()))
	}

	return output
}

func maxpool2dFloat32(output, input *tensor.RawTensor, n, c, h, w, hOut, wOut, kernelSize, stride int) {
	src := input.AsFloat32()
	dst := output.AsFloat32()
	negInf := float32(math.Inf(-1))

	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			channel := src[(b*c+ch)*h*w:]
			out := dst[(b*c+ch)*hOut*wOut:]

			for outH := 0; outH < hOut; outH++ {
				hStart := outH * stride
				for outW := 0; outW < wOut; outW++ {
					wStart := outW * stride

					maxVal := negInf
					for i := 0; i < kernelSize; i++ {
						row := channel[(hStart+i)*w:]
						for j := 0; j < kernelSize; j++ {
							if v := row[wStart+j]; v > maxVal {
								maxVal = v
							}
						}
					}
					out[outH*wOut+outW] = maxVal
				}
			}
		}
	}
}

func maxpool2dFloat64(output, input *tensor.RawTensor, n, c, h, w, hOut, wOut, kernelSize, stride int) {
	src := input.AsFloat64()
	dst := output.AsFloat64()
	negInf := math.Inf(-1)

	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			channel := src[(b*c+ch)*h*w:]
			out := dst[(b*c+ch)*hOut*wOut:]

			for outH := 0; outH < hOut; outH++ {
				hStart := outH * stride
				for outW := 0; outW < wOut; outW++ {
					wStart := outW * stride

					maxVal := negInf
					for i := 0; i < kernelSize; i++ {
						row := channel[(hStart+i)*w:]
						for j := 0; j < kernelSize; j++ {
							if v := row[wStart+j]; v > maxVal {
								maxVal = v
							}
						}
					}
					out[outH*wOut+outW] = maxVal
				}
			}
		}
	}
}
