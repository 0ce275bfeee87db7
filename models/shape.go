// Copyright 2026 SimCLR Model Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models

import (
	"errors"
	"fmt"
)

// ErrInvalidArchitecture reports a layer configuration that drives the
// spatial width to zero or below, i.e. a kernel/stride sequence too
// aggressive for the input size.
var ErrInvalidArchitecture = errors.New("invalid architecture")

// ComputeConvOutputWidth computes the spatial width remaining after applying
// a sequence of convolution or pooling reductions to an input of the given
// width. Each (kernel, stride) pair is applied in order using the standard
// valid-convolution formula:
//
//	width = floor((width + 2*padding - dilation*(kernel-1) - 1) / stride) + 1
//
// kernelSizes and strides must have the same length. Pass padding 0 and
// dilation 1 for the plain no-padding case. An intermediate width of zero or
// below means the architecture cannot consume the input and yields
// ErrInvalidArchitecture.
func ComputeConvOutputWidth(inputWidth int, kernelSizes, strides []int, padding, dilation int) (int, error) {
	if len(kernelSizes) != len(strides) {
		return 0, fmt.Errorf("kernel sizes and strides must have equal length: %d vs %d",
			len(kernelSizes), len(strides))
	}
	if inputWidth <= 0 {
		return 0, fmt.Errorf("input width must be positive, got %d", inputWidth)
	}
	if padding < 0 {
		return 0, fmt.Errorf("padding must be non-negative, got %d", padding)
	}
	if dilation < 1 {
		return 0, fmt.Errorf("dilation must be at least 1, got %d", dilation)
	}

	width := inputWidth
	for i, kernel := range kernelSizes {
		stride := strides[i]
		if kernel <= 0 || stride <= 0 {
			return 0, fmt.Errorf("kernel size and stride must be positive at index %d: kernel=%d, stride=%d",
				i, kernel, stride)
		}

		width = width + 2*padding - dilation*(kernel-1) - 1
		width = floorDiv(width, stride) + 1

		if width <= 0 {
			return 0, fmt.Errorf("%w: width %d after layer %d (kernel=%d, stride=%d, input width %d)",
				ErrInvalidArchitecture, width, i, kernel, stride, inputWidth)
		}
	}

	return width, nil
}

// ComputeConvOutputSize computes the total flattened feature count produced
// by a convolutional stack: nOutputChannels times the squared output width.
// The input is assumed square (height == width); non-square inputs are out of
// scope for this calculator.
func ComputeConvOutputSize(inputWidth int, kernelSizes, strides []int, nOutputChannels, padding, dilation int) (int, error) {
	if nOutputChannels <= 0 {
		return 0, fmt.Errorf("output channels must be positive, got %d", nOutputChannels)
	}

	width, err := ComputeConvOutputWidth(inputWidth, kernelSizes, strides, padding, dilation)
	if err != nil {
		return 0, err
	}

	return nOutputChannels * width * width, nil
}

// floorDiv divides rounding toward negative infinity. Go's integer division
// truncates toward zero, which disagrees with the floor in the width formula
// once an intermediate width goes negative.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
