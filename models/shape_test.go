// Copyright 2026 SimCLR Model Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	convNetKernels    = []int{5, 2, 5, 2}
	convNetTestStride = []int{1, 2, 1, 2}
)

func TestComputeConvOutputWidth_MNIST(t *testing.T) {
	// 28 -> 24 (conv k=5) -> 12 (pool) -> 8 (conv k=5) -> 4 (pool).
	width, err := ComputeConvOutputWidth(28, convNetKernels, convNetTestStride, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, width)
}

func TestComputeConvOutputWidth_SingleLayers(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		kernels []int
		strides []int
		want    int
	}{
		{"conv k5 s1", 28, []int{5}, []int{1}, 24},
		{"pool k2 s2", 24, []int{2}, []int{2}, 12},
		{"conv k3 s1", 8, []int{3}, []int{1}, 6},
		{"identity k1 s1", 7, []int{1}, []int{1}, 7},
		{"odd input pool", 5, []int{2}, []int{2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeConvOutputWidth(tt.input, tt.kernels, tt.strides, 0, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeConvOutputWidth_PaddingAndDilation(t *testing.T) {
	// Same-convolution: k=3, padding 1 preserves width.
	width, err := ComputeConvOutputWidth(28, []int{3}, []int{1}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 28, width)

	// Dilation 2 expands the 3-kernel to an effective 5.
	width, err = ComputeConvOutputWidth(28, []int{3}, []int{1}, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 24, width)
}

func TestComputeConvOutputWidth_Monotonic(t *testing.T) {
	prev := 0
	for input := 16; input <= 64; input++ {
		width, err := ComputeConvOutputWidth(input, convNetKernels, convNetTestStride, 0, 1)
		require.NoError(t, err, "input width %d", input)
		assert.GreaterOrEqual(t, width, prev, "output width must be non-decreasing in input width")
		prev = width
	}
}

func TestComputeConvOutputWidth_Deterministic(t *testing.T) {
	a, err := ComputeConvOutputWidth(28, convNetKernels, convNetTestStride, 0, 1)
	require.NoError(t, err)
	b, err := ComputeConvOutputWidth(28, convNetKernels, convNetTestStride, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeConvOutputWidth_Underflow(t *testing.T) {
	// 10 -> 6 -> 3 -> -1: the third layer exhausts the input.
	_, err := ComputeConvOutputWidth(10, convNetKernels, convNetTestStride, 0, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArchitecture)

	// 4 with a 5-kernel dies immediately.
	_, err = ComputeConvOutputWidth(4, []int{5}, []int{1}, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidArchitecture)
}

func TestComputeConvOutputWidth_ConfigErrors(t *testing.T) {
	_, err := ComputeConvOutputWidth(28, []int{5, 2}, []int{1}, 0, 1)
	assert.Error(t, err, "mismatched sequence lengths must fail")

	_, err = ComputeConvOutputWidth(0, []int{5}, []int{1}, 0, 1)
	assert.Error(t, err, "non-positive input width must fail")

	_, err = ComputeConvOutputWidth(28, []int{0}, []int{1}, 0, 1)
	assert.Error(t, err, "non-positive kernel must fail")

	_, err = ComputeConvOutputWidth(28, []int{5}, []int{0}, 0, 1)
	assert.Error(t, err, "non-positive stride must fail")

	_, err = ComputeConvOutputWidth(28, []int{5}, []int{1}, -1, 1)
	assert.Error(t, err, "negative padding must fail")

	_, err = ComputeConvOutputWidth(28, []int{5}, []int{1}, 0, 0)
	assert.Error(t, err, "dilation below 1 must fail")
}

func TestComputeConvOutputSize_MNIST(t *testing.T) {
	// 64 channels * 4 * 4 = 1024.
	size, err := ComputeConvOutputSize(28, convNetKernels, convNetTestStride, 64, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1024, size)
}

func TestComputeConvOutputSize_Errors(t *testing.T) {
	_, err := ComputeConvOutputSize(28, convNetKernels, convNetTestStride, 0, 0, 1)
	assert.Error(t, err, "non-positive channel count must fail")

	_, err = ComputeConvOutputSize(10, convNetKernels, convNetTestStride, 64, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidArchitecture, "width underflow propagates")
}
