// Copyright 2026 SimCLR Model Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models

import (
	"fmt"

	"github.com/sstilz/simclr/internal/nn"
	"github.com/sstilz/simclr/internal/tensor"
)

// Fixed architecture constants for ConvNet: two conv blocks with 5x5 kernels,
// each followed by 2x2 pooling inside the block, then a 128-unit dense block.
const (
	conv1OutChannels = 32
	conv2OutChannels = 64
	convNetKernel    = 5
	hiddenFeatures   = 128
)

// convNetReductions describes the spatial reductions the two conv blocks
// apply: (conv kernel=5, stride=1) then (pool kernel=2, stride=2), twice.
var (
	convNetKernelSizes = []int{convNetKernel, 2, convNetKernel, 2}
	convNetStrides     = []int{1, 2, 1, 2}
)

// ConvNet is a small convolutional classifier: two convolution blocks, one
// fully-connected block and a final linear projection to raw class scores.
//
// Architecture for input [1, 28, 28]:
//
//	Input:  [batch, 1, 28, 28]
//	Block1: Conv(1->32, k=5) + Dropout + MaxPool(2) + ReLU -> [batch, 32, 12, 12]
//	Block2: Conv(32->64, k=5) + Dropout + MaxPool(2) + ReLU -> [batch, 64, 4, 4]
//	Flatten -> [batch, 1024]
//	Block3: Linear(1024->128) + Dropout + ReLU
//	Head:   Linear(128->outputSize) -> logits
//
// The flattened size entering block3 is computed at construction time by the
// shape calculator; a configuration the conv stack cannot consume is rejected
// by NewConvNet rather than at the first forward pass.
type ConvNet[B tensor.Backend] struct {
	block1 *ConvBlock[B]
	block2 *ConvBlock[B]
	block3 *FullyConnectedBlock[B]
	fc     *nn.Linear[B]

	inputChannels int
	imageWidth    int
	outputSize    int
}

// NewConvNet constructs the network for the given input shape.
//
// inputShape has rank 2 ([H, W], implicit single grayscale channel) or rank 3
// ([channels, H, W]); the spatial input must be square. outputSize is the
// number of classes. dropoutRate in [0, 1) applies to every block's dropout
// layer; 0 disables dropout entirely.
//
// All configuration errors — bad rank, non-positive dimensions, a non-square
// input, or an input too small for the conv stack — are returned here, before
// any tensor exists.
func NewConvNet[B tensor.Backend](inputShape tensor.Shape, outputSize int, dropoutRate float64, backend B) (*ConvNet[B], error) {
	if err := inputShape.Validate(); err != nil {
		return nil, fmt.Errorf("convnet: invalid input shape %v: %w", inputShape, err)
	}

	var inputChannels, height, width int
	switch len(inputShape) {
	case 2:
		inputChannels = 1
		height, width = inputShape[0], inputShape[1]
	case 3:
		inputChannels = inputShape[0]
		height, width = inputShape[1], inputShape[2]
	default:
		return nil, fmt.Errorf("convnet: input shape must have rank 2 [H, W] or 3 [C, H, W], got rank %d", len(inputShape))
	}
	if height != width {
		return nil, fmt.Errorf("convnet: only square inputs are supported, got %dx%d", height, width)
	}
	if outputSize <= 0 {
		return nil, fmt.Errorf("convnet: output size must be positive, got %d", outputSize)
	}
	if dropoutRate < 0 || dropoutRate >= 1 {
		return nil, fmt.Errorf("convnet: dropout rate %v outside [0, 1)", dropoutRate)
	}

	fc1Size, err := ComputeConvOutputSize(width, convNetKernelSizes, convNetStrides, conv2OutChannels, 0, 1)
	if err != nil {
		return nil, fmt.Errorf("convnet: input shape %v: %w", inputShape, err)
	}

	return &ConvNet[B]{
		block1:        NewConvBlock[B](dropoutRate, inputChannels, conv1OutChannels, convNetKernel, backend),
		block2:        NewConvBlock[B](dropoutRate, conv1OutChannels, conv2OutChannels, convNetKernel, backend),
		block3:        NewFullyConnectedBlock[B](dropoutRate, fc1Size, hiddenFeatures, backend),
		fc:            nn.NewLinear(hiddenFeatures, outputSize, backend),
		inputChannels: inputChannels,
		imageWidth:    width,
		outputSize:    outputSize,
	}, nil
}

// Forward runs the network.
//
// Input: [batch, channels, H, W], or [batch, H, W] for single-channel
// networks (the channel dimension is inserted). Output: [batch, outputSize]
// raw scores; no softmax is applied.
//
// A tensor inconsistent with the declared input shape panics inside the
// mismatched layer, matching the layer primitives' convention for programmer
// errors on the forward path.
func (m *ConvNet[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) == 3 && m.inputChannels == 1 {
		x = x.Reshape(shape[0], 1, shape[1], shape[2])
	} else if len(shape) != 4 {
		panic(fmt.Sprintf("convnet: expected 4D input [N,C,H,W], got shape %v", shape))
	}

	x = m.block1.Forward(x)
	x = m.block2.Forward(x)
	x = x.Flatten()
	x = m.block3.Forward(x)
	x = m.fc.Forward(x)
	return x
}

// Train puts every dropout layer into training mode (random zeroing).
func (m *ConvNet[B]) Train() {
	m.setTraining(true)
}

// Eval puts every dropout layer into evaluation mode (identity). Two forward
// calls with identical input and weights are then deterministic.
func (m *ConvNet[B]) Eval() {
	m.setTraining(false)
}

func (m *ConvNet[B]) setTraining(training bool) {
	m.block1.SetTraining(training)
	m.block2.SetTraining(training)
	m.block3.SetTraining(training)
}

// Parameters returns all trainable parameters for an external optimizer.
func (m *ConvNet[B]) Parameters() []*nn.Parameter[B] {
	params := make([]*nn.Parameter[B], 0, 8)
	params = append(params, m.block1.Parameters()...)
	params = append(params, m.block2.Parameters()...)
	params = append(params, m.block3.Parameters()...)
	params = append(params, m.fc.Parameters()...)
	return params
}

// FlattenedConvFeatures returns the feature count entering the
// fully-connected stage, as computed by the shape calculator.
func (m *ConvNet[B]) FlattenedConvFeatures() int {
	return m.block3.InFeatures()
}

// OutputSize returns the number of classes.
func (m *ConvNet[B]) OutputSize() int {
	return m.outputSize
}

// String returns a string representation of the model architecture.
func (m *ConvNet[B]) String() string {
	return fmt.Sprintf(`ConvNet(
  ConvBlock(in=%d, out=%d, kernel=%d)
  ConvBlock(in=%d, out=%d, kernel=%d)
  FullyConnectedBlock(in=%d, out=%d)
  Linear(in=%d, out=%d)
)`,
		m.inputChannels, conv1OutChannels, convNetKernel,
		conv1OutChannels, conv2OutChannels, convNetKernel,
		m.FlattenedConvFeatures(), hiddenFeatures,
		hiddenFeatures, m.outputSize)
}
