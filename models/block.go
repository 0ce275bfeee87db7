// Copyright 2026 SimCLR Model Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models

import (
	"github.com/sstilz/simclr/internal/nn"
	"github.com/sstilz/simclr/internal/tensor"
)

// defaultConvKernelSize is used by NewConvBlock when the caller passes 0.
const defaultConvKernelSize = 3

// ConvBlock is the convolutional composite unit: a learnable convolution
// followed by dropout, 2x2 max pooling and ReLU, applied in that fixed order.
// The sub-layers are explicit fields; there is exactly one forward behavior.
type ConvBlock[B tensor.Backend] struct {
	conv    *nn.Conv2D[B]
	dropout *nn.Dropout[B]
	maxpool *nn.MaxPool2D[B]
	relu    *nn.ReLU[B]
}

// NewConvBlock creates a convolution block: nIn -> nOut channels with a
// square kernel (stride 1, no padding, consistent with the no-padding default
// of the shape calculator). A kernelSize of 0 selects the default of 3.
func NewConvBlock[B tensor.Backend](dropoutRate float64, nIn, nOut, kernelSize int, backend B) *ConvBlock[B] {
	if kernelSize == 0 {
		kernelSize = defaultConvKernelSize
	}
	return &ConvBlock[B]{
		conv:    nn.NewConv2D(nIn, nOut, kernelSize, 1, 0, backend),
		dropout: nn.NewDropout[B](dropoutRate, backend),
		maxpool: nn.NewMaxPool2D(2, 2, backend),
		relu:    nn.NewReLU[B](),
	}
}

// Forward applies conv, dropout, pooling and activation in order.
//
// Input: [batch, nIn, H, W]
// Output: [batch, nOut, H', W'] with H', W' following the conv-then-pool
// width formula.
func (b *ConvBlock[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x = b.conv.Forward(x)
	x = b.dropout.Forward(x)
	x = b.maxpool.Forward(x)
	x = b.relu.Forward(x)
	return x
}

// Parameters returns the convolution's trainable parameters; dropout,
// pooling and activation are stateless.
func (b *ConvBlock[B]) Parameters() []*nn.Parameter[B] {
	return b.conv.Parameters()
}

// SetTraining toggles the dropout layer between training and evaluation.
func (b *ConvBlock[B]) SetTraining(training bool) {
	b.dropout.SetTraining(training)
}

// FullyConnectedBlock is the dense composite unit: a learnable affine
// projection followed by dropout and ReLU, in that fixed order.
type FullyConnectedBlock[B tensor.Backend] struct {
	fc      *nn.Linear[B]
	dropout *nn.Dropout[B]
	relu    *nn.ReLU[B]
}

// NewFullyConnectedBlock creates a dense block: nIn -> nOut features.
func NewFullyConnectedBlock[B tensor.Backend](dropoutRate float64, nIn, nOut int, backend B) *FullyConnectedBlock[B] {
	return &FullyConnectedBlock[B]{
		fc:      nn.NewLinear(nIn, nOut, backend),
		dropout: nn.NewDropout[B](dropoutRate, backend),
		relu:    nn.NewReLU[B](),
	}
}

// Forward applies the projection, dropout and activation in order.
//
// Input: [batch, nIn]
// Output: [batch, nOut]
func (b *FullyConnectedBlock[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x = b.fc.Forward(x)
	x = b.dropout.Forward(x)
	x = b.relu.Forward(x)
	return x
}

// Parameters returns the projection's trainable parameters.
func (b *FullyConnectedBlock[B]) Parameters() []*nn.Parameter[B] {
	return b.fc.Parameters()
}

// SetTraining toggles the dropout layer between training and evaluation.
func (b *FullyConnectedBlock[B]) SetTraining(training bool) {
	b.dropout.SetTraining(training)
}

// InFeatures returns the dense projection's input feature count.
func (b *FullyConnectedBlock[B]) InFeatures() int {
	return b.fc.InFeatures()
}
