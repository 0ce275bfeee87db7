// Copyright 2026 SimCLR Model Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package models defines the convolutional network architecture and the
// shape arithmetic used to size it.
//
// The package is a model definition only: it composes layer primitives from
// internal/nn into blocks and a network, and computes the flattened feature
// count at the convolutional-to-dense transition. Training concerns
// (optimizer, loss, data loading, gradients, checkpoints) belong to the
// surrounding framework, which consumes the model through Forward and
// Parameters.
//
// Basic usage:
//
//	backend := cpu.New()
//	net, err := models.NewConvNet(tensor.Shape{1, 28, 28}, 10, 0.1, backend)
//	if err != nil {
//	    return err
//	}
//	net.Eval()
//	logits := net.Forward(batch) // [batch, 10]
package models
