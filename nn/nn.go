// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks over autograd tensors.
//
// # Overview
//
//   - Module: Forward plus Parameters
//   - Linear: y = x · W (append a ones column to x for a bias)
//   - LeakyReLU: activation module
//   - Sequential: chains modules, releasing intermediates as it goes
//   - MSE: loss that also seeds the prediction gradient
//
// # Basic Usage
//
//	g := autograd.New(autograd.Config{})
//	rng := rand.New(rand.NewPCG(1, 2))
//	hidden, _ := nn.NewLinear(g, "W1", 2, 16, rng)
//	out, _ := nn.NewLinear(g, "W2", 16, 1, rng)
//	model := nn.NewSequential(hidden, nn.NewLeakyReLU(autograd.DefaultLeakySlope), out)
//	defer nn.Release(model)
//
//	pred, _ := model.Forward(x)
//	loss, _ := nn.MSE(pred, y)
//	_ = pred.Backward()
//	pred.Release()
package nn

import (
	"math/rand/v2"

	"github.com/born-ml/matgrad/internal/autograd"
	"github.com/born-ml/matgrad/internal/nn"
)

// Module interface defines the common interface for all neural network modules.
type Module = nn.Module

// Layers

// Linear represents a fully connected layer without bias.
type Linear = nn.Linear

// NewLinear creates a new linear layer with Xavier initialization.
func NewLinear(g *autograd.Graph, name string, inFeatures, outFeatures int, rng *rand.Rand) (*Linear, error) {
	return nn.NewLinear(g, name, inFeatures, outFeatures, rng)
}

// NewLinearFrom creates a new linear layer with the given row-major weights.
func NewLinearFrom(g *autograd.Graph, name string, inFeatures, outFeatures int, weights []float32) (*Linear, error) {
	return nn.NewLinearFrom(g, name, inFeatures, outFeatures, weights)
}

// LeakyReLU represents a leaky rectified linear activation.
type LeakyReLU = nn.LeakyReLU

// NewLeakyReLU creates a new LeakyReLU activation.
func NewLeakyReLU(slope float32) *LeakyReLU {
	return nn.NewLeakyReLU(slope)
}

// Sequential chains modules.
type Sequential = nn.Sequential

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// Loss

// MSE returns mean((predictions - targets)²) and seeds the gradient of
// predictions with 2/n·(predictions - targets).
func MSE(predictions, targets autograd.Tensor) (float32, error) {
	return nn.MSE(predictions, targets)
}

// Utilities

// Release drops the handles held by every parameter of m.
func Release(m Module) {
	nn.Release(m)
}

// CountParameters returns the number of trainable scalars in m.
func CountParameters(m Module) int {
	return nn.CountParameters(m)
}

// Xavier returns Glorot-uniform weights for a fanIn×fanOut matrix.
func Xavier(rng *rand.Rand, fanIn, fanOut int) []float32 {
	return nn.Xavier(rng, fanIn, fanOut)
}
