// Package nn implements small neural network modules on top of the autograd
// engine.
//
// This package provides building blocks for constructing networks:
//   - Module interface: Base interface for all NN components
//   - Linear: Fully connected layer without bias
//   - LeakyReLU: Activation module
//   - Sequential: Container for stacking layers
//   - MSE: Mean squared error that seeds the output gradient
//
// Trainable weights are autograd.Variable values. Modules never hold
// intermediate tensors: every Forward call builds fresh graph nodes that the
// caller owns.
package nn

import (
	"github.com/born-ml/matgrad/internal/autograd"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential(
//	    hidden,
//	    nn.NewLeakyReLU(autograd.DefaultLeakySlope),
//	    out,
//	)
type Module interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input is borrowed. The caller owns the returned tensor and must
	// release it.
	Forward(input autograd.Tensor) (autograd.Tensor, error)

	// Parameters returns all trainable parameters of this module.
	//
	// Returns an empty slice for modules without trainable parameters.
	Parameters() []*autograd.Variable
}

// Release drops the handles held by every parameter of m.
func Release(m Module) {
	for _, p := range m.Parameters() {
		p.Release()
	}
}

// CountParameters returns the number of trainable scalars in m.
func CountParameters(m Module) int {
	total := 0
	for _, p := range m.Parameters() {
		rows, cols := p.Origin().Shape()
		total += rows * cols
	}
	return total
}
