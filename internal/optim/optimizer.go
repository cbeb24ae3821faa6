// Package optim implements optimization algorithms over autograd variables.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers read the gradient left on each variable's origin by
// Tensor.Backward and update the origin's value in place. They never touch
// the graph.
//
// Example usage:
//
//	w := autograd.NewVariable("w", leaf)
//	optimizer := optim.NewAdam([]*autograd.Variable{w}, optim.AdamConfig{
//	    LR: 0.001,
//	})
//
//	for epoch := range epochs {
//	    pred, _ := x.MatMul(w.Current())
//	    _, _ = nn.MSE(pred, target)
//	    _ = pred.Backward()
//	    pred.Release()
//
//	    optimizer.Step()
//	    optimizer.ZeroGrad()
//	}
package optim

import (
	"github.com/born-ml/matgrad/internal/autograd"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - ZeroGrad: Clear gradients before next iteration
//   - GetLR: Get current learning rate (for monitoring/scheduling)
type Optimizer interface {
	// Step applies gradient updates to the origin of every parameter.
	Step()

	// ZeroGrad clears all parameter gradients.
	//
	// Backward accumulates, so this should be called between steps.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float32 // Learning rate
}

// zeroGrad clears the gradients of params.
func zeroGrad(params []*autograd.Variable) {
	for _, p := range params {
		p.ZeroGrad()
	}
}

// size returns the element count of a parameter's origin.
func size(p *autograd.Variable) int {
	rows, cols := p.Origin().Shape()
	return rows * cols
}
