// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for autograd variables.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// Optimizers read the gradient Backward left on each variable's origin and
// update the origin in place.
//
// # Basic Usage
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{
//	    LR: 0.001,
//	})
//
//	for epoch := range epochs {
//	    pred, _ := model.Forward(x)
//	    _, _ = nn.MSE(pred, y)
//	    _ = pred.Backward()
//	    pred.Release()
//
//	    optimizer.Step()
//	    optimizer.ZeroGrad()
//	}
package optim
