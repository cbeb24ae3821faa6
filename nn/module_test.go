// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/matgrad/autograd"
	"github.com/born-ml/matgrad/nn"
)

// TestModuleInterface verifies that concrete types implement Module interface.
func TestModuleInterface(t *testing.T) {
	g := autograd.New(autograd.Config{})
	rng := rand.New(rand.NewPCG(5, 6))

	linear, err := nn.NewLinear(g, "w", 3, 2, rng)
	require.NoError(t, err)
	inner, err := nn.NewLinear(g, "v", 3, 2, rng)
	require.NoError(t, err)

	tests := []struct {
		name   string
		module nn.Module
		params int
	}{
		{name: "Linear", module: linear, params: 1},
		{name: "LeakyReLU", module: nn.NewLeakyReLU(0.1), params: 0},
		{name: "Sequential", module: nn.NewSequential(inner, nn.NewLeakyReLU(0.1)), params: 1},
	}

	x, err := g.Zeros(4, 3, "x")
	require.NoError(t, err)
	defer x.Release()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.module.Forward(x)
			require.NoError(t, err)
			out.Release()

			assert.Len(t, tt.module.Parameters(), tt.params)
			nn.Release(tt.module)
		})
	}
	assert.Equal(t, 1, g.Live())
}
