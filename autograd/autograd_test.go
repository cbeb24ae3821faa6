// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autograd_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/matgrad/autograd"
)

func TestPublicAPI_QuickStart(t *testing.T) {
	counter := autograd.NewCounting(autograd.NewPool())
	g := autograd.New(autograd.Config{Allocator: counter})

	w, err := g.LeafRows([][]float32{{1, 2}}, "w")
	require.NoError(t, err)
	x, err := g.LeafRows([][]float32{{3}, {4}}, "x")
	require.NoError(t, err)

	y, err := w.MatMul(x)
	require.NoError(t, err)
	assert.Equal(t, float32(11), y.ValueAt(0, 0))
	assert.Equal(t, autograd.OpMatMul, y.Op())

	require.NoError(t, y.Backward(autograd.WithOnesSeed()))
	y.Release()

	// Raw gradient is xᵀ = [3 4]; the default policy clips it to unit norm.
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, w.GradData(), 1e-6)

	w.Release()
	x.Release()
	assert.Zero(t, g.Live())
	assert.Zero(t, counter.Live())
}

func TestPublicAPI_ErrorsAreShared(t *testing.T) {
	g := autograd.New(autograd.Config{Stabilizer: autograd.Passthrough{}})
	a, err := g.Zeros(2, 3, "a")
	require.NoError(t, err)
	defer a.Release()

	_, err = a.MatMul(a)
	assert.True(t, errors.Is(err, autograd.ErrShapeMismatch))

	assert.Equal(t, float64(1), autograd.DefaultPolicy().MaxNorm)
}
