// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autograd provides a reverse-mode automatic differentiation engine
// over small dense float32 matrices.
//
// # Overview
//
// Tensors live on a Graph. Operators (Add, Sub, Div, MatMul, Dot, LeakyReLU)
// evaluate eagerly and record their operands as edges. Backward walks the
// graph in reverse topological order, accumulates gradients into every
// operand, stabilizes each gradient buffer after every write, and then tears
// the graph down so unreferenced intermediates are freed immediately.
//
// # Basic Usage
//
//	import "github.com/born-ml/matgrad/autograd"
//
//	func main() {
//	    g := autograd.New(autograd.Config{})
//
//	    w, _ := g.LeafRows([][]float32{{1, 2}}, "w")
//	    x, _ := g.LeafRows([][]float32{{3}, {4}}, "x")
//	    defer w.Release()
//	    defer x.Release()
//
//	    y, _ := w.MatMul(x)
//	    _ = y.Backward(autograd.WithOnesSeed())
//	    y.Release()
//
//	    fmt.Println(w.Grads()) // [[0.6 0.8]], clipped to unit norm
//	}
//
// # Ownership
//
// Every Tensor is a counted handle. Operators return a handle the caller
// owns; Share takes another handle to the same node, Release gives one up.
// A node is freed the moment its last handle (external or edge) is released.
//
// # Gradient Stabilization
//
// The default Policy zeroes non-finite entries, clips buffers whose norm
// exceeds 1 and lifts buffers whose norm falls below 1e-3. Pass Passthrough
// in Config.Stabilizer to get raw gradients.
package autograd

import (
	"github.com/born-ml/matgrad/internal/alloc"
	"github.com/born-ml/matgrad/internal/autograd"
	"github.com/born-ml/matgrad/internal/clip"
)

// Graph owns the allocator and stabilizer shared by its nodes.
type Graph = autograd.Graph

// Config configures a Graph.
type Config = autograd.Config

// Tensor is a counted handle to a node.
type Tensor = autograd.Tensor

// NodeID identifies a node within its Graph.
type NodeID = autograd.NodeID

// Op tags how a node was produced.
type Op = autograd.Op

// Operation tags.
const (
	OpLeaf      = autograd.OpLeaf
	OpAdd       = autograd.OpAdd
	OpSub       = autograd.OpSub
	OpMatMul    = autograd.OpMatMul
	OpDot       = autograd.OpDot
	OpLeakyReLU = autograd.OpLeakyReLU
	OpDiv       = autograd.OpDiv
)

// DefaultLeakySlope is the default negative-side slope of LeakyReLU.
const DefaultLeakySlope = autograd.DefaultLeakySlope

// Errors returned by graph operations.
var (
	ErrShapeMismatch  = autograd.ErrShapeMismatch
	ErrBadShape       = autograd.ErrBadShape
	ErrReleased       = autograd.ErrReleased
	ErrForeignNode    = autograd.ErrForeignNode
	ErrNoGradientRule = autograd.ErrNoGradientRule
)

// New creates an empty Graph.
func New(config Config) *Graph {
	return autograd.New(config)
}

// Backward

// BackwardOption configures Tensor.Backward.
type BackwardOption = autograd.BackwardOption

// WithOnesSeed fills the root gradient with ones before propagation.
func WithOnesSeed() BackwardOption {
	return autograd.WithOnesSeed()
}

// WithSkipNonDifferentiable lets Backward pass through divide nodes, which
// absorb their gradient.
func WithSkipNonDifferentiable() BackwardOption {
	return autograd.WithSkipNonDifferentiable()
}

// ExecutionOrder returns node IDs in the order Backward runs their rules.
func ExecutionOrder(root Tensor) ([]NodeID, error) {
	return autograd.ExecutionOrder(root)
}

// Variables

// Variable pairs a trainable origin leaf with its current view.
type Variable = autograd.Variable

// NewVariable creates a Variable owning origin.
func NewVariable(name string, origin Tensor) *Variable {
	return autograd.NewVariable(name, origin)
}

// Stabilizers

// Stabilizer rescales a gradient buffer in place.
type Stabilizer = clip.Stabilizer

// Policy is the norm-band stabilizer.
type Policy = clip.Policy

// Passthrough leaves gradients untouched.
type Passthrough = clip.Passthrough

// DefaultPolicy returns the policy used when Config.Stabilizer is nil.
func DefaultPolicy() Policy {
	return clip.DefaultPolicy()
}

// Allocators

// Allocator supplies zeroed row-major buffers for node values and gradients.
type Allocator = alloc.Allocator

// Heap allocates from the Go heap.
type Heap = alloc.Heap

// Pool recycles buffers by size class.
type Pool = alloc.Pool

// PoolStats reports Pool usage.
type PoolStats = alloc.PoolStats

// Counting tracks outstanding buffers of an inner Allocator.
type Counting = alloc.Counting

// NewPool creates an empty Pool.
func NewPool() *Pool {
	return alloc.NewPool()
}

// NewCounting wraps inner; nil means Heap.
func NewCounting(inner Allocator) *Counting {
	return alloc.NewCounting(inner)
}
