// Package autograd implements reverse-mode automatic differentiation over
// small dense 2-D float32 matrices.
//
// Architecture:
//   - Graph: owns the allocator and stabilizer, issues node IDs, counts live nodes
//   - Tensor: reference-counted handle to a node (value + gradient + operand edges)
//   - Operators (Add, Sub, Div, MatMul, Dot, LeakyReLU): evaluate eagerly and
//     record operand edges plus an Op tag
//   - Backward: topological sort from the root, rules run root first, then
//     every visited node's edges are cut so the intermediate graph is freed
//
// Every gradient write is followed by the graph's stabilizer (clip.Policy by
// default) on the whole operand buffer.
//
// Usage:
//
//	g := autograd.New(autograd.Config{})
//	w, _ := g.Leaf(2, 1, []float32{0.5, -0.25}, "w")
//	x, _ := g.Leaf(1, 2, []float32{1, 2}, "x")
//	y, _ := x.MatMul(w)
//	_ = y.Backward(autograd.WithOnesSeed())
//	y.Release()
//	fmt.Println(w.Grads()) // xᵗ = [[1] [2]] clipped to norm 1: [[0.447] [0.894]]
//
// Handles are not safe for concurrent use.
package autograd

import (
	"fmt"

	"github.com/born-ml/matgrad/internal/alloc"
	"github.com/born-ml/matgrad/internal/clip"
	"github.com/born-ml/matgrad/internal/rc"
)

// NodeID identifies a node within its Graph.
type NodeID uint64

// Config configures a Graph.
type Config struct {
	Allocator  alloc.Allocator // Buffer source (default: alloc.Heap)
	Stabilizer clip.Stabilizer // Applied after every gradient write (default: clip.DefaultPolicy())
}

// Graph is the arena every node of one computation belongs to.
type Graph struct {
	alloc  alloc.Allocator
	stab   clip.Stabilizer
	nextID NodeID
	live   int
}

// New creates a Graph.
func New(config Config) *Graph {
	if config.Allocator == nil {
		config.Allocator = alloc.Heap{}
	}
	if config.Stabilizer == nil {
		config.Stabilizer = clip.DefaultPolicy()
	}
	return &Graph{
		alloc: config.Allocator,
		stab:  config.Stabilizer,
	}
}

// Live returns the number of nodes not yet deallocated.
func (g *Graph) Live() int {
	return g.live
}

// Stabilizer returns the gradient stabilizer in use.
func (g *Graph) Stabilizer() clip.Stabilizer {
	return g.stab
}

// Leaf creates a leaf from row-major data. A nil data slice yields zeros.
// The data is copied; the gradient starts at zero.
func (g *Graph) Leaf(rows, cols int, data []float32, label string) (Tensor, error) {
	if rows <= 0 || cols <= 0 {
		return Tensor{}, fmt.Errorf("leaf %q: %d×%d: %w", label, rows, cols, ErrBadShape)
	}
	if data != nil && len(data) != rows*cols {
		return Tensor{}, fmt.Errorf("leaf %q: %d values for %d×%d: %w", label, len(data), rows, cols, ErrBadShape)
	}
	t := g.newNode(rows, cols, OpLeaf, label, rc.Ref[node]{}, rc.Ref[node]{})
	if data != nil {
		copy(t.ref.Get().value, data)
	}
	return t, nil
}

// LeafRows creates a leaf from a slice of equal-length rows.
func (g *Graph) LeafRows(data [][]float32, label string) (Tensor, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return Tensor{}, fmt.Errorf("leaf %q: empty data: %w", label, ErrBadShape)
	}
	rows, cols := len(data), len(data[0])
	for i, row := range data {
		if len(row) != cols {
			return Tensor{}, fmt.Errorf("leaf %q: row %d has %d columns, want %d: %w", label, i, len(row), cols, ErrBadShape)
		}
	}
	t := g.newNode(rows, cols, OpLeaf, label, rc.Ref[node]{}, rc.Ref[node]{})
	n := t.ref.Get()
	for i, row := range data {
		copy(alloc.Row(n.value, cols, i), row)
	}
	return t, nil
}

// Zeros creates a zero-filled leaf.
func (g *Graph) Zeros(rows, cols int, label string) (Tensor, error) {
	return g.Leaf(rows, cols, nil, label)
}

// newNode allocates a node that owns left and right (already acquired by the
// caller, or null).
func (g *Graph) newNode(rows, cols int, op Op, label string, left, right rc.Ref[node]) Tensor {
	g.nextID++
	g.live++
	n := &node{
		id:    g.nextID,
		graph: g,
		rows:  rows,
		cols:  cols,
		value: g.alloc.Alloc(rows, cols),
		grad:  g.alloc.Alloc(rows, cols),
		left:  left,
		right: right,
		op:    op,
		label: label,
	}
	return Tensor{ref: rc.New(n, g.drop)}
}

// drop runs when the last handle to n goes away.
func (g *Graph) drop(n *node) {
	n.left.Release()
	n.right.Release()
	g.alloc.Free(n.value)
	g.alloc.Free(n.grad)
	n.value, n.grad = nil, nil
	n.op = OpLeaf
	g.live--
}
