package autograd

import (
	"fmt"

	"github.com/born-ml/matgrad/internal/alloc"
	"github.com/born-ml/matgrad/internal/rc"
)

// node is one vertex of the computation graph. Edges point from a result to
// its operands only; they are fixed at construction and only ever cleared.
type node struct {
	id    NodeID
	graph *Graph

	rows, cols int
	value      []float32 // row-major, rows*cols
	grad       []float32 // same shape as value

	left, right rc.Ref[node]
	op          Op
	slope       float32 // OpLeakyReLU only
	label       string
}

// Tensor is a counted handle to a graph node.
//
// Operators and leaf constructors return a handle owned by the caller, who
// must Release it when done. Assigning a Tensor copies the handle without
// adding an owner; use Share for a second owner.
type Tensor struct {
	ref rc.Ref[node]
}

// Share returns a new owning handle to the same node.
func (t Tensor) Share() Tensor {
	return Tensor{ref: t.ref.Acquire()}
}

// Release drops this handle. The node is deallocated when no handle or
// parent edge references it. Releasing a null handle is a no-op.
func (t *Tensor) Release() {
	t.ref.Release()
}

// IsNil reports whether the handle is null or already released.
func (t Tensor) IsNil() bool {
	return !t.ref.Alive()
}

// Same reports whether both handles refer to the same node.
func (t Tensor) Same(other Tensor) bool {
	return t.ref.Same(other.ref)
}

// RefCount returns the number of owners of the node (handles plus parent edges).
func (t Tensor) RefCount() int {
	if !t.ref.Alive() {
		return 0
	}
	return t.ref.UseCount()
}

// Clone returns a new leaf holding copies of t's value and gradient. The
// clone has no operand edges and no backward rule.
func (t Tensor) Clone(label string) Tensor {
	n := t.ref.Get()
	c := n.graph.newNode(n.rows, n.cols, OpLeaf, label, rc.Ref[node]{}, rc.Ref[node]{})
	cn := c.ref.Get()
	copy(cn.value, n.value)
	copy(cn.grad, n.grad)
	return c
}

// ID returns the node identity.
func (t Tensor) ID() NodeID { return t.ref.Get().id }

// Rows returns the number of rows.
func (t Tensor) Rows() int { return t.ref.Get().rows }

// Cols returns the number of columns.
func (t Tensor) Cols() int { return t.ref.Get().cols }

// Shape returns rows and columns.
func (t Tensor) Shape() (rows, cols int) {
	n := t.ref.Get()
	return n.rows, n.cols
}

// Label returns the debug label.
func (t Tensor) Label() string { return t.ref.Get().label }

// Op returns the operation tag. Torn-down nodes report OpLeaf.
func (t Tensor) Op() Op { return t.ref.Get().op }

// Graph returns the graph the node belongs to.
func (t Tensor) Graph() *Graph { return t.ref.Get().graph }

// HasChildren reports whether the node still holds operand edges.
func (t Tensor) HasChildren() bool {
	n := t.ref.Get()
	return !n.left.IsNil() || !n.right.IsNil()
}

// ValueAt returns value[i][j].
func (t Tensor) ValueAt(i, j int) float32 {
	n := t.ref.Get()
	return n.value[n.index(i, j)]
}

// GradAt returns grad[i][j].
func (t Tensor) GradAt(i, j int) float32 {
	n := t.ref.Get()
	return n.grad[n.index(i, j)]
}

// Values returns a copy of the value buffer as rows.
func (t Tensor) Values() [][]float32 {
	n := t.ref.Get()
	return n.copyRows(n.value)
}

// Grads returns a copy of the gradient buffer as rows.
func (t Tensor) Grads() [][]float32 {
	n := t.ref.Get()
	return n.copyRows(n.grad)
}

// Data returns a row-major copy of the value buffer.
func (t Tensor) Data() []float32 {
	return append([]float32(nil), t.ref.Get().value...)
}

// GradData returns a row-major copy of the gradient buffer.
func (t Tensor) GradData() []float32 {
	return append([]float32(nil), t.ref.Get().grad...)
}

// SetGrad overwrites the gradient with row-major data, typically to seed the
// root before Backward.
func (t Tensor) SetGrad(data []float32) error {
	n := t.ref.Get()
	if len(data) != len(n.grad) {
		return fmt.Errorf("set grad on %q: %d values for %d×%d: %w", n.label, len(data), n.rows, n.cols, ErrShapeMismatch)
	}
	copy(n.grad, data)
	return nil
}

// FillGrad sets every gradient entry to v.
func (t Tensor) FillGrad(v float32) {
	n := t.ref.Get()
	for i := range n.grad {
		n.grad[i] = v
	}
}

// ZeroGrad clears the gradient.
func (t Tensor) ZeroGrad() {
	clear(t.ref.Get().grad)
}

// Update applies value -= rate * grad in place. It does not touch the graph.
func (t Tensor) Update(rate float32) {
	n := t.ref.Get()
	for i, g := range n.grad {
		n.value[i] -= rate * g
	}
}

// Apply hands the node's value and gradient buffers to fn for an in-place
// update. Optimizers use it; the slices must not be retained.
func (t Tensor) Apply(fn func(value, grad []float32)) {
	n := t.ref.Get()
	fn(n.value, n.grad)
}

// String implements fmt.Stringer.
func (t Tensor) String() string {
	if !t.ref.Alive() {
		return "Tensor(<released>)"
	}
	n := t.ref.Get()
	return fmt.Sprintf("Tensor(%s, %d×%d, %s)", n.label, n.rows, n.cols, n.op)
}

func (n *node) index(i, j int) int {
	if i < 0 || i >= n.rows || j < 0 || j >= n.cols {
		panic(fmt.Sprintf("autograd: index (%d, %d) out of range for %d×%d", i, j, n.rows, n.cols))
	}
	return i*n.cols + j
}

func (n *node) copyRows(buf []float32) [][]float32 {
	out := make([][]float32, n.rows)
	for i := range out {
		out[i] = append([]float32(nil), alloc.Row(buf, n.cols, i)...)
	}
	return out
}
