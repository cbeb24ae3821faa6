package autograd

import (
	"fmt"

	"github.com/born-ml/matgrad/internal/clip"
	"github.com/born-ml/matgrad/internal/rc"
)

// unary validates a single operand.
func unary(op Op, a Tensor) (*node, error) {
	if !a.ref.Alive() {
		return nil, fmt.Errorf("%s: %w", op, ErrReleased)
	}
	return a.ref.Get(), nil
}

// binary validates an operand pair. Both must be live and share a graph.
// Results only ever point at nodes that already exist, so a validated
// operand set cannot close a cycle.
func binary(op Op, a, b Tensor) (*node, *node, error) {
	if !a.ref.Alive() || !b.ref.Alive() {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrReleased)
	}
	na, nb := a.ref.Get(), b.ref.Get()
	if na.graph != nb.graph {
		return nil, nil, fmt.Errorf("%s %q, %q: %w", op, na.label, nb.label, ErrForeignNode)
	}
	return na, nb, nil
}

func sameShape(op Op, a, b *node) error {
	if a.rows != b.rows || a.cols != b.cols {
		return fmt.Errorf("%s %q[%d×%d], %q[%d×%d]: %w",
			op, a.label, a.rows, a.cols, b.label, b.rows, b.cols, ErrShapeMismatch)
	}
	return nil
}

// result builds the output node, acquiring the operand edges.
func result(rows, cols int, op Op, label string, a, b Tensor) (Tensor, *node) {
	g := a.ref.Get().graph
	out := g.newNode(rows, cols, op, label, a.ref.Acquire(), b.ref.Acquire())
	return out, out.ref.Get()
}

// accumulate adds k*src into dst's gradient and stabilizes the whole buffer.
// A null edge is skipped.
func accumulate(dst rc.Ref[node], src []float32, k float32, s clip.Stabilizer) {
	if dst.IsNil() {
		return
	}
	d := dst.Get()
	for i, g := range src {
		d.grad[i] += k * g
	}
	s.Stabilize(d.grad)
}
