package autograd

import (
	"fmt"

	"github.com/born-ml/matgrad/internal/clip"
)

// Dot returns the inner product of two column vectors as a 1×1 tensor.
// Both operands must be single-column with equal row counts, otherwise
// ErrShapeMismatch is returned and nothing is created.
//
// Backward:
//
//	∂L/∂u[i] += ∂L/∂s · v[i]
//	∂L/∂v[i] += ∂L/∂s · u[i]
func (t Tensor) Dot(other Tensor) (Tensor, error) {
	u, v, err := binary(OpDot, t, other)
	if err != nil {
		return Tensor{}, err
	}
	if u.cols != 1 || v.cols != 1 || u.rows != v.rows {
		return Tensor{}, fmt.Errorf("%s %q[%d×%d], %q[%d×%d]: want equal-length columns: %w",
			OpDot, u.label, u.rows, u.cols, v.label, v.rows, v.cols, ErrShapeMismatch)
	}

	out, n := result(1, 1, OpDot, u.label+"^"+v.label, t, other)
	var sum float32
	for i := range u.value {
		sum += u.value[i] * v.value[i]
	}
	n.value[0] = sum
	return out, nil
}

func backwardDot(n *node, s clip.Stabilizer) {
	u, v := n.left.Get(), n.right.Get()
	ds := n.grad[0]

	for i := range u.grad {
		u.grad[i] += ds * v.value[i]
	}
	s.Stabilize(u.grad)

	for i := range v.grad {
		v.grad[i] += ds * u.value[i]
	}
	s.Stabilize(v.grad)
}
