package autograd

import "github.com/born-ml/matgrad/internal/clip"

// Add returns t + other, elementwise. Shapes must match.
//
// Backward:
//
//	∂L/∂t     += ∂L/∂out
//	∂L/∂other += ∂L/∂out
func (t Tensor) Add(other Tensor) (Tensor, error) {
	a, b, err := binary(OpAdd, t, other)
	if err != nil {
		return Tensor{}, err
	}
	if err := sameShape(OpAdd, a, b); err != nil {
		return Tensor{}, err
	}

	out, n := result(a.rows, a.cols, OpAdd, a.label+"+"+b.label, t, other)
	for i := range n.value {
		n.value[i] = a.value[i] + b.value[i]
	}
	return out, nil
}

func backwardAdd(n *node, s clip.Stabilizer) {
	accumulate(n.left, n.grad, 1, s)
	accumulate(n.right, n.grad, 1, s)
}
