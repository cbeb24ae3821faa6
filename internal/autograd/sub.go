package autograd

import "github.com/born-ml/matgrad/internal/clip"

// Sub returns t - other, elementwise. Shapes must match.
//
// Backward:
//
//	∂L/∂t     += ∂L/∂out
//	∂L/∂other -= ∂L/∂out
func (t Tensor) Sub(other Tensor) (Tensor, error) {
	a, b, err := binary(OpSub, t, other)
	if err != nil {
		return Tensor{}, err
	}
	if err := sameShape(OpSub, a, b); err != nil {
		return Tensor{}, err
	}

	out, n := result(a.rows, a.cols, OpSub, a.label+"-"+b.label, t, other)
	for i := range n.value {
		n.value[i] = a.value[i] - b.value[i]
	}
	return out, nil
}

func backwardSub(n *node, s clip.Stabilizer) {
	accumulate(n.left, n.grad, 1, s)
	accumulate(n.right, n.grad, -1, s)
}
