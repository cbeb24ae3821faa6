package autograd

import "github.com/born-ml/matgrad/internal/clip"

// DefaultLeakySlope is the negative-side slope used when none is configured.
const DefaultLeakySlope float32 = 0.01

// LeakyReLU returns x where x > 0 and slope·x elsewhere. Zero takes the
// scaled branch in both directions.
//
// Backward:
//
//	∂L/∂x[i] += ∂L/∂y[i]          if x[i] > 0
//	∂L/∂x[i] += slope · ∂L/∂y[i]  otherwise
func (t Tensor) LeakyReLU(slope float32) (Tensor, error) {
	x, err := unary(OpLeakyReLU, t)
	if err != nil {
		return Tensor{}, err
	}

	out, n := result(x.rows, x.cols, OpLeakyReLU, x.label+"leakyrelu", t, Tensor{})
	n.slope = slope
	for i, v := range x.value {
		if v > 0 {
			n.value[i] = v
		} else {
			n.value[i] = slope * v
		}
	}
	return out, nil
}

func backwardLeakyReLU(n *node, s clip.Stabilizer) {
	x := n.left.Get()
	for i, v := range x.value {
		if v > 0 {
			x.grad[i] += n.grad[i]
		} else {
			x.grad[i] += n.slope * n.grad[i]
		}
	}
	s.Stabilize(x.grad)
}
