package autograd

import (
	"fmt"

	"github.com/born-ml/matgrad/internal/clip"
)

// MatMul returns the matrix product t·other: [m,k]·[k,n] → [m,n].
// Mismatched inner dimensions yield ErrShapeMismatch and create nothing.
//
// Backward:
//
//	∂L/∂A += ∂L/∂C · Bᵀ
//	∂L/∂B += Aᵀ · ∂L/∂C
func (t Tensor) MatMul(other Tensor) (Tensor, error) {
	a, b, err := binary(OpMatMul, t, other)
	if err != nil {
		return Tensor{}, err
	}
	if a.cols != b.rows {
		return Tensor{}, fmt.Errorf("%s %q[%d×%d] · %q[%d×%d]: %w",
			OpMatMul, a.label, a.rows, a.cols, b.label, b.rows, b.cols, ErrShapeMismatch)
	}

	m, k, p := a.rows, a.cols, b.cols
	out, n := result(m, p, OpMatMul, a.label+"*"+b.label, t, other)
	for i := 0; i < m; i++ {
		for j := 0; j < p; j++ {
			var sum float32
			for q := 0; q < k; q++ {
				sum += a.value[i*k+q] * b.value[q*p+j]
			}
			n.value[i*p+j] = sum
		}
	}
	return out, nil
}

func backwardMatMul(n *node, s clip.Stabilizer) {
	a, b := n.left.Get(), n.right.Get()
	m, k, p := a.rows, a.cols, b.cols

	// dA[i][j] += Σ_q dC[i][q] · B[j][q]
	for i := 0; i < m; i++ {
		for j := 0; j < k; j++ {
			for q := 0; q < p; q++ {
				a.grad[i*k+j] += n.grad[i*p+q] * b.value[j*p+q]
			}
		}
	}
	s.Stabilize(a.grad)

	// dB[i][j] += Σ_q dC[q][j] · A[q][i]
	for i := 0; i < k; i++ {
		for j := 0; j < p; j++ {
			for q := 0; q < m; q++ {
				b.grad[i*p+j] += n.grad[q*p+j] * a.value[q*k+i]
			}
		}
	}
	s.Stabilize(b.grad)
}
