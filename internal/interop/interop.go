// Package interop converts between autograd tensors and gonum matrices.
//
// Conversions always copy. The float32 ↔ float64 widening is exact in one
// direction and rounds to nearest in the other.
package interop

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/matgrad/internal/autograd"
)

// FromDense creates a leaf on g holding a float32 copy of m.
func FromDense(g *autograd.Graph, m mat.Matrix, label string) (autograd.Tensor, error) {
	rows, cols := m.Dims()
	data := make([]float32, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data = append(data, float32(m.At(i, j)))
		}
	}
	t, err := g.Leaf(rows, cols, data, label)
	if err != nil {
		return autograd.Tensor{}, fmt.Errorf("from dense %q: %w", label, err)
	}
	return t, nil
}

// ValueDense returns the value of t as a new dense matrix.
func ValueDense(t autograd.Tensor) (*mat.Dense, error) {
	if t.IsNil() {
		return nil, fmt.Errorf("value dense: %w", autograd.ErrReleased)
	}
	return dense(t.Rows(), t.Cols(), t.Data()), nil
}

// GradDense returns the gradient of t as a new dense matrix.
func GradDense(t autograd.Tensor) (*mat.Dense, error) {
	if t.IsNil() {
		return nil, fmt.Errorf("grad dense: %w", autograd.ErrReleased)
	}
	return dense(t.Rows(), t.Cols(), t.GradData()), nil
}

// GradNorm returns the Frobenius norm of t's gradient.
func GradNorm(t autograd.Tensor) (float64, error) {
	d, err := GradDense(t)
	if err != nil {
		return 0, err
	}
	return mat.Norm(d, 2), nil
}

func dense(rows, cols int, data []float32) *mat.Dense {
	wide := make([]float64, len(data))
	for i, v := range data {
		wide[i] = float64(v)
	}
	return mat.NewDense(rows, cols, wide)
}
