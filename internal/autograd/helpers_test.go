package autograd_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/matgrad/internal/autograd"
	"github.com/born-ml/matgrad/internal/clip"
)

// newExactGraph returns a graph whose stabilizer leaves gradients alone, so
// analytic gradients can be compared against finite differences.
func newExactGraph() *autograd.Graph {
	return autograd.New(autograd.Config{Stabilizer: clip.Passthrough{}})
}

func leaf(t *testing.T, g *autograd.Graph, rows, cols int, data []float32, label string) autograd.Tensor {
	t.Helper()
	x, err := g.Leaf(rows, cols, data, label)
	require.NoError(t, err)
	return x
}

func randomData(rng *rand.Rand, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = rng.Float32()*2 - 1
	}
	return out
}

// numericalGradient estimates ∂f/∂x[i] by central differences.
func numericalGradient(f func([]float32) float64, x []float32, eps float32) []float64 {
	grad := make([]float64, len(x))
	for i := range x {
		orig := x[i]
		x[i] = orig + eps
		fp := f(x)
		x[i] = orig - eps
		fm := f(x)
		x[i] = orig
		grad[i] = (fp - fm) / float64(2*eps)
	}
	return grad
}

// weightedSum returns Σ value ⊙ weights in float64.
func weightedSum(x autograd.Tensor, weights []float32) float64 {
	var sum float64
	for i, v := range x.Data() {
		sum += float64(v) * float64(weights[i])
	}
	return sum
}
