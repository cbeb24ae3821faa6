package interop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/matgrad/internal/autograd"
	"github.com/born-ml/matgrad/internal/clip"
	"github.com/born-ml/matgrad/internal/interop"
)

func TestFromDense_RoundTrip(t *testing.T) {
	g := autograd.New(autograd.Config{})
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})

	x, err := interop.FromDense(g, m, "m")
	require.NoError(t, err)
	defer x.Release()

	assert.Equal(t, [][]float32{{1, 2, 3}, {4, 5, 6}}, x.Values())

	back, err := interop.ValueDense(x)
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, back))

	m.Set(0, 0, 100)
	assert.Equal(t, float32(1), x.ValueAt(0, 0), "conversion copies")
}

func TestFromDense_Transposed(t *testing.T) {
	g := autograd.New(autograd.Config{})
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})

	x, err := interop.FromDense(g, m.T(), "mT")
	require.NoError(t, err)
	defer x.Release()

	assert.Equal(t, [][]float32{{1, 4}, {2, 5}, {3, 6}}, x.Values())
}

func TestGradDense_MatchesGonumProduct(t *testing.T) {
	g := autograd.New(autograd.Config{Stabilizer: clip.Passthrough{}})
	am := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	bm := mat.NewDense(2, 2, []float64{0.5, -1, 2, 0.25})

	a, err := interop.FromDense(g, am, "A")
	require.NoError(t, err)
	defer a.Release()
	b, err := interop.FromDense(g, bm, "B")
	require.NoError(t, err)
	defer b.Release()

	c, err := a.MatMul(b)
	require.NoError(t, err)

	var want mat.Dense
	want.Mul(am, bm)
	got, err := interop.ValueDense(c)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(&want, got, 1e-6))

	require.NoError(t, c.Backward(autograd.WithOnesSeed()))
	c.Release()

	// dA = 1·Bᵀ
	ones := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
	var wantA mat.Dense
	wantA.Mul(ones, bm.T())
	gotA, err := interop.GradDense(a)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(&wantA, gotA, 1e-6))

	norm, err := interop.GradNorm(a)
	require.NoError(t, err)
	assert.InDelta(t, mat.Norm(&wantA, 2), norm, 1e-6)
}

func TestInterop_Errors(t *testing.T) {
	_, err := interop.ValueDense(autograd.Tensor{})
	assert.ErrorIs(t, err, autograd.ErrReleased)
	_, err = interop.GradDense(autograd.Tensor{})
	assert.ErrorIs(t, err, autograd.ErrReleased)
	_, err = interop.GradNorm(autograd.Tensor{})
	assert.ErrorIs(t, err, autograd.ErrReleased)
}
