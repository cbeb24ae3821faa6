package clip_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/matgrad/internal/clip"
)

func TestPolicy_ClipsLargeNorm(t *testing.T) {
	g := []float32{3, 4} // norm 5
	clip.DefaultPolicy().Apply(g)

	assert.InDelta(t, 1.0, clip.Norm(g), 1e-6)
	assert.InDelta(t, 0.6, g[0], 1e-6, "direction preserved")
	assert.InDelta(t, 0.8, g[1], 1e-6)
}

func TestPolicy_AmplifiesTinyNorm(t *testing.T) {
	g := []float32{6e-6, 8e-6} // norm 1e-5
	clip.DefaultPolicy().Apply(g)

	assert.InDelta(t, 1e-3, clip.Norm(g), 1e-5)
	assert.InDelta(t, 0.6, float64(g[0])/clip.Norm(g), 1e-4)
}

func TestPolicy_InsideBandUntouched(t *testing.T) {
	g := []float32{0.25, -0.5}
	clip.DefaultPolicy().Apply(g)
	assert.InDelta(t, 0.25, g[0], 1e-6)
	assert.InDelta(t, -0.5, g[1], 1e-6)
}

func TestPolicy_ZeroesNonFiniteBeforeNorm(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	g := []float32{nan, 0.5, inf, float32(math.Inf(-1))}
	norm := clip.DefaultPolicy().Apply(g)

	assert.Equal(t, []float32{0, 0.5, 0, 0}, g)
	assert.InDelta(t, 0.5, norm, 1e-6, "norm computed after zeroing")
}

func TestPolicy_AllZeroStaysZero(t *testing.T) {
	g := make([]float32, 4)
	clip.DefaultPolicy().Apply(g)
	for _, v := range g {
		assert.Zero(t, v)
	}
}

func TestPolicy_LargeEpsilonDisablesLowerBand(t *testing.T) {
	// sqrt(1e-6) == MinNorm, so the lower branch can never fire.
	p := clip.Policy{MaxNorm: 1, MinNorm: 1e-3, Epsilon: 1e-6}
	g := []float32{1e-5, 0}
	p.Apply(g)
	assert.InDelta(t, 1e-5, g[0], 1e-9)
}

func TestPassthrough(t *testing.T) {
	g := []float32{30, float32(math.NaN())}
	clip.Passthrough{}.Stabilize(g)
	assert.Equal(t, float32(30), g[0])
	assert.True(t, math.IsNaN(float64(g[1])))
}

func TestStabilizerInterface(t *testing.T) {
	var _ clip.Stabilizer = clip.DefaultPolicy()
	var _ clip.Stabilizer = clip.Passthrough{}
}
