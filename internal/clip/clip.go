// Package clip implements the gradient stabilizer applied after every
// gradient accumulation.
//
// A Policy first zeroes non-finite entries, then bounds the L2 norm of the
// whole buffer to the band [MinNorm, MaxNorm]:
//
//	norm = sqrt(Σ g² + Epsilon)
//	norm > MaxNorm  →  g *= MaxNorm / norm
//	norm < MinNorm  →  g *= MinNorm / norm   (amplifies near-vanishing gradients)
//
// The lower bound is not standard gradient clipping, which only caps large
// norms. It is kept on purpose: training runs built on this engine depend on
// small gradients being lifted to MinNorm.
package clip

import "math"

// Default band.
const (
	DefaultMaxNorm = 1.0
	DefaultMinNorm = 1e-3
	DefaultEpsilon = 1e-12
)

// Stabilizer transforms a gradient buffer in place.
type Stabilizer interface {
	Stabilize(grad []float32)
}

// Policy is the norm-band stabilizer.
type Policy struct {
	MaxNorm float64 // upper bound (default: 1.0)
	MinNorm float64 // lower bound, 0 disables amplification (default: 1e-3)
	Epsilon float64 // added under the square root (default: 1e-12)
}

// DefaultPolicy returns the standard band.
func DefaultPolicy() Policy {
	return Policy{
		MaxNorm: DefaultMaxNorm,
		MinNorm: DefaultMinNorm,
		Epsilon: DefaultEpsilon,
	}
}

// Stabilize implements Stabilizer.
func (p Policy) Stabilize(grad []float32) {
	p.Apply(grad)
}

// Apply stabilizes grad in place and returns the norm measured before
// rescaling (with Epsilon included).
func (p Policy) Apply(grad []float32) float64 {
	var sum float64
	for i, g := range grad {
		f := float64(g)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			grad[i] = 0
			continue
		}
		sum += f * f
	}
	norm := math.Sqrt(sum + p.Epsilon)

	switch {
	case p.MaxNorm > 0 && norm > p.MaxNorm:
		scale(grad, p.MaxNorm/norm)
	case norm < p.MinNorm:
		scale(grad, p.MinNorm/norm)
	}
	return norm
}

func scale(grad []float32, s float64) {
	for i := range grad {
		grad[i] = float32(float64(grad[i]) * s)
	}
}

// Norm returns the plain L2 norm of grad, skipping non-finite entries.
func Norm(grad []float32) float64 {
	var sum float64
	for _, g := range grad {
		f := float64(g)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		sum += f * f
	}
	return math.Sqrt(sum)
}

// Passthrough leaves gradients untouched.
type Passthrough struct{}

// Stabilize implements Stabilizer.
func (Passthrough) Stabilize([]float32) {}
