package nn

import (
	"math"
	"math/rand/v2"
)

// Xavier returns fanIn*fanOut weights drawn from the Glorot uniform
// distribution U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))).
func Xavier(rng *rand.Rand, fanIn, fanOut int) []float32 {
	return Uniform(rng, fanIn*fanOut, math.Sqrt(6.0/float64(fanIn+fanOut)))
}

// Uniform returns n values drawn from U(-bound, bound).
func Uniform(rng *rand.Rand, n int, bound float64) []float32 {
	data := make([]float32, n)
	for i := range data {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		data[i] = float32((rng.Float64()*2.0 - 1.0) * bound)
	}
	return data
}
