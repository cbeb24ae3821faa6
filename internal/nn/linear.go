package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/matgrad/internal/autograd"
)

// Linear implements a fully connected layer without bias.
//
// Performs y = x · W where x is [batch, in] and W is [in, out].
//
// There is no broadcasting add, so a bias is expressed by appending a
// constant 1 column to the input and one extra input feature.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *autograd.Variable // [in_features, out_features]
}

// NewLinear creates a Linear layer on g with Xavier-initialized weights.
func NewLinear(g *autograd.Graph, name string, inFeatures, outFeatures int, rng *rand.Rand) (*Linear, error) {
	return NewLinearFrom(g, name, inFeatures, outFeatures, Xavier(rng, inFeatures, outFeatures))
}

// NewLinearFrom creates a Linear layer with the given row-major weights.
func NewLinearFrom(g *autograd.Graph, name string, inFeatures, outFeatures int, weights []float32) (*Linear, error) {
	w, err := g.Leaf(inFeatures, outFeatures, weights, name)
	if err != nil {
		return nil, fmt.Errorf("linear %s: %w", name, err)
	}
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      autograd.NewVariable(name, w),
	}, nil
}

// Forward computes input · W.
func (l *Linear) Forward(input autograd.Tensor) (autograd.Tensor, error) {
	out, err := input.MatMul(l.weight.Current())
	if err != nil {
		return autograd.Tensor{}, fmt.Errorf("linear %s: %w", l.weight.Name(), err)
	}
	return out, nil
}

// Parameters returns the weight variable.
func (l *Linear) Parameters() []*autograd.Variable {
	return []*autograd.Variable{l.weight}
}

// Weight returns the weight variable.
func (l *Linear) Weight() *autograd.Variable {
	return l.weight
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}
