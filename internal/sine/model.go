package sine

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/matgrad/internal/autograd"
	"github.com/born-ml/matgrad/internal/nn"
)

// Model is the two-layer regressor: [x, 1] · W1 → LeakyReLU → · W2.
type Model struct {
	graph  *autograd.Graph
	hidden *nn.Linear // 2 → hidden
	output *nn.Linear // hidden → 1
	net    *nn.Sequential
}

// NewModel creates a model on g with weights drawn from U(-1, 1).
func NewModel(g *autograd.Graph, hidden int, slope float32, rng *rand.Rand) (*Model, error) {
	w1, err := nn.NewLinearFrom(g, "W1", 2, hidden, nn.Uniform(rng, 2*hidden, 1))
	if err != nil {
		return nil, err
	}
	w2, err := nn.NewLinearFrom(g, "W2", hidden, 1, nn.Uniform(rng, hidden, 1))
	if err != nil {
		nn.Release(w1)
		return nil, err
	}
	return &Model{
		graph:  g,
		hidden: w1,
		output: w2,
		net:    nn.NewSequential(w1, nn.NewLeakyReLU(slope), w2),
	}, nil
}

// Forward runs the network on a [batch, 2] input.
func (m *Model) Forward(input autograd.Tensor) (autograd.Tensor, error) {
	return m.net.Forward(input)
}

// Parameters returns W1 and W2.
func (m *Model) Parameters() []*autograd.Variable {
	return m.net.Parameters()
}

// Predict evaluates the model at a single x. No graph state outlives the
// call.
func (m *Model) Predict(x float32) (float32, error) {
	input, err := m.graph.Leaf(1, 2, []float32{x, 1}, "input")
	if err != nil {
		return 0, err
	}
	defer input.Release()

	out, err := m.Forward(input)
	if err != nil {
		return 0, fmt.Errorf("predict %g: %w", x, err)
	}
	defer out.Release()
	return out.ValueAt(0, 0), nil
}

// Release drops the model's weights.
func (m *Model) Release() {
	nn.Release(m.net)
}
