package nn

import (
	"fmt"

	"github.com/born-ml/matgrad/internal/autograd"
)

// Sequential is a container module that chains multiple modules together.
//
// Intermediate outputs are released as soon as the next module has consumed
// them; the graph keeps them alive through its edges until Backward.
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{
		modules: modules,
	}
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(input autograd.Tensor) (autograd.Tensor, error) {
	output := input.Share()

	for i, module := range s.modules {
		next, err := module.Forward(output)
		output.Release()
		if err != nil {
			return autograd.Tensor{}, fmt.Errorf("sequential layer %d: %w", i, err)
		}
		output = next
	}

	return output, nil
}

// Parameters returns all trainable parameters from all modules.
func (s *Sequential) Parameters() []*autograd.Variable {
	var params []*autograd.Variable

	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}

	return params
}

// Add appends a module to the sequence.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules.
func (s *Sequential) Len() int {
	return len(s.modules)
}
