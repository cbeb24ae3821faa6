package optim

import (
	"fmt"

	"github.com/born-ml/matgrad/internal/autograd"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(params, optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	params     []*autograd.Variable
	lr         float32
	momentum   float32
	velocities map[*autograd.Variable][]float32
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*autograd.Variable, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*autograd.Variable][]float32),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step() {
	for _, p := range s.params {
		if s.momentum == 0 {
			p.Update(s.lr)
			continue
		}
		s.updateWithMomentum(p)
	}
}

func (s *SGD) updateWithMomentum(p *autograd.Variable) {
	velocity, exists := s.velocities[p]
	if !exists {
		velocity = make([]float32, size(p))
		s.velocities[p] = velocity
	}

	p.Origin().Apply(func(value, grad []float32) {
		for i, g := range grad {
			velocity[i] = s.momentum*velocity[i] + g
			value[i] -= s.lr * velocity[i]
		}
	})
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	zeroGrad(s.params)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float32) {
	s.lr = lr
}

// StateDict returns the optimizer state.
//
// With momentum, keys are "velocity.{param_index}". Without momentum the map
// is empty.
func (s *SGD) StateDict() map[string][]float32 {
	stateDict := make(map[string][]float32)
	if s.momentum == 0 {
		return stateDict
	}

	for i, p := range s.params {
		velocity, exists := s.velocities[p]
		if !exists {
			continue
		}
		stateDict[fmt.Sprintf("velocity.%d", i)] = append([]float32(nil), velocity...)
	}
	return stateDict
}

// LoadStateDict restores velocity buffers saved by StateDict. Parameters
// without an entry start from zero velocity on their next step.
func (s *SGD) LoadStateDict(stateDict map[string][]float32) error {
	if s.momentum == 0 {
		return nil
	}

	velocities := make(map[*autograd.Variable][]float32)
	for i, p := range s.params {
		saved, exists := stateDict[fmt.Sprintf("velocity.%d", i)]
		if !exists {
			continue
		}
		if len(saved) != size(p) {
			return fmt.Errorf("velocity size mismatch for parameter %d (%s): expected %d, got %d",
				i, p.Name(), size(p), len(saved))
		}
		velocities[p] = append([]float32(nil), saved...)
	}
	s.velocities = velocities
	return nil
}
