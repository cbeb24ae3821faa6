package nn

import (
	"github.com/born-ml/matgrad/internal/autograd"
)

// LeakyReLU is a leaky rectified linear activation module.
//
// Applies f(x) = x if x > 0 else slope*x element-wise.
type LeakyReLU struct {
	slope float32
}

// NewLeakyReLU creates a LeakyReLU module.
func NewLeakyReLU(slope float32) *LeakyReLU {
	return &LeakyReLU{slope: slope}
}

// Forward applies the activation.
func (r *LeakyReLU) Forward(input autograd.Tensor) (autograd.Tensor, error) {
	return input.LeakyReLU(r.slope)
}

// Parameters returns nil (LeakyReLU has no trainable parameters).
func (r *LeakyReLU) Parameters() []*autograd.Variable {
	return nil
}
