package nn

import (
	"fmt"

	"github.com/born-ml/matgrad/internal/autograd"
)

// MSE computes the mean squared error between predictions and targets.
//
// Loss = mean((predictions - targets)²)
//
// As a side effect the gradient of predictions is overwritten with
// ∂Loss/∂predictions = 2/n·(predictions - targets), so the caller can run
// predictions.Backward() without a seed. Targets are only read.
func MSE(predictions, targets autograd.Tensor) (float32, error) {
	if predictions.IsNil() || targets.IsNil() {
		return 0, fmt.Errorf("mse: %w", autograd.ErrReleased)
	}
	pr, pc := predictions.Shape()
	tr, tc := targets.Shape()
	if pr != tr || pc != tc {
		return 0, fmt.Errorf("mse: predictions %d×%d, targets %d×%d: %w", pr, pc, tr, tc, autograd.ErrShapeMismatch)
	}

	pred := predictions.Data()
	target := targets.Data()
	n := float32(len(pred))
	scale := 2 / n

	grad := make([]float32, len(pred))
	var sum float64
	for i := range pred {
		diff := pred[i] - target[i]
		sum += float64(diff) * float64(diff)
		grad[i] = scale * diff
	}

	if err := predictions.SetGrad(grad); err != nil {
		return 0, fmt.Errorf("mse: %w", err)
	}
	return float32(sum / float64(len(pred))), nil
}
