// Package sine trains a small regressor to approximate sin(x) over one
// period. It drives the autograd engine the way a host training loop does:
// build the graph, seed it through the loss, run Backward, step the
// optimizer.
package sine

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/matgrad/internal/alloc"
	"github.com/born-ml/matgrad/internal/autograd"
	"github.com/born-ml/matgrad/internal/nn"
	"github.com/born-ml/matgrad/internal/optim"
	"github.com/born-ml/matgrad/internal/parallel"
	"github.com/born-ml/matgrad/internal/serialization"
)

// Optimizer names accepted by Config.Optimizer.
const (
	OptimizerSGD  = "sgd"
	OptimizerAdam = "adam"
)

// Config holds training configuration. Zero fields take the defaults noted
// on each field.
type Config struct {
	Points    int     // Training samples (default: 100)
	Hidden    int     // Hidden layer width (default: 128)
	Epochs    int     // Training epochs (default: 1000)
	LR        float32 // Learning rate (default: 0.01)
	Momentum  float32 // SGD momentum (default: 0)
	Slope     float32 // LeakyReLU slope (default: autograd.DefaultLeakySlope)
	Optimizer string  // "sgd" or "adam" (default: "sgd")
	Seed      uint64  // Weight initialization seed
	Pool      bool    // Reuse node buffers across epochs
	LogEvery  int     // Log every N epochs (default: 100)

	// Init, when set, overwrites the random initial weights.
	Init *serialization.StateDict

	// Logf receives progress lines. Nil disables logging.
	Logf func(format string, args ...any)
}

func (c *Config) setDefaults() {
	if c.Points == 0 {
		c.Points = 100
	}
	if c.Hidden == 0 {
		c.Hidden = 128
	}
	if c.Epochs == 0 {
		c.Epochs = 1000
	}
	if c.LR == 0 {
		c.LR = 0.01
	}
	if c.Slope == 0 {
		c.Slope = autograd.DefaultLeakySlope
	}
	if c.Optimizer == "" {
		c.Optimizer = OptimizerSGD
	}
	if c.LogEvery == 0 {
		c.LogEvery = 100
	}
}

// Result is the outcome of Train. The caller owns Model and must release it.
type Result struct {
	Model  *Model
	Losses []float32 // one per epoch

	// Buffer accounting at the end of training.
	LiveBuffers int
	PeakBuffers int
	Pool        *alloc.PoolStats // nil unless Config.Pool
}

// Train fits a Model to NewDataset(cfg.Points).
func Train(cfg Config) (*Result, error) {
	cfg.setDefaults()
	if cfg.Epochs < 0 || cfg.LogEvery < 0 {
		return nil, fmt.Errorf("invalid config: epochs %d, log every %d", cfg.Epochs, cfg.LogEvery)
	}

	data, err := NewDataset(cfg.Points)
	if err != nil {
		return nil, err
	}

	var pool *alloc.Pool
	var inner alloc.Allocator
	if cfg.Pool {
		pool = alloc.NewPool()
		inner = pool
	}
	counter := alloc.NewCounting(inner)
	g := autograd.New(autograd.Config{Allocator: counter})

	x, err := g.LeafRows(data.Inputs, "x_train")
	if err != nil {
		return nil, err
	}
	defer x.Release()
	y, err := g.LeafRows(data.Targets, "y_train")
	if err != nil {
		return nil, err
	}
	defer y.Release()

	model, err := NewModel(g, cfg.Hidden, cfg.Slope, rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)))
	if err != nil {
		return nil, err
	}

	if cfg.Init != nil {
		if err := cfg.Init.LoadInto(model.Parameters()); err != nil {
			model.Release()
			return nil, fmt.Errorf("initial weights: %w", err)
		}
	}

	opt, err := newOptimizer(cfg, model.Parameters())
	if err != nil {
		model.Release()
		return nil, err
	}

	losses := make([]float32, 0, cfg.Epochs)
	for epoch := range cfg.Epochs {
		loss, err := step(model, opt, x, y)
		if err != nil {
			model.Release()
			return nil, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		losses = append(losses, loss)

		if cfg.Logf != nil && epoch%cfg.LogEvery == 0 {
			cfg.Logf("Epoch %d/%d: Loss = %.6f (live buffers %d)", epoch, cfg.Epochs, loss, counter.Live())
		}
	}

	res := &Result{
		Model:       model,
		Losses:      losses,
		LiveBuffers: counter.Live(),
		PeakBuffers: counter.Peak(),
	}
	if pool != nil {
		stats := pool.Stats()
		res.Pool = &stats
	}
	return res, nil
}

// step runs one forward/backward/update cycle and returns the loss.
func step(model *Model, opt optim.Optimizer, x, y autograd.Tensor) (float32, error) {
	out, err := model.Forward(x)
	if err != nil {
		return 0, err
	}
	defer out.Release()

	loss, err := nn.MSE(out, y)
	if err != nil {
		return 0, err
	}
	if err := out.Backward(); err != nil {
		return 0, err
	}

	opt.Step()
	opt.ZeroGrad()
	return loss, nil
}

func newOptimizer(cfg Config, params []*autograd.Variable) (optim.Optimizer, error) {
	switch cfg.Optimizer {
	case OptimizerSGD:
		return optim.NewSGD(params, optim.SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum}), nil
	case OptimizerAdam:
		return optim.NewAdam(params, optim.AdamConfig{LR: cfg.LR}), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q (want %q or %q)", cfg.Optimizer, OptimizerSGD, OptimizerAdam)
	}
}

// SweepResult is one run of Sweep.
type SweepResult struct {
	Seed      uint64
	FinalLoss float32
	Result    *Result
}

// Sweep trains one model per seed, concurrently under pcfg, each on its own
// graph. Results are in seed order; the caller releases every model. On
// error every model already trained is released.
func Sweep(cfg Config, seeds []uint64, pcfg parallel.Config) ([]SweepResult, error) {
	results, err := parallel.Map(len(seeds), func(i int) (SweepResult, error) {
		run := cfg
		run.Seed = seeds[i]
		run.Logf = nil
		res, err := Train(run)
		if err != nil {
			return SweepResult{}, fmt.Errorf("seed %d: %w", seeds[i], err)
		}
		return SweepResult{Seed: seeds[i], FinalLoss: res.Losses[len(res.Losses)-1], Result: res}, nil
	}, pcfg)
	if err != nil {
		for _, r := range results {
			if r.Result != nil {
				r.Result.Model.Release()
			}
		}
		return nil, err
	}
	return results, nil
}

// Best returns the run with the lowest final loss.
func Best(runs []SweepResult) (SweepResult, bool) {
	if len(runs) == 0 {
		return SweepResult{}, false
	}
	best := runs[0]
	for _, r := range runs[1:] {
		if r.FinalLoss < best.FinalLoss {
			best = r
		}
	}
	return best, true
}
