package autograd

import (
	"fmt"

	"github.com/born-ml/matgrad/internal/clip"
	"github.com/born-ml/matgrad/internal/rc"
)

// BackwardOption configures Backward.
type BackwardOption func(*backwardOptions)

type backwardOptions struct {
	seedOnes bool
	skipDiv  bool
}

// WithOnesSeed fills the root gradient with ones before propagation.
// Without it the root's current gradient (set by the caller, e.g. through a
// loss) is propagated as is.
func WithOnesSeed() BackwardOption {
	return func(o *backwardOptions) { o.seedOnes = true }
}

// WithSkipNonDifferentiable lets Backward run through operations without a
// gradient rule (Div). Such nodes absorb their gradient.
func WithSkipNonDifferentiable() BackwardOption {
	return func(o *backwardOptions) { o.skipDiv = true }
}

// visitState tracks a node during the topological sort.
type visitState uint8

const (
	unvisited  visitState = iota
	inProgress            // on the DFS path
	ordered               // emitted
)

// Backward propagates the root gradient to every node reachable from t.
//
// Algorithm:
//  1. Depth-first post-order from t (left before right); each node once
//  2. Run each node's rule in reverse emission order, so a node's gradient is
//     complete before it is distributed to its operands
//  3. Cut every visited node's edges and reset its tag to OpLeaf; nodes no
//     longer referenced by any handle are deallocated before Backward returns
//
// If the graph contains a node without a gradient rule and
// WithSkipNonDifferentiable is not set, Backward returns ErrNoGradientRule
// and leaves every buffer and edge untouched.
func (t Tensor) Backward(opts ...BackwardOption) error {
	if !t.ref.Alive() {
		return fmt.Errorf("backward: %w", ErrReleased)
	}
	var o backwardOptions
	for _, opt := range opts {
		opt(&o)
	}

	order := topoSort(t.ref)
	defer func() {
		for i := range order {
			order[i].Release()
		}
	}()

	if !o.skipDiv {
		for _, r := range order {
			if n := r.Get(); n.op != OpLeaf && !n.op.HasGradient() {
				return fmt.Errorf("backward through %q (%s): %w", n.label, n.op, ErrNoGradientRule)
			}
		}
	}

	root := t.ref.Get()
	if o.seedOnes {
		for i := range root.grad {
			root.grad[i] = 1
		}
	}

	stab := root.graph.stab
	for i := len(order) - 1; i >= 0; i-- {
		runRule(order[i].Get(), stab)
	}

	for _, r := range order {
		n := r.Get()
		n.left.Release()
		n.right.Release()
		n.op = OpLeaf
		n.slope = 0
	}
	return nil
}

// ExecutionOrder returns the node IDs in the order Backward would run their
// rules (root first). Nothing is modified.
func ExecutionOrder(root Tensor) ([]NodeID, error) {
	if !root.ref.Alive() {
		return nil, fmt.Errorf("execution order: %w", ErrReleased)
	}
	order := topoSort(root.ref)
	ids := make([]NodeID, len(order))
	for i := range order {
		ids[len(order)-1-i] = order[i].Get().id
		order[i].Release()
	}
	return ids, nil
}

// topoSort returns every node reachable from root in post-order. Each entry
// is an owning reference the caller must release.
func topoSort(root rc.Ref[node]) []rc.Ref[node] {
	type frame struct {
		ref  rc.Ref[node] // borrowed
		exit bool
	}

	state := make(map[*node]visitState)
	var order []rc.Ref[node]
	stack := []frame{{ref: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.ref.Get()

		if f.exit {
			state[n] = ordered
			order = append(order, f.ref.Acquire())
			continue
		}

		switch state[n] {
		case ordered:
			continue
		case inProgress:
			panic(fmt.Sprintf("autograd: cycle through node %d (%q)", n.id, n.label))
		}
		state[n] = inProgress

		// Pushed in reverse so left is explored first.
		stack = append(stack, frame{ref: f.ref, exit: true})
		if !n.right.IsNil() {
			stack = append(stack, frame{ref: n.right})
		}
		if !n.left.IsNil() {
			stack = append(stack, frame{ref: n.left})
		}
	}
	return order
}

// runRule dispatches the backward rule for n.
func runRule(n *node, s clip.Stabilizer) {
	switch n.op {
	case OpLeaf:
	case OpAdd:
		backwardAdd(n, s)
	case OpSub:
		backwardSub(n, s)
	case OpMatMul:
		backwardMatMul(n, s)
	case OpDot:
		backwardDot(n, s)
	case OpLeakyReLU:
		backwardLeakyReLU(n, s)
	case OpDiv:
		// No rule. Only reached with WithSkipNonDifferentiable.
	default:
		panic(fmt.Sprintf("autograd: no dispatch for %s", n.op))
	}
}
