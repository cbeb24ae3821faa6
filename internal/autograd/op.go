package autograd

import "fmt"

// Op tags the operation that produced a node and selects its backward rule.
type Op uint8

// Operation kinds.
const (
	OpLeaf Op = iota // leaf or torn-down node, no rule
	OpAdd
	OpSub
	OpMatMul
	OpDot
	OpLeakyReLU
	OpDiv // forward only, no rule
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpLeaf:
		return "leaf"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMatMul:
		return "matmul"
	case OpDot:
		return "dot"
	case OpLeakyReLU:
		return "leaky_relu"
	case OpDiv:
		return "div"
	default:
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
}

// HasGradient reports whether the operation distributes gradient to its
// operands.
func (op Op) HasGradient() bool {
	switch op {
	case OpAdd, OpSub, OpMatMul, OpDot, OpLeakyReLU:
		return true
	default:
		return false
	}
}
