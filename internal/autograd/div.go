package autograd

// Div returns t / other, elementwise. Shapes must match.
//
// Div has no backward rule. Backward refuses a graph containing a Div node
// with ErrNoGradientRule unless WithSkipNonDifferentiable is given, in which
// case the node absorbs its gradient and its operands receive nothing.
//
// Division by zero is not checked: infinities and NaNs land in the value
// buffer as computed.
func (t Tensor) Div(other Tensor) (Tensor, error) {
	a, b, err := binary(OpDiv, t, other)
	if err != nil {
		return Tensor{}, err
	}
	if err := sameShape(OpDiv, a, b); err != nil {
		return Tensor{}, err
	}

	out, n := result(a.rows, a.cols, OpDiv, a.label+"/"+b.label, t, other)
	for i := range n.value {
		n.value[i] = a.value[i] / b.value[i]
	}
	return out, nil
}
