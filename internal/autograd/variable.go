package autograd

// Variable pairs a trainable leaf (the origin) with the tensor currently
// standing in for it in an expression (the current view).
//
// Nothing rebinds implicitly. Bind points the current view at a new tensor,
// Reset points it back at the origin; reads never change either field.
// Optimizer steps and gradient resets always target the origin.
type Variable struct {
	name    string
	origin  Tensor
	current Tensor
}

// NewVariable takes ownership of origin.
func NewVariable(name string, origin Tensor) *Variable {
	return &Variable{
		name:    name,
		origin:  origin,
		current: origin.Share(),
	}
}

// Name returns the variable name.
func (v *Variable) Name() string {
	return v.name
}

// Origin returns a borrowed handle to the origin leaf. Call Share to keep it.
func (v *Variable) Origin() Tensor {
	return v.origin
}

// Current returns a borrowed handle to the current view. Call Share to keep it.
func (v *Variable) Current() Tensor {
	return v.current
}

// Bound reports whether the current view differs from the origin.
func (v *Variable) Bound() bool {
	return !v.current.Same(v.origin)
}

// Bind makes t the current view, taking ownership of t and releasing the
// previous view.
func (v *Variable) Bind(t Tensor) {
	v.current.Release()
	v.current = t
}

// Reset makes the origin the current view again.
func (v *Variable) Reset() {
	if !v.Bound() {
		return
	}
	v.Bind(v.origin.Share())
}

// Update applies origin -= rate * grad(origin).
func (v *Variable) Update(rate float32) {
	v.origin.Update(rate)
}

// ZeroGrad clears the gradient of the origin and of a bound current view.
func (v *Variable) ZeroGrad() {
	v.origin.ZeroGrad()
	if v.Bound() && !v.current.IsNil() {
		v.current.ZeroGrad()
	}
}

// Release drops both handles.
func (v *Variable) Release() {
	v.current.Release()
	v.origin.Release()
}
