package autograd

import "errors"

// Sentinel errors. Call sites wrap them with context; match with errors.Is.
var (
	// ErrShapeMismatch is returned when operand shapes are incompatible.
	// No node is created and no buffer is written.
	ErrShapeMismatch = errors.New("autograd: shape mismatch")

	// ErrBadShape is returned for non-positive dimensions or data whose
	// length does not match the requested shape.
	ErrBadShape = errors.New("autograd: invalid shape")

	// ErrReleased is returned when an operand handle is null or released.
	ErrReleased = errors.New("autograd: tensor released")

	// ErrForeignNode is returned when operands belong to different graphs.
	ErrForeignNode = errors.New("autograd: operands from different graphs")

	// ErrNoGradientRule is returned by Backward when the graph contains an
	// operation without a gradient rule (divide).
	ErrNoGradientRule = errors.New("autograd: operation has no gradient rule")
)
