// Package rc implements a single-threaded reference-counted handle.
//
// A Ref shares ownership of one value. Every Acquire adds an owner, every
// Release removes one, and the drop function runs synchronously when the last
// owner lets go. There is no weak variant: owners must form a DAG, since a
// cycle of Refs never reaches zero.
//
// Refs are plain values. Copying a Ref with assignment does NOT add an owner;
// use Acquire for that. Releasing the same owner twice panics.
package rc

import (
	"errors"
	"fmt"
)

// ErrReleased is the panic value (wrapped) for dereferencing a dead handle.
var ErrReleased = errors.New("rc: handle released")

// box is the shared control block.
type box[T any] struct {
	val   *T
	count int
	drop  func(*T)
}

// Ref is a counted handle to a *T. The zero Ref is null.
type Ref[T any] struct {
	b *box[T]
}

// New wraps v with a count of one. drop may be nil.
func New[T any](v *T, drop func(*T)) Ref[T] {
	return Ref[T]{b: &box[T]{val: v, count: 1, drop: drop}}
}

// Acquire registers a new owner and returns its handle.
// Acquiring a null handle returns a null handle.
func (r Ref[T]) Acquire() Ref[T] {
	if r.b == nil {
		return Ref[T]{}
	}
	if r.b.count <= 0 {
		panic(fmt.Errorf("acquire: %w", ErrReleased))
	}
	r.b.count++
	return Ref[T]{b: r.b}
}

// Release gives up this owner and nulls the handle. The drop function runs
// when the count reaches zero. Releasing a null handle is a no-op.
func (r *Ref[T]) Release() {
	if r.b == nil {
		return
	}
	b := r.b
	r.b = nil
	if b.count <= 0 {
		panic(fmt.Errorf("release: %w", ErrReleased))
	}
	b.count--
	if b.count > 0 {
		return
	}
	v := b.val
	b.val = nil
	if b.drop != nil {
		b.drop(v)
	}
}

// IsNil reports whether the handle is null.
func (r Ref[T]) IsNil() bool {
	return r.b == nil
}

// Alive reports whether the handle points at a value that has not been dropped.
func (r Ref[T]) Alive() bool {
	return r.b != nil && r.b.count > 0
}

// Get dereferences the handle. It panics on a null or dead handle.
func (r Ref[T]) Get() *T {
	if r.b == nil {
		panic(fmt.Errorf("get on null handle: %w", ErrReleased))
	}
	if r.b.count <= 0 {
		panic(fmt.Errorf("get: %w", ErrReleased))
	}
	return r.b.val
}

// UseCount returns the number of live owners, or 0 for a null handle.
func (r Ref[T]) UseCount() int {
	if r.b == nil {
		return 0
	}
	return r.b.count
}

// Same reports whether both handles share a control block.
func (r Ref[T]) Same(other Ref[T]) bool {
	return r.b != nil && r.b == other.b
}
