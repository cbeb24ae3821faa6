// Package alloc provides host memory for node buffers.
//
// The engine asks an Allocator for row-major float32 buffers of a given shape,
// owns them exclusively for the node's lifetime, and hands them back with Free
// when the node is dropped. Any strategy works as long as returned buffers are
// zero-filled and rows can be addressed independently (see Row).
package alloc

// Allocator hands out zeroed row-major buffers.
type Allocator interface {
	// Alloc returns a zero-filled buffer holding rows*cols elements.
	Alloc(rows, cols int) []float32

	// Free returns a buffer obtained from Alloc. The caller must not touch
	// buf afterwards.
	Free(buf []float32)
}

// Row returns row i of a row-major buffer with the given column count.
// The returned slice aliases buf.
func Row(buf []float32, cols, i int) []float32 {
	return buf[i*cols : (i+1)*cols : (i+1)*cols]
}

// Heap allocates straight from the Go heap and lets Free be a no-op.
type Heap struct{}

// Alloc implements Allocator.
func (Heap) Alloc(rows, cols int) []float32 {
	return make([]float32, rows*cols)
}

// Free implements Allocator.
func (Heap) Free([]float32) {}
