package alloc

// Counting decorates an Allocator and tracks outstanding buffers. Tests use
// it to assert that a training step gives back everything it took.
type Counting struct {
	inner Allocator
	live  int
	peak  int
	total uint64
}

// NewCounting wraps inner. A nil inner means Heap.
func NewCounting(inner Allocator) *Counting {
	if inner == nil {
		inner = Heap{}
	}
	return &Counting{inner: inner}
}

// Alloc implements Allocator.
func (c *Counting) Alloc(rows, cols int) []float32 {
	c.live++
	c.total++
	if c.live > c.peak {
		c.peak = c.live
	}
	return c.inner.Alloc(rows, cols)
}

// Free implements Allocator.
func (c *Counting) Free(buf []float32) {
	if buf == nil {
		return
	}
	c.live--
	c.inner.Free(buf)
}

// Live returns the number of buffers handed out and not yet freed.
func (c *Counting) Live() int { return c.live }

// Peak returns the highest Live value observed.
func (c *Counting) Peak() int { return c.peak }

// Total returns the number of Alloc calls.
func (c *Counting) Total() uint64 { return c.total }
