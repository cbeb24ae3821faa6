package alloc

// Size classes for pooling.
type sizeClass int

const (
	smallClass sizeClass = iota
	mediumClass
	largeClass
)

const (
	smallThreshold  = 256       // elements
	mediumThreshold = 64 * 1024 // elements
	maxPoolSize     = 64        // max buffers kept per class
)

// Pool reuses freed buffers. Buffers are bucketed by size class and a
// request is served by the first pooled buffer with enough capacity.
//
// Pool is not safe for concurrent use, matching the engine.
type Pool struct {
	small  [][]float32
	medium [][]float32
	large  [][]float32

	stats PoolStats
}

// PoolStats reports pool usage.
type PoolStats struct {
	Allocated uint64 // buffers created by the pool
	Released  uint64 // buffers handed back through Free
	Hits      uint64
	Misses    uint64
	Pooled    int // buffers currently idle in the pool
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{
		small:  make([][]float32, 0, maxPoolSize),
		medium: make([][]float32, 0, maxPoolSize),
		large:  make([][]float32, 0, maxPoolSize),
	}
}

// Alloc implements Allocator.
func (p *Pool) Alloc(rows, cols int) []float32 {
	n := rows * cols
	class := categorize(n)
	pool := p.bucket(class)

	for i, buf := range *pool {
		if cap(buf) >= n {
			last := len(*pool) - 1
			(*pool)[i] = (*pool)[last]
			(*pool)[last] = nil
			*pool = (*pool)[:last]
			p.stats.Hits++

			buf = buf[:n]
			clear(buf)
			return buf
		}
	}

	p.stats.Misses++
	p.stats.Allocated++
	return make([]float32, n)
}

// Free implements Allocator. Buffers beyond the per-class limit are dropped
// for the garbage collector.
func (p *Pool) Free(buf []float32) {
	if buf == nil {
		return
	}
	p.stats.Released++

	pool := p.bucket(categorize(cap(buf)))
	if len(*pool) >= maxPoolSize {
		return
	}
	*pool = append(*pool, buf[:cap(buf)])
}

// Clear drops every idle buffer.
func (p *Pool) Clear() {
	clear(p.small)
	clear(p.medium)
	clear(p.large)
	p.small = p.small[:0]
	p.medium = p.medium[:0]
	p.large = p.large[:0]
}

// Stats returns a snapshot of pool usage.
func (p *Pool) Stats() PoolStats {
	s := p.stats
	s.Pooled = len(p.small) + len(p.medium) + len(p.large)
	return s
}

func categorize(n int) sizeClass {
	switch {
	case n < smallThreshold:
		return smallClass
	case n < mediumThreshold:
		return mediumClass
	default:
		return largeClass
	}
}

func (p *Pool) bucket(c sizeClass) *[][]float32 {
	switch c {
	case smallClass:
		return &p.small
	case mediumClass:
		return &p.medium
	default:
		return &p.large
	}
}
