package buffer

import "sync"

// Pool hands out buffers against a fixed byte budget, standing in for the
// transport's DMA-able memory.
type Pool struct {
	mu     sync.Mutex
	budget int
	inUse  int
	live   int
	allocs uint64
	frees  uint64
}

// Stats is a snapshot of pool accounting.
type Stats struct {
	Budget      int
	InUse       int
	Outstanding int
	Allocs      uint64
	Frees       uint64
}

// NewPool returns a pool with budget bytes available.
func NewPool(budget int) *Pool {
	if budget < 0 {
		budget = 0
	}
	return &Pool{budget: budget}
}

// Alloc returns a zeroed buffer of exactly n bytes, or false when the budget
// cannot cover it.
func (p *Pool) Alloc(n int) (*Buffer, bool) {
	if n < 0 {
		return nil, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if n > p.budget-p.inUse {
		return nil, false
	}
	p.inUse += n
	p.live++
	p.allocs++

	return &Buffer{b: make([]byte, n), pool: p}, true
}

func (p *Pool) put(b *Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.inUse -= len(b.b)
	p.live--
	p.frees++
}

// Free is the number of bytes still available.
func (p *Pool) Free() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.budget - p.inUse
}

// Outstanding is the number of buffers not yet returned.
func (p *Pool) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Budget:      p.budget,
		InUse:       p.inUse,
		Outstanding: p.live,
		Allocs:      p.allocs,
		Frees:       p.frees,
	}
}
