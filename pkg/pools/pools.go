// Package pools provides object pooling for reducing GC pressure.
//
// Detection decodes every genome of every generation through fresh
// union-find scratch arrays, so those short-lived allocations dominate
// the garbage produced by a sweep. IntPool recycles them across decodes
// and across the workers sharing a process.
package pools

import (
	"sync"
)

// MaxPooledCap bounds the slices the pool keeps. Anything larger goes
// back to the collector.
const MaxPooledCap = 1 << 20

// IntPool pools int slices used as fixed-size working memory.
type IntPool struct {
	pool sync.Pool
}

// NewIntPool creates a new int slice pool.
func NewIntPool() *IntPool {
	return &IntPool{
		pool: sync.Pool{
			New: func() any {
				s := make([]int, 0, 256)
				return &s
			},
		},
	}
}

// Get returns an int slice of length n. Contents are not zeroed.
func (p *IntPool) Get(n int) []int {
	sp, ok := p.pool.Get().(*[]int)
	if !ok || cap(*sp) < n {
		return make([]int, n)
	}
	return (*sp)[:n]
}

// Put returns an int slice to the pool.
func (p *IntPool) Put(s []int) {
	if cap(s) > MaxPooledCap {
		return
	}
	s = s[:0]
	p.pool.Put(&s)
}

// Default global int pool
var defaultIntPool = NewIntPool()

// GetInts returns an int slice of length n from the default pool.
func GetInts(n int) []int {
	return defaultIntPool.Get(n)
}

// PutInts returns an int slice to the default pool.
func PutInts(s []int) {
	defaultIntPool.Put(s)
}
