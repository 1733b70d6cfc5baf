// Package atomicx provides lock-free float64 primitives on top of
// sync/atomic, storing IEEE-754 bit patterns in atomic.Uint64 and retrying
// read-modify-write operations with compare-and-swap loops.
//
// Both clustering engines mutate shared per-cluster aggregates (vector sums,
// in-cluster distance totals) from multiple workers without a global lock;
// these types carry that state.
package atomicx

import (
	"math"
	"sync/atomic"
)

// Float64 is an atomic float64.
type Float64 struct {
	bits atomic.Uint64
}

// Load returns the current value.
func (f *Float64) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Store sets the value.
func (f *Float64) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Add atomically adds delta and returns the new value.
func (f *Float64) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// CompareAndSwap executes the compare-and-swap operation on the value.
// NaN never compares equal bit-wise to a freshly computed NaN; callers must
// not rely on CAS with NaN operands.
func (f *Float64) CompareAndSwap(old, new float64) bool {
	return f.bits.CompareAndSwap(math.Float64bits(old), math.Float64bits(new))
}

// Max atomically raises the value to v if v is greater. It returns the value
// observed after the operation.
func (f *Float64) Max(v float64) float64 {
	for {
		old := f.bits.Load()
		cur := math.Float64frombits(old)
		if v <= cur {
			return cur
		}
		if f.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return v
		}
	}
}

// Float64Slice is a fixed-length slice of atomic float64s.
type Float64Slice struct {
	vals []Float64
}

// NewFloat64Slice returns a zeroed slice of length n.
func NewFloat64Slice(n int) *Float64Slice {
	return &Float64Slice{vals: make([]Float64, n)}
}

// Len returns the slice length.
func (s *Float64Slice) Len() int { return len(s.vals) }

// Load returns element i.
func (s *Float64Slice) Load(i int) float64 { return s.vals[i].Load() }

// Store sets element i.
func (s *Float64Slice) Store(i int, v float64) { s.vals[i].Store(v) }

// Add atomically adds delta to element i and returns the new value.
func (s *Float64Slice) Add(i int, delta float64) float64 { return s.vals[i].Add(delta) }

// Max atomically raises element i to v if v is greater.
func (s *Float64Slice) Max(i int, v float64) float64 { return s.vals[i].Max(v) }
