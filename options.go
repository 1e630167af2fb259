// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringidx

import "golang.org/x/sys/cpu"

// Options configures manager creation.
type Options struct {
	capacity   int
	maxOpIndex uint64 // 0 selects defaultMaxOpIndex(capacity)
	allocator  Allocator
}

// Builder creates managers and queues with fluent configuration.
//
// Example:
//
//	// Default heap allocator, full operation-index range
//	m := ringidx.New(1024).Build()
//
//	// Caller-supplied cell allocator
//	m := ringidx.New(1024).Allocator(arena).Build()
//
//	// Payload queue over the same configuration
//	q := ringidx.BuildQueue[Event](ringidx.New(1024))
type Builder struct {
	opts Options
}

// New creates a builder for a manager of exactly capacity slots.
// Unlike power-of-2 rings, capacity is used as given.
//
// Panics if capacity < 1.
func New(capacity int) *Builder {
	if capacity < 1 {
		panic("ringidx: capacity must be >= 1")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// Allocator sets the allocator that supplies the slot-state cells.
// A nil allocator selects [HeapAllocator].
func (b *Builder) Allocator(a Allocator) *Builder {
	b.opts.allocator = a
	return b
}

// MaxOpIndex lowers the largest operation index the cursors reach before
// wrapping to 0. The default is 2^63-1 (2^62-1 for capacity 1).
//
// Lowering it makes generation wraparound reachable in tests. Build panics
// unless 2*capacity-1 <= n and n does not exceed the default.
func (b *Builder) MaxOpIndex(n uint64) *Builder {
	b.opts.maxOpIndex = n
	return b
}

// Build creates the configured [Manager].
func (b *Builder) Build() *Manager {
	return newManager(b.opts)
}

// BuildQueue creates a [FixedQueue] whose indices come from the configured
// manager.
func BuildQueue[T any](b *Builder) *FixedQueue[T] {
	return &FixedQueue[T]{
		m:      newManager(b.opts),
		buffer: make([]T, b.opts.capacity),
	}
}

// defaultMaxOpIndex returns the largest operation index whose generation
// still fits in a cell. Only capacity 1 needs clamping below 2^63-1.
func defaultMaxOpIndex(capacity uint64) uint64 {
	if capacity > maxCursorOpIndex/maxCellGen {
		return maxCursorOpIndex
	}
	return (maxCellGen+1)*capacity - 1
}

// NumRepresentableGenerations returns how many generations a slot of a
// capacity-sized manager cycles through before its generation wraps to 0,
// using the default operation-index range.
//
// Panics if capacity < 1.
func NumRepresentableGenerations(capacity int) uint64 {
	if capacity < 1 {
		panic("ringidx: capacity must be >= 1")
	}
	return defaultMaxOpIndex(uint64(capacity))/uint64(capacity) + 1
}

// CircularDifference returns minuend-subtrahend as the signed shortest
// distance in a circular number space of size modulo. A positive result
// means minuend is ahead of subtrahend.
//
// For example CircularDifference(0, 359, 360) == 1 and
// CircularDifference(359, 0, 360) == -1. When both directions are equally
// short the plain difference is returned: CircularDifference(180, 0, 360)
// == 180 and CircularDifference(0, 180, 360) == -180.
//
// Both operands must be below modulo, and modulo must not exceed 2^63.
func CircularDifference(minuend, subtrahend, modulo uint64) int64 {
	diff := int64(minuend - subtrahend)
	half := int64(modulo / 2)
	switch {
	case diff > half:
		return int64(uint64(diff) - modulo)
	case diff < -half:
		return int64(uint64(diff) + modulo)
	}
	return diff
}

// pad separates hot cursor words onto their own cache lines.
type pad = cpu.CacheLinePad
