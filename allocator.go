// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringidx

import "code.hybscloud.com/atomix"

// Allocator supplies the slot-state cell array of a [Manager].
//
// Allocate is called exactly once, from the constructor, and must return a
// slice of length n whose cells are zero. Deallocate is called from
// [Manager.Close] with the same slice. Neither is called on any
// acquire/release path.
type Allocator interface {
	Allocate(n int) []atomix.Uint64
	Deallocate(cells []atomix.Uint64)
}

// HeapAllocator allocates cell arrays on the Go heap.
// Deallocate is a no-op; the garbage collector reclaims the array.
type HeapAllocator struct{}

// Allocate returns a fresh zeroed array of n cells.
func (HeapAllocator) Allocate(n int) []atomix.Uint64 {
	return make([]atomix.Uint64, n)
}

// Deallocate does nothing.
func (HeapAllocator) Deallocate([]atomix.Uint64) {}
