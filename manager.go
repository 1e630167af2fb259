// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringidx

import (
	"runtime"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// noCursor is never a valid cursor snapshot: it carries the disabled flag
// and an operation index no manager reaches.
const noCursor = ^uint64(0)

// Manager hands out slot indices of an externally stored ring buffer to any
// number of concurrent producers and consumers, without locks.
//
// A producer reserves a slot with AcquirePushIndex, writes its payload at the
// returned index, and publishes it with ReleasePushIndex. A consumer reserves
// the oldest published slot with AcquirePopIndex, reads the payload, and
// frees the slot with ReleasePopIndex. Manager never touches payloads.
//
// Every successful push advances an operation index. The slot index is
// opIndex % capacity and the generation is opIndex / capacity. Each slot keeps
// its generation next to its state in one word, so a reservation from a
// previous lap cannot be confused with the current one (ABA safety). The
// protection holds as long as no goroutine stalls inside an acquire while
// the cursors wrap the whole operation-index space.
//
// Progress is lock-free, not wait-free: a goroutine that keeps losing CAS
// races retries, but some goroutine always completes.
//
// Memory: 8 bytes per slot, allocated once by the configured [Allocator].
type Manager struct {
	_     pad
	push  atomix.Uint64 // disabledFlag | push operation index
	_     pad
	pop   atomix.Uint64 // pop operation index
	_     pad
	cells []atomix.Uint64

	capacity      uint64
	maxOpIndex    uint64
	maxGeneration uint64 // maxOpIndex / capacity
	rollover      uint64 // (maxOpIndex + 1) % capacity
	allocator     Allocator
}

// NewManager creates a manager of exactly capacity slots using the heap
// allocator and the full operation-index range.
//
// Panics if capacity < 1.
func NewManager(capacity int) *Manager {
	return New(capacity).Build()
}

func newManager(opts Options) *Manager {
	if opts.capacity < 1 {
		panic("ringidx: capacity must be >= 1")
	}
	capacity := uint64(opts.capacity)
	limit := defaultMaxOpIndex(capacity)
	maxOpIndex := opts.maxOpIndex
	if maxOpIndex == 0 {
		maxOpIndex = limit
	}
	if maxOpIndex > limit {
		panic("ringidx: max operation index out of range")
	}
	// Every slot needs at least two generations to tell laps apart.
	if maxOpIndex < 2*capacity-1 {
		panic("ringidx: max operation index too small for capacity")
	}

	allocator := opts.allocator
	if allocator == nil {
		allocator = HeapAllocator{}
	}
	cells := allocator.Allocate(opts.capacity)
	if len(cells) != opts.capacity {
		panic("ringidx: allocator returned wrong cell count")
	}
	for i := range cells {
		cells[i].StoreRelaxed(encodeCell(0, StateEmpty))
	}

	return &Manager{
		cells:         cells,
		capacity:      capacity,
		maxOpIndex:    maxOpIndex,
		maxGeneration: maxOpIndex / capacity,
		rollover:      (maxOpIndex + 1) % capacity,
		allocator:     allocator,
	}
}

// AcquirePushIndex reserves the next slot for writing.
//
// On success the slot has moved EMPTY → WRITING at the returned generation
// and the caller owns its payload until ReleasePushIndex. Returns
// ErrDisabled if pushes are disabled, ErrWouldBlock if the ring is full.
func (m *Manager) AcquirePushIndex() (generation, index uint64, err error) {
	sw := spin.Wait{}
	saved := noCursor
	loaded := m.push.LoadRelaxed()
	for {
		if loaded&disabledFlag != 0 {
			return 0, 0, ErrDisabled
		}

		generation, index = loaded/m.capacity, loaded%m.capacity
		cell := &m.cells[index]
		if cell.CompareAndSwapAcqRel(encodeCell(generation, StateEmpty), encodeCell(generation, StateWriting)) {
			if m.publishPush(loaded) {
				return generation, index, nil
			}
			// Disabled before the cursor moved past our claim.
			kept, cur := m.rollbackPush(loaded)
			if kept {
				return generation, index, nil
			}
			loaded = cur
			continue
		}

		cellGen, state := decodeCell(cell.LoadAcquire())
		switch {
		case cellGen == generation && state == StateEmpty:
			// Released between the CAS and the load; retry the same slot.
			continue

		case cellGen == generation:
			// Another producer claimed this operation index.
			loaded = m.advance(&m.push, loaded)

		case state != StateEmpty && m.nextGeneration(cellGen, index) == generation:
			// The previous lap's occupant is still here: ring full.
			if saved != loaded {
				saved = loaded
				runtime.Gosched()
				loaded = m.push.LoadRelaxed()
				continue
			}
			return 0, 0, ErrWouldBlock

		default:
			// Our view of the cursor is stale.
			sw.Once()
			loaded = m.push.LoadRelaxed()
		}
	}
}

// publishPush moves the push cursor past opIndex after its slot was claimed.
// Reports false if the cursor was disabled while still at opIndex; the
// claim must then be rolled back.
func (m *Manager) publishPush(opIndex uint64) bool {
	next := m.nextOpIndex(opIndex)
	for {
		if m.push.CompareAndSwapAcqRel(opIndex, next) {
			return true
		}
		cur := m.push.LoadAcquire()
		if cur == opIndex|disabledFlag {
			return false
		}
		if cur != opIndex {
			// Another goroutine advanced past us, possibly disabling after.
			return true
		}
	}
}

// rollbackPush undoes a claim at opIndex that lost to Disable and returns
// the cursor to continue from.
//
// Enable may run before the rollback lands, letting another producer see the
// claim and move the cursor past opIndex. The slot is then taken back, and
// kept reports whether that succeeded. It fails only when a producer with the
// same stale view of the cursor claimed the slot first.
func (m *Manager) rollbackPush(opIndex uint64) (kept bool, cursor uint64) {
	generation, index := opIndex/m.capacity, opIndex%m.capacity
	cell := &m.cells[index]
	cell.StoreRelease(encodeCell(generation, StateEmpty))
	cursor = m.push.LoadAcquire()
	if cursor&^disabledFlag == opIndex {
		return false, cursor
	}
	kept = cell.CompareAndSwapAcqRel(encodeCell(generation, StateEmpty), encodeCell(generation, StateWriting))
	return kept, cursor
}

// advance helps move cursor past opIndex after another goroutine claimed
// it. Returns the operation index to try next.
func (m *Manager) advance(cursor *atomix.Uint64, opIndex uint64) uint64 {
	next := m.nextOpIndex(opIndex)
	if cursor.CompareAndSwapAcqRel(opIndex, next) {
		return next
	}
	return cursor.LoadRelaxed()
}

// ReleasePushIndex publishes a slot reserved by AcquirePushIndex, moving it
// WRITING → FULL. Payload writes made before the call are visible to the
// consumer that later reserves the slot.
//
// Panics if (generation, index) is not an outstanding push reservation.
func (m *Manager) ReleasePushIndex(generation, index uint64) {
	cell := m.checkedCell(generation, index, StateWriting)
	cell.StoreRelease(encodeCell(generation, StateFull))
}

// AcquirePopIndex reserves the oldest published slot for reading.
//
// On success the slot has moved FULL → READING and the caller owns its
// payload until ReleasePopIndex. Returns ErrWouldBlock if no slot is
// published. Disable never affects popping.
func (m *Manager) AcquirePopIndex() (generation, index uint64, err error) {
	saved := noCursor
	loaded := m.pop.LoadRelaxed()
	for {
		generation, index = loaded/m.capacity, loaded%m.capacity
		cell := &m.cells[index]
		if cell.CompareAndSwapAcqRel(encodeCell(generation, StateFull), encodeCell(generation, StateReading)) {
			m.IncrementPopIndexFrom(loaded)
			return generation, index, nil
		}

		cellGen, state := decodeCell(cell.LoadAcquire())
		switch {
		case cellGen == generation && state == StateEmpty:
			// Nothing produced at this operation index yet.
			return 0, 0, ErrWouldBlock

		case cellGen == generation && state == StateFull:
			continue

		case cellGen == generation && state == StateWriting,
			state == StateReading && m.nextGeneration(cellGen, index) == generation:
			// A producer is still writing, or the previous lap's consumer
			// has not released: empty from this consumer's view.
			if saved != loaded {
				saved = loaded
				runtime.Gosched()
				loaded = m.pop.LoadRelaxed()
				continue
			}
			return 0, 0, ErrWouldBlock

		default:
			// Claimed by another consumer, or already consumed this lap.
			loaded = m.advance(&m.pop, loaded)
		}
	}
}

// ReleasePopIndex frees a slot reserved by AcquirePopIndex, moving it
// READING → EMPTY at the slot's next generation, where a future
// AcquirePushIndex will find it.
//
// Panics if (generation, index) is not an outstanding pop reservation.
func (m *Manager) ReleasePopIndex(generation, index uint64) {
	cell := m.checkedCell(generation, index, StateReading)
	cell.StoreRelease(encodeCell(m.nextGeneration(generation, index), StateEmpty))
}

// IncrementPopIndexFrom moves the pop cursor from opIndex to the next
// operation index. It is a no-op if the cursor is no longer at opIndex, so
// it is safe to call unconditionally.
func (m *Manager) IncrementPopIndexFrom(opIndex uint64) {
	m.pop.CompareAndSwapAcqRel(opIndex, m.nextOpIndex(opIndex))
}

// AbortPushIndex gives back a push reservation whose payload will never be
// written. The slot becomes EMPTY at its next generation and the pop cursor
// skips it.
//
// Consumers cannot pass a reserved slot, so every element ahead of it must
// have been popped or cleared first (see AcquirePopIndexForClear).
//
// Panics if (generation, index) is not an outstanding push reservation or
// the pop cursor has not reached it.
func (m *Manager) AbortPushIndex(generation, index uint64) {
	cell := m.checkedCell(generation, index, StateWriting)
	opIndex := generation*m.capacity + index
	if m.pop.LoadAcquire() != opIndex {
		panic("ringidx: abort with elements still ahead of the reservation")
	}
	cell.StoreRelease(encodeCell(m.nextGeneration(generation, index), StateEmpty))
	m.IncrementPopIndexFrom(opIndex)
}

// AcquirePopIndexForClear reserves the oldest published slot for disposal,
// unless the pop cursor has reached (endGeneration, endIndex). The caller
// frees each reserved slot with ReleasePopIndex.
//
// It never reserves an index already reserved for popping, and it waits
// out producers still writing ahead of the end position.
//
// Panics if (endGeneration, endIndex) is out of range.
func (m *Manager) AcquirePopIndexForClear(endGeneration, endIndex uint64) (generation, index uint64, ok bool) {
	m.checkRange(endGeneration, endIndex)
	end := endGeneration*m.capacity + endIndex
	sw := spin.Wait{}
	loaded := m.pop.LoadRelaxed()
	for loaded != end {
		generation, index = loaded/m.capacity, loaded%m.capacity
		cell := &m.cells[index]
		if cell.CompareAndSwapAcqRel(encodeCell(generation, StateFull), encodeCell(generation, StateReading)) {
			m.IncrementPopIndexFrom(loaded)
			return generation, index, true
		}

		cellGen, state := decodeCell(cell.LoadAcquire())
		if cellGen == generation && (state == StateEmpty || state == StateWriting) {
			sw.Once()
			loaded = m.pop.LoadRelaxed()
			continue
		}
		loaded = m.advance(&m.pop, loaded)
	}
	return 0, 0, false
}

// Disable makes every later AcquirePushIndex fail with ErrDisabled,
// including ones racing with this call that have not yet published their
// claim. Outstanding reservations are unaffected. Idempotent.
func (m *Manager) Disable() {
	sw := spin.Wait{}
	for {
		cur := m.push.LoadRelaxed()
		if cur&disabledFlag != 0 || m.push.CompareAndSwapAcqRel(cur, cur|disabledFlag) {
			return
		}
		sw.Once()
	}
}

// Enable lets AcquirePushIndex succeed again after Disable. Idempotent.
func (m *Manager) Enable() {
	sw := spin.Wait{}
	for {
		cur := m.push.LoadRelaxed()
		if cur&disabledFlag == 0 || m.push.CompareAndSwapAcqRel(cur, cur&^disabledFlag) {
			return
		}
		sw.Once()
	}
}

// IsEnabled reports whether push reservations are accepted.
func (m *Manager) IsEnabled() bool {
	return m.push.LoadAcquire()&disabledFlag == 0
}

// Len returns a snapshot of the number of reserved or published push slots
// not yet popped. The result is in [0, Cap()] but may be stale by the
// number of operations in flight.
func (m *Manager) Len() int {
	// The push cursor never trails the pop cursor, so the distance is the
	// unsigned difference modulo the operation index range. Loading pop
	// first only lets a racing push overstate it.
	pop := m.pop.LoadAcquire()
	push := m.push.LoadAcquire() &^ disabledFlag
	diff := push - pop
	if push < pop {
		diff += m.maxOpIndex + 1
	}
	return int(min(diff, m.capacity))
}

// Cap returns the number of slots.
func (m *Manager) Cap() int {
	return int(m.capacity)
}

// SlotState returns a snapshot of the generation and state of the slot at
// index. Intended for diagnostics and tests.
func (m *Manager) SlotState(index int) (generation uint64, state State) {
	return decodeCell(m.cells[index].LoadAcquire())
}

// Close returns the cell array to the allocator. No reservation may be
// outstanding and the manager must not be used afterwards.
func (m *Manager) Close() {
	cells := m.cells
	m.cells = nil
	if cells != nil {
		m.allocator.Deallocate(cells)
	}
}

// nextOpIndex returns the operation index after opIndex, wrapping
// maxOpIndex to 0.
func (m *Manager) nextOpIndex(opIndex uint64) uint64 {
	if opIndex >= m.maxOpIndex {
		return 0
	}
	return opIndex + 1
}

// nextGeneration returns the generation slot index holds after generation.
// It wraps to 0 when the slot's next operation index would pass maxOpIndex:
// always from maxGeneration, and from maxGeneration-1 for slots at or past
// the rollover index.
func (m *Manager) nextGeneration(generation, index uint64) uint64 {
	if generation*m.capacity+index > m.maxOpIndex-m.capacity {
		return 0
	}
	return generation + 1
}

// checkRange panics unless (generation, index) names a reachable
// operation index.
func (m *Manager) checkRange(generation, index uint64) {
	if index >= m.capacity || generation > m.maxGeneration ||
		(generation == m.maxGeneration && m.rollover != 0 && index >= m.rollover) {
		panic("ringidx: generation or index out of range")
	}
}

func (m *Manager) checkedCell(generation, index uint64, want State) *atomix.Uint64 {
	m.checkRange(generation, index)
	cell := &m.cells[index]
	if cell.LoadAcquire() != encodeCell(generation, want) {
		panic("ringidx: release without matching " + want.String() + " reservation")
	}
	return cell
}
