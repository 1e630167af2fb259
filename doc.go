// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ringidx provides a lock-free index manager for fixed-capacity
// ring buffers with multiple producers and multiple consumers.
//
// A [Manager] does not store elements. It decides which slot of a
// caller-owned array each producer may write and each consumer may read,
// and publishes the hand-off between them with acquire/release atomics:
//
//	m := ringidx.NewManager(1024)
//	values := make([]Event, m.Cap())
//
//	// Producer
//	gen, idx, err := m.AcquirePushIndex()
//	if err == nil {
//	    values[idx] = ev
//	    m.ReleasePushIndex(gen, idx)
//	}
//
//	// Consumer
//	gen, idx, err := m.AcquirePopIndex()
//	if err == nil {
//	    ev := values[idx]
//	    m.ReleasePopIndex(gen, idx)
//	}
//
// [FixedQueue] packages exactly this pattern as a bounded MPMC queue:
//
//	q := ringidx.NewFixedQueue[Event](1024)
//	err := q.Enqueue(&ev)
//	ev, err := q.Dequeue()
//
// # Slot State Machine
//
// Each slot holds one word packing a 2-bit state and a generation:
//
//	EMPTY(g) → WRITING(g) → FULL(g) → READING(g) → EMPTY(g+1)
//
// Only the goroutine that wins the CAS into WRITING or READING may touch the
// payload. The push and pop cursors count operation indices; index is
// opIndex % capacity and generation is opIndex / capacity. When a cursor
// passes its maximum operation index it wraps to 0, and slot generations
// wrap with it.
//
// # Capacity
//
// Capacity is used exactly as given (no power-of-2 rounding). Any
// capacity >= 1 works:
//
//	m := ringidx.NewManager(3)  // Cap() == 3
//
// [Manager.Len] is a snapshot that may be stale by the operations in
// flight; it never leaves [0, Cap()].
//
// # Error Handling
//
// Reservations return [ErrWouldBlock] when the ring is full (push) or empty
// (pop), and [ErrDisabled] when pushes are disabled. Neither is a failure:
//
//	backoff := iox.Backoff{}
//	for {
//	    gen, idx, err := m.AcquirePushIndex()
//	    if err == nil {
//	        backoff.Reset()
//	        values[idx] = ev
//	        m.ReleasePushIndex(gen, idx)
//	        break
//	    }
//	    if ringidx.IsDisabled(err) {
//	        return err // shutting down
//	    }
//	    backoff.Wait()
//	}
//
// Contract violations (bad capacity, releasing an index that was not
// acquired, aborting out of order) panic.
//
// # Graceful Shutdown
//
// Disable refuses new push reservations, including ones racing with the
// call. Reservations made before it can still be released, and popping is
// never disabled, so a shutdown is:
//
//	m.Disable()
//	for m.Len() > 0 {
//	    // pop and process
//	}
//
// [FixedQueue.Drain] does this for queues.
//
// # Progress
//
// No operation blocks, parks, or takes a lock. A reservation that loses a
// CAS race retries. One that finds the ring full or empty yields once with
// [runtime.Gosched] and looks again. It returns [ErrWouldBlock] only when
// the cursor has not moved between the two looks. This bounds the retries
// of a single call, but it is a heuristic. The guarantee is lock-freedom:
// some goroutine always completes, while an individual goroutine can in
// principle be starved.
//
// # Race Detection
//
// Payload writes in [FixedQueue] are ordered by atomix acquire/release
// operations on a different word than the payload. The race detector may
// not observe that ordering, so payload stress tests are skipped when
// [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives with
// explicit memory ordering, [code.hybscloud.com/spin] for CPU pause
// instructions, [code.hybscloud.com/iox] for semantic errors, and
// [golang.org/x/sys/cpu] for cache line padding.
package ringidx
