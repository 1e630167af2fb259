// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringidx

import "code.hybscloud.com/iox"

// FixedQueue is a bounded multi-producer multi-consumer FIFO queue whose
// slot indices come from a [Manager].
//
// The payload array has exactly Cap() elements. Each element is written
// only between a successful AcquirePushIndex and its ReleasePushIndex, and
// read only between AcquirePopIndex and ReleasePopIndex, so the index
// manager's acquire/release edges order every payload access.
type FixedQueue[T any] struct {
	m      *Manager
	buffer []T
}

var (
	_ Indexer    = (*Manager)(nil)
	_ Queue[int] = (*FixedQueue[int])(nil)
)

// NewFixedQueue creates a queue holding up to capacity elements.
//
// Panics if capacity < 1.
func NewFixedQueue[T any](capacity int) *FixedQueue[T] {
	return BuildQueue[T](New(capacity))
}

// Enqueue copies *elem into the queue.
// Returns ErrWouldBlock if the queue is full, ErrDisabled if disabled.
func (q *FixedQueue[T]) Enqueue(elem *T) error {
	generation, index, err := q.m.AcquirePushIndex()
	if err != nil {
		return err
	}
	q.buffer[index] = *elem
	q.m.ReleasePushIndex(generation, index)
	return nil
}

// EnqueueFunc reserves a slot and lets fill write the element in place.
//
// If fill returns an error the reservation cannot be published. Consumers
// are unable to pass an unpublished slot, so every element queued ahead of
// it is discarded, the reservation is given back, and fill's error is
// returned. This mirrors a fixed queue whose element copy failed part way.
func (q *FixedQueue[T]) EnqueueFunc(fill func(elem *T) error) error {
	generation, index, err := q.m.AcquirePushIndex()
	if err != nil {
		return err
	}
	if err := fill(&q.buffer[index]); err != nil {
		q.abort(generation, index)
		return err
	}
	q.m.ReleasePushIndex(generation, index)
	return nil
}

func (q *FixedQueue[T]) abort(generation, index uint64) {
	var zero T
	q.buffer[index] = zero
	for {
		g, i, ok := q.m.AcquirePopIndexForClear(generation, index)
		if !ok {
			break
		}
		q.buffer[i] = zero
		q.m.ReleasePopIndex(g, i)
	}
	q.m.AbortPushIndex(generation, index)
}

// Dequeue removes and returns the oldest element.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *FixedQueue[T]) Dequeue() (T, error) {
	generation, index, err := q.m.AcquirePopIndex()
	if err != nil {
		var zero T
		return zero, err
	}
	elem := q.buffer[index]
	var zero T
	q.buffer[index] = zero
	q.m.ReleasePopIndex(generation, index)
	return elem, nil
}

// Drain disables the queue and hands every remaining element to fn in FIFO
// order. It returns once no element is queued or reserved, waiting with
// [iox.Backoff] for producers that reserved a slot before Disable.
// It returns the number of elements handed to fn.
func (q *FixedQueue[T]) Drain(fn func(elem T)) int {
	q.m.Disable()
	n := 0
	backoff := iox.Backoff{}
	for q.m.Len() > 0 {
		elem, err := q.Dequeue()
		if err != nil {
			backoff.Wait()
			continue
		}
		backoff.Reset()
		fn(elem)
		n++
	}
	return n
}

// Disable makes Enqueue fail with ErrDisabled. Queued elements can still be
// dequeued.
func (q *FixedQueue[T]) Disable() { q.m.Disable() }

// Enable lets Enqueue succeed again.
func (q *FixedQueue[T]) Enable() { q.m.Enable() }

// IsEnabled reports whether Enqueue accepts elements.
func (q *FixedQueue[T]) IsEnabled() bool { return q.m.IsEnabled() }

// Len returns a snapshot of the number of queued elements.
func (q *FixedQueue[T]) Len() int { return q.m.Len() }

// Cap returns the queue capacity.
func (q *FixedQueue[T]) Cap() int { return q.m.Cap() }
