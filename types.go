// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringidx

// Indexer is the reservation protocol a payload ring drives. [Manager]
// implements it.
//
// The caller owns payload storage. Between a successful acquire and the
// matching release it has exclusive access to the slot at the returned
// index.
type Indexer interface {
	// AcquirePushIndex reserves a slot for writing.
	// Returns ErrWouldBlock if full, ErrDisabled if disabled.
	AcquirePushIndex() (generation, index uint64, err error)

	// ReleasePushIndex publishes a slot reserved for writing.
	ReleasePushIndex(generation, index uint64)

	// AcquirePopIndex reserves the oldest published slot for reading.
	// Returns ErrWouldBlock if empty.
	AcquirePopIndex() (generation, index uint64, err error)

	// ReleasePopIndex frees a slot reserved for reading.
	ReleasePopIndex(generation, index uint64)

	Len() int
	Cap() int
}

// Queue is the combined producer-consumer interface of a payload ring.
//
// Example:
//
//	q := ringidx.NewFixedQueue[int](1024)
//
//	// Enqueue
//	val := 42
//	if err := q.Enqueue(&val); err != nil {
//	    // Handle full or disabled queue
//	}
//
//	// Dequeue
//	elem, err := q.Dequeue()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	Len() int
	Cap() int
}

// Producer is the interface for enqueueing elements.
//
// The element is passed by pointer to avoid copying large structs. The queue
// stores a copy of the pointed-to value, so the original can be modified
// after Enqueue returns.
type Producer[T any] interface {
	// Enqueue adds an element to the queue (non-blocking).
	// Returns nil on success, ErrWouldBlock if the queue is full, or
	// ErrDisabled if the queue no longer accepts elements.
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
//
// The element is returned by value. The slot is cleared to allow garbage
// collection of referenced objects.
type Consumer[T any] interface {
	// Dequeue removes and returns the oldest element (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Dequeue() (T, error)
}
