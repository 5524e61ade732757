package spsc

import (
	"fmt"
	"sync/atomic"
)

// MaxCapacity bounds the ring size accepted by [New].
const MaxCapacity = 1 << 20

// Queue is a fixed-capacity ring of values of type T.
//
// head and tail are monotonically increasing counters masked into the slot
// array. The producer publishes a slot by storing tail after writing it; the
// consumer releases a slot by storing head after copying it out. Go's atomics
// are sequentially consistent, so no further fencing is needed.
type Queue[T any] struct {
	head atomic.Uint64 // next slot to read, owned by the consumer
	_    [56]byte
	tail atomic.Uint64 // next slot to write, owned by the producer
	_    [56]byte

	dropped atomic.Uint64

	mask  uint64
	slots []T
}

// New returns a queue holding at least capacity values. The capacity is
// rounded up to the next power of two.
func New[T any](capacity int) (*Queue[T], error) {
	if capacity <= 0 || capacity > MaxCapacity {
		return nil, fmt.Errorf("spsc: capacity must be in [1, %d]: %d", MaxCapacity, capacity)
	}

	size := 1
	for size < capacity {
		size <<= 1
	}

	return &Queue[T]{
		mask:  uint64(size - 1),
		slots: make([]T, size),
	}, nil
}

// MustNew is like New but panics on an invalid capacity.
func MustNew[T any](capacity int) *Queue[T] {
	q, err := New[T](capacity)
	if err != nil {
		panic(err)
	}

	return q
}

// Push copies v into the queue. It returns false, and drops v, when the queue
// is full. Producer side only.
func (q *Queue[T]) Push(v T) bool {
	tail := q.tail.Load()
	head := q.head.Load()

	if tail-head > q.mask {
		q.dropped.Add(1)
		return false
	}

	q.slots[tail&q.mask] = v
	q.tail.Store(tail + 1)

	return true
}

// Pop removes the oldest value. ok is false when the queue is empty.
// Consumer side only.
func (q *Queue[T]) Pop() (v T, ok bool) {
	head := q.head.Load()
	tail := q.tail.Load()

	if head == tail {
		return v, false
	}

	idx := head & q.mask
	v = q.slots[idx]

	var zero T
	q.slots[idx] = zero

	q.head.Store(head + 1)

	return v, true
}

// Len returns the number of queued values. The result is a snapshot and may
// be stale by the time it is used from the other side.
func (q *Queue[T]) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// Cap returns the number of slots.
func (q *Queue[T]) Cap() int {
	return len(q.slots)
}

// Dropped returns how many pushes failed because the queue was full.
func (q *Queue[T]) Dropped() uint64 {
	return q.dropped.Load()
}
