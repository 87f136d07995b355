package spatial

import (
	"fmt"
	"iter"
	"math"

	"github.com/google/btree"
)

// BestK is a priority container bounded to a fixed capacity that keeps the
// entries with the lowest priorities seen so far. Lower is better: k-NN
// queries enqueue candidates with their distance as priority.
//
// When the container is full, a new entry is kept only if its priority is
// strictly lower than the current worst, which is then evicted. Entries
// with equal priority keep their enqueue order.
type BestK[T any] struct {
	capacity int
	seq      uint64
	entries  *btree.BTreeG[bestKEntry[T]]
}

type bestKEntry[T any] struct {
	value    T
	priority float64
	seq      uint64
}

func bestKLess[T any](a, b bestKEntry[T]) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

// bestKDegree is the btree node degree; k-NN capacities are small, so a
// low degree keeps nodes compact.
const bestKDegree = 8

// NewBestK returns an empty BestK holding at most capacity entries.
func NewBestK[T any](capacity int) (*BestK[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: BestK capacity must be >= 1, got %d", ErrInvalidArgument, capacity)
	}
	return newBestK[T](capacity), nil
}

// newBestK skips validation; a zero capacity yields a container that
// rejects everything.
func newBestK[T any](capacity int) *BestK[T] {
	return &BestK[T]{
		capacity: capacity,
		entries:  btree.NewG(bestKDegree, bestKLess[T]),
	}
}

// Enqueue offers value with the given priority and reports whether it was
// kept. NaN priorities are never kept.
func (q *BestK[T]) Enqueue(value T, priority float64) bool {
	if math.IsNaN(priority) {
		return false
	}
	if q.entries.Len() >= q.capacity {
		worst, ok := q.entries.Max()
		if !ok || priority >= worst.priority {
			return false
		}
		q.entries.DeleteMax()
	}
	q.seq++
	q.entries.ReplaceOrInsert(bestKEntry[T]{value: value, priority: priority, seq: q.seq})
	return true
}

// Dequeue removes and returns the entry with the lowest priority.
func (q *BestK[T]) Dequeue() (T, error) {
	e, ok := q.entries.DeleteMin()
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: dequeue from empty BestK", ErrEmpty)
	}
	return e.value, nil
}

// First returns the lowest-priority value without removing it.
func (q *BestK[T]) First() (T, bool) {
	e, ok := q.entries.Min()
	return e.value, ok
}

// Last returns the highest-priority value without removing it.
func (q *BestK[T]) Last() (T, bool) {
	e, ok := q.entries.Max()
	return e.value, ok
}

// FirstPriority returns the lowest priority held.
func (q *BestK[T]) FirstPriority() (float64, bool) {
	e, ok := q.entries.Min()
	return e.priority, ok
}

// LastPriority returns the highest priority held. Once the container is
// full this is the bound a candidate must beat to be kept.
func (q *BestK[T]) LastPriority() (float64, bool) {
	e, ok := q.entries.Max()
	return e.priority, ok
}

// Len returns the number of retained elements.
func (q *BestK[T]) Len() int { return q.entries.Len() }

// Cap returns the maximum number of elements retained.
func (q *BestK[T]) Cap() int { return q.capacity }

// IsEmpty reports whether no element is retained.
func (q *BestK[T]) IsEmpty() bool { return q.entries.Len() == 0 }

// Full reports whether Len has reached Cap. From then on an Enqueue only
// succeeds if it beats the current worst priority.
func (q *BestK[T]) Full() bool { return q.entries.Len() >= q.capacity }

// All yields the stored values with their priorities in ascending priority
// order. Iterating does not modify the container and may be repeated.
func (q *BestK[T]) All() iter.Seq2[T, float64] {
	return func(yield func(T, float64) bool) {
		q.entries.Ascend(func(e bestKEntry[T]) bool {
			return yield(e.value, e.priority)
		})
	}
}

// Values returns the stored values in ascending priority order.
func (q *BestK[T]) Values() []T {
	out := make([]T, 0, q.entries.Len())
	for v := range q.All() {
		out = append(out, v)
	}
	return out
}
