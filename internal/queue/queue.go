// Package queue implements generic FIFO queue on a ring buffer.
package queue

const minSize = 4

// Queue is a FIFO queue, zero value is not usable, see New.
type Queue[T any] struct {
	items []T
	head  int
	count int
}

// New creates a queue containing items.
func New[T any](items ...T) *Queue[T] {
	size := minSize
	for size < len(items) {
		size <<= 1
	}

	q := &Queue[T]{items: make([]T, size), count: len(items)}
	copy(q.items, items)
	return q
}

func (q *Queue[T]) IsEmpty() bool {
	return q.count == 0
}

func (q *Queue[T]) Len() int {
	return q.count
}

// Items returns queued items, first one first.
func (q *Queue[T]) Items() []T {
	res := make([]T, q.count)
	n := copy(res, q.items[q.head:])
	if n < q.count {
		copy(res[n:], q.items)
	}
	return res
}

// Append adds item to the tail.
func (q *Queue[T]) Append(item T) *Queue[T] {
	if q.count == len(q.items) {
		q.grow()
	}

	q.items[(q.head+q.count)&(len(q.items)-1)] = item
	q.count++
	return q
}

// First removes and returns the head item, false if the queue is empty.
func (q *Queue[T]) First() (T, bool) {
	var zero T
	if q.count == 0 {
		return zero, false
	}

	res := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) & (len(q.items) - 1)
	q.count--
	return res, true
}

func (q *Queue[T]) grow() {
	items := q.Items()
	q.items = make([]T, len(q.items)<<1)
	copy(q.items, items)
	q.head = 0
}
