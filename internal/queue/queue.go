// Package queue provides a slice-backed FIFO queue used to buffer gaze
// events and other link data between a producer and a polling consumer.
package queue

// FIFO is a slice-backed first-in first-out queue.
//
// The zero value is ready to use. FIFO is not safe for concurrent use;
// callers that share a queue between goroutines must provide their own
// locking.
type FIFO[T any] struct {
	items []T
}

// NewFIFO creates an empty FIFO queue.
func NewFIFO[T any]() *FIFO[T] {
	return &FIFO[T]{}
}

// Enqueue adds an item to the tail of the queue.
func (q *FIFO[T]) Enqueue(item T) {
	q.items = append(q.items, item)
}

// Dequeue removes and returns the item at the head of the queue.
// It returns the zero value and false if the queue is empty.
func (q *FIFO[T]) Dequeue() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}

	item := q.items[0]
	q.items[0] = zero // release the reference for the garbage collector
	q.items = q.items[1:]

	if len(q.items) == 0 {
		q.items = nil
	}

	return item, true
}

// Peek returns the item at the head of the queue without removing it.
// It returns the zero value and false if the queue is empty.
func (q *FIFO[T]) Peek() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}

	return q.items[0], true
}

// Len returns the number of items in the queue.
func (q *FIFO[T]) Len() int {
	return len(q.items)
}

// Reset removes all items from the queue.
func (q *FIFO[T]) Reset() {
	q.items = nil
}
