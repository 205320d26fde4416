// Package ring provides a fixed-capacity FIFO buffer used for rolling
// chart windows and the event log.
package ring

import "fmt"

// Buffer holds at most Cap items. Pushing onto a full buffer evicts the
// oldest item. A Buffer is not safe for concurrent use; owners guard it.
type Buffer[T any] struct {
	items []T
	head  int // index of the oldest item
	size  int
}

// New returns an empty buffer. It panics if capacity is below 1.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		panic(fmt.Sprintf("ring: capacity must be >= 1, got %d", capacity))
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

func (b *Buffer[T]) Push(item T) {
	capacity := len(b.items)
	if b.size < capacity {
		b.items[(b.head+b.size)%capacity] = item
		b.size++
		return
	}

	b.items[b.head] = item
	b.head = (b.head + 1) % capacity
}

func (b *Buffer[T]) Len() int { return b.size }

func (b *Buffer[T]) Cap() int { return len(b.items) }

// Slice returns a copy of the contents, oldest first.
func (b *Buffer[T]) Slice() []T {
	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.head+i)%len(b.items)]
	}
	return out
}

// Reversed returns a copy of the contents, newest first.
func (b *Buffer[T]) Reversed() []T {
	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[b.size-1-i] = b.items[(b.head+i)%len(b.items)]
	}
	return out
}
