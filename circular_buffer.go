package circular_buffer_go

import (
	"fmt"
	"iter"
)

// CircularBuffer is a fixed-capacity ring of elements addressed by logical
// position. Position 0 is the oldest live element.
//
// The zero value has no capacity: it reports Size() == 0, rejects PushBack
// with ErrFull and becomes usable after Resize. Use NewCircularBuffer.
type CircularBuffer[T any] struct {
	data []T

	head int // Physical index of the oldest element
	tail int // Physical index of the next write

	full bool // Disambiguates head == tail
	safe bool
}

// NewCircularBuffer allocates a buffer holding at most capacity elements.
func NewCircularBuffer[T any](capacity int) (*CircularBuffer[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	return &CircularBuffer[T]{
		data: make([]T, capacity),
	}, nil
}

func (buffer *CircularBuffer[T]) cap() int {
	return len(buffer.data)
}

// Maps a logical position to its slot in data.
func (buffer *CircularBuffer[T]) physical(position int) int {
	return (buffer.head + position) % buffer.cap()
}

func (buffer *CircularBuffer[T]) advance(index int, n int) int {
	return (index + n) % buffer.cap()
}

// Only meaningful right after a write: head == tail then means full, never empty.
func (buffer *CircularBuffer[T]) updateFull() {
	buffer.full = buffer.head == buffer.tail
}

func (buffer *CircularBuffer[T]) checkIndex(i int) {
	if size := buffer.Size(); i < 0 || i >= size {
		panic(fmt.Errorf("%w: index %d, size %d", ErrOutOfRange, i, size))
	}
}

// Writes value at tail, evicting the oldest element when full.
func (buffer *CircularBuffer[T]) overwrite(value T) (evicted bool) {
	evicted = buffer.full

	buffer.data[buffer.tail] = value
	if evicted {
		buffer.head = buffer.advance(buffer.head, 1)
	}
	buffer.tail = buffer.advance(buffer.tail, 1)
	buffer.updateFull()

	return evicted
}

// Copies len(dst) live elements starting at the logical position into dst.
func (buffer *CircularBuffer[T]) copyOut(dst []T, position int) int {
	n := len(dst)
	if n == 0 {
		return 0
	}

	start := buffer.physical(position)
	if start+n <= buffer.cap() {
		return copy(dst, buffer.data[start:start+n])
	}

	a := copy(dst, buffer.data[start:])
	b := copy(dst[a:], buffer.data[:n-a])

	return a + b
}

// Copies src into the slots starting at the physical index, wrapping once.
func (buffer *CircularBuffer[T]) copyIn(start int, src []T) {
	firstPart := buffer.cap() - start
	if len(src) <= firstPart {
		copy(buffer.data[start:], src)
		return
	}

	copy(buffer.data[start:], src[:firstPart])
	copy(buffer.data, src[firstPart:])
}

// Size returns the number of live elements.
func (buffer *CircularBuffer[T]) Size() int {
	cap := buffer.cap()

	if buffer.full {
		return cap
	}

	if cap == 0 {
		return 0
	}

	return (buffer.tail - buffer.head + cap) % cap
}

// Capacity returns the maximum number of live elements.
func (buffer *CircularBuffer[T]) Capacity() int {
	return buffer.cap()
}

func (buffer *CircularBuffer[T]) Empty() bool {
	return !buffer.full && buffer.head == buffer.tail
}

func (buffer *CircularBuffer[T]) IsSafe() bool {
	return buffer.safe
}

// SetSafe toggles safe mode. In safe mode PushBack on a full buffer returns
// ErrFull instead of overwriting the oldest element.
func (buffer *CircularBuffer[T]) SetSafe(safe bool) {
	buffer.safe = safe
}

// PushBack appends value as the newest element. O(1), never allocates.
func (buffer *CircularBuffer[T]) PushBack(value T) error {
	if buffer.cap() == 0 || (buffer.safe && buffer.full) {
		return ErrFull
	}

	buffer.overwrite(value)

	return nil
}

// PopFront removes and returns the oldest element.
func (buffer *CircularBuffer[T]) PopFront() (T, error) {
	if buffer.Empty() {
		var zero T
		return zero, ErrEmpty
	}

	value := buffer.data[buffer.head]
	buffer.head = buffer.advance(buffer.head, 1)
	buffer.full = false

	return value, nil
}

// At returns the element at logical position i. It panics when i is outside
// [0, Size()).
func (buffer *CircularBuffer[T]) At(i int) T {
	buffer.checkIndex(i)

	return buffer.data[buffer.physical(i)]
}

// Ptr returns a pointer to the slot holding logical position i. The pointer
// stays valid until the next Resize or Move.
func (buffer *CircularBuffer[T]) Ptr(i int) *T {
	buffer.checkIndex(i)

	return &buffer.data[buffer.physical(i)]
}

func (buffer *CircularBuffer[T]) Set(i int, value T) {
	buffer.checkIndex(i)

	buffer.data[buffer.physical(i)] = value
}

// Swap exchanges the elements at logical positions i and j.
func (buffer *CircularBuffer[T]) Swap(i, j int) {
	buffer.checkIndex(i)
	buffer.checkIndex(j)

	a, b := buffer.physical(i), buffer.physical(j)
	buffer.data[a], buffer.data[b] = buffer.data[b], buffer.data[a]
}

// InsertBack appends values in order, overwriting the oldest elements as
// needed regardless of safe mode. It returns how many of the given values
// aged out of the capacity window before the call returned:
// max(0, len(values)-Capacity()). Evicted pre-existing elements are not
// counted.
//
// At most two copies are made; only the last Capacity() values are touched.
func (buffer *CircularBuffer[T]) InsertBack(values ...T) int {
	n := len(values)
	if n == 0 {
		return 0
	}

	cap := buffer.cap()
	if cap == 0 {
		return n
	}

	size := buffer.Size()
	dropped := max(0, n-cap)

	if n >= cap {
		copy(buffer.data, values[n-cap:])

		buffer.head = 0
		buffer.tail = 0
		buffer.full = true

		return dropped
	}

	buffer.copyIn(buffer.tail, values)
	buffer.tail = buffer.advance(buffer.tail, n)

	if size+n >= cap {
		buffer.head = buffer.tail
		buffer.full = true
	}

	return dropped
}

// InsertBackSeq is InsertBack for sources of unknown length. Elements are
// consumed one at a time; the result is the same as InsertBack with the
// collected sequence.
func (buffer *CircularBuffer[T]) InsertBackSeq(seq iter.Seq[T]) int {
	total := 0

	for value := range seq {
		total++

		if buffer.cap() == 0 {
			continue
		}

		buffer.overwrite(value)
	}

	return max(0, total-buffer.cap())
}

// Replace overwrites the logical window [position, position+len(values)).
// Size is unchanged. It returns ErrOutOfRange, without writing anything, when
// the window does not fit inside the live elements.
func (buffer *CircularBuffer[T]) Replace(position int, values ...T) error {
	n := len(values)
	size := buffer.Size()

	if position < 0 || n > size-position {
		return fmt.Errorf("%w: window [%d, %d) with size %d", ErrOutOfRange, position, position+n, size)
	}

	if n == 0 {
		return nil
	}

	buffer.copyIn(buffer.physical(position), values)

	return nil
}

// Clear drops all live elements. Backing storage is left as-is.
func (buffer *CircularBuffer[T]) Clear() {
	buffer.head = 0
	buffer.tail = 0
	buffer.full = false
}

// Resize reallocates the backing storage with the given capacity, keeping the
// newest min(capacity, Size()) elements in order. O(capacity).
func (buffer *CircularBuffer[T]) Resize(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	size := buffer.Size()
	keep := min(capacity, size)

	data := make([]T, capacity)
	buffer.copyOut(data[:keep], size-keep)

	buffer.data = data
	buffer.head = 0
	buffer.tail = keep % capacity
	buffer.full = keep == capacity

	return nil
}

// Snapshot returns a copy of the live elements, oldest first.
func (buffer *CircularBuffer[T]) Snapshot() []T {
	out := make([]T, buffer.Size())
	buffer.copyOut(out, 0)

	return out
}

// All yields logical positions and elements, oldest first.
func (buffer *CircularBuffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		size := buffer.Size()

		for i := 0; i < size; i++ {
			if !yield(i, buffer.At(i)) {
				return
			}
		}
	}
}

// Backward yields logical positions and elements, newest first.
func (buffer *CircularBuffer[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := buffer.Size() - 1; i >= 0; i-- {
			if !yield(i, buffer.At(i)) {
				return
			}
		}
	}
}

// Clone returns a buffer with its own copy of the backing storage, including
// slots outside the live window, and the same head, tail and safe mode.
func (buffer *CircularBuffer[T]) Clone() *CircularBuffer[T] {
	data := make([]T, len(buffer.data))
	copy(data, buffer.data)

	return &CircularBuffer[T]{
		data: data,
		head: buffer.head,
		tail: buffer.tail,
		full: buffer.full,
		safe: buffer.safe,
	}
}

// Move transfers the backing storage and state to a new buffer and leaves the
// receiver empty with zero capacity. Cursors taken from the receiver must not
// be used afterwards.
func (buffer *CircularBuffer[T]) Move() *CircularBuffer[T] {
	moved := &CircularBuffer[T]{
		data: buffer.data,
		head: buffer.head,
		tail: buffer.tail,
		full: buffer.full,
		safe: buffer.safe,
	}

	*buffer = CircularBuffer[T]{}

	return moved
}
