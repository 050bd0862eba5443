package circular_buffer_go

import (
	"context"
	"errors"
	"io"
	"iter"
)

// CircularBufferInterface defines the public API of the ring store.
//
// Logical positions run from 0 (oldest live element) to Size()-1 (newest) and
// are independent of where the elements sit in the backing slice.
//
// Notes on semantics:
//   - PushBack overwrites the oldest element when the buffer is full, unless
//     safe mode is on, in which case it returns ErrFull and changes nothing.
//   - InsertBack and InsertBackSeq ignore safe mode and report how many of
//     the inserted values aged out of the capacity window instead of failing.
//   - At, Ptr, Set and Replace are bounds-checked against the live window.
//   - Resize keeps the newest min(capacity, Size()) elements, oldest first.
//
// Implementations are not safe for concurrent use; wrap them in a
// LockingCircularBuffer when several goroutines share one.
type CircularBufferInterface[T any] interface {
	Indexed[T]

	Capacity() int
	Empty() bool
	IsSafe() bool
	SetSafe(safe bool)

	PushBack(value T) error
	PopFront() (T, error)
	Set(i int, value T)
	InsertBack(values ...T) int
	InsertBackSeq(seq iter.Seq[T]) int
	Replace(position int, values ...T) error
	Resize(capacity int) error
	Clear()

	Snapshot() []T
}

// Indexed is the capability a Cursor needs: random access by logical position
// and the current length of the logical sequence.
type Indexed[T any] interface {
	At(i int) T
	Ptr(i int) *T
	Size() int
}

// LockingCircularBufferInterface is the API of the mutex-guarded wrapper.
// All methods are safe for concurrent use.
type LockingCircularBufferInterface[T any] interface {
	Size() int
	Capacity() int
	Empty() bool
	IsSafe() bool
	SetSafe(safe bool)

	PushBack(value T) error
	PopFront() (T, error)
	Put(ctx context.Context, value T) error
	Take(ctx context.Context) (T, error)
	InsertBack(values ...T) (int, error)
	Replace(position int, values ...T) error
	Resize(capacity int) error
	Clear()
	Snapshot() []T

	Dropped() uint64
	Rejected() uint64

	Close() error
}

var _ CircularBufferInterface[int] = &CircularBuffer[int]{}
var _ LockingCircularBufferInterface[int] = &LockingCircularBuffer[int]{}
var _ io.Writer = &TailWriter{}

// ErrInvalidCapacity indicates a buffer was created or resized with a
// capacity that is not positive.
var ErrInvalidCapacity = errors.New("circularbuffer: capacity must be positive")

// ErrFull indicates a safe-mode push was rejected because the buffer is full.
var ErrFull = errors.New("circularbuffer: buffer is full")

// ErrEmpty indicates a pop from a buffer that holds no elements.
var ErrEmpty = errors.New("circularbuffer: buffer is empty")

// ErrOutOfRange indicates a logical position or window outside the live
// elements of the buffer.
var ErrOutOfRange = errors.New("circularbuffer: position out of range")

// ErrClosed indicates an operation on a closed LockingCircularBuffer.
var ErrClosed = errors.New("circularbuffer: buffer is closed")
