package circular_buffer_go

import (
	"cmp"
	"fmt"
	"iter"
	"reflect"
)

// Cursor addresses an element of an Indexed container by logical position.
// It never owns the container and does not notice later mutations: a cursor
// whose position fell outside the live window panics on dereference.
//
// Cursors are values; Next, Prev and Advance return moved copies.
type Cursor[T any] struct {
	container Indexed[T]
	position  int
}

// NewCursor returns a cursor at the given logical position of container.
// Cursors identify their container with ==, so container should be a pointer.
// NewCursor panics if its dynamic type is not comparable.
func NewCursor[T any](container Indexed[T], position int) Cursor[T] {
	if kind := reflect.TypeOf(container); kind != nil && !kind.Comparable() {
		panic(fmt.Sprintf("circularbuffer: cursor container %T is not comparable", container))
	}

	return Cursor[T]{container: container, position: position}
}

// Begin returns a cursor at the oldest element.
func (buffer *CircularBuffer[T]) Begin() Cursor[T] {
	return NewCursor[T](buffer, 0)
}

// End returns the cursor one past the newest element.
func (buffer *CircularBuffer[T]) End() Cursor[T] {
	return NewCursor[T](buffer, buffer.Size())
}

// RBegin returns a reverse cursor at the newest element.
func (buffer *CircularBuffer[T]) RBegin() ReverseCursor[T] {
	return ReverseCursor[T]{base: buffer.End()}
}

// REnd returns the reverse cursor one before the oldest element.
func (buffer *CircularBuffer[T]) REnd() ReverseCursor[T] {
	return ReverseCursor[T]{base: buffer.Begin()}
}

func (cursor Cursor[T]) sameContainer(other Cursor[T]) {
	if cursor.container != other.container {
		panic("circularbuffer: cursors belong to different containers")
	}
}

func (cursor Cursor[T]) Position() int {
	return cursor.position
}

func (cursor Cursor[T]) Next() Cursor[T] {
	return cursor.Advance(1)
}

func (cursor Cursor[T]) Prev() Cursor[T] {
	return cursor.Advance(-1)
}

// Advance returns the cursor moved by n positions; n may be negative.
func (cursor Cursor[T]) Advance(n int) Cursor[T] {
	cursor.position += n
	return cursor
}

// Distance returns cursor.Position() - other.Position(). Both cursors must
// come from the same container.
func (cursor Cursor[T]) Distance(other Cursor[T]) int {
	cursor.sameContainer(other)

	return cursor.position - other.position
}

func (cursor Cursor[T]) Equal(other Cursor[T]) bool {
	return cursor.container == other.container && cursor.position == other.position
}

func (cursor Cursor[T]) Less(other Cursor[T]) bool {
	return cursor.Compare(other) < 0
}

func (cursor Cursor[T]) Compare(other Cursor[T]) int {
	cursor.sameContainer(other)

	return cmp.Compare(cursor.position, other.position)
}

// Valid reports whether the cursor currently points at a live element.
func (cursor Cursor[T]) Valid() bool {
	return cursor.position >= 0 && cursor.position < cursor.container.Size()
}

func (cursor Cursor[T]) Value() T {
	return cursor.container.At(cursor.position)
}

func (cursor Cursor[T]) Ptr() *T {
	return cursor.container.Ptr(cursor.position)
}

func (cursor Cursor[T]) Set(value T) {
	*cursor.Ptr() = value
}

// Offset returns the element n positions away from the cursor.
func (cursor Cursor[T]) Offset(n int) T {
	return cursor.container.At(cursor.position + n)
}

// ReverseCursor walks logical positions from Size()-1 down to 0. It wraps the
// forward cursor one past the element it refers to, so RBegin wraps End and
// REnd wraps Begin.
type ReverseCursor[T any] struct {
	base Cursor[T]
}

// Base returns the forward cursor one position after the referenced element.
func (cursor ReverseCursor[T]) Base() Cursor[T] {
	return cursor.base
}

// Position returns the logical position the cursor dereferences.
func (cursor ReverseCursor[T]) Position() int {
	return cursor.base.position - 1
}

func (cursor ReverseCursor[T]) Next() ReverseCursor[T] {
	return cursor.Advance(1)
}

func (cursor ReverseCursor[T]) Prev() ReverseCursor[T] {
	return cursor.Advance(-1)
}

func (cursor ReverseCursor[T]) Advance(n int) ReverseCursor[T] {
	return ReverseCursor[T]{base: cursor.base.Advance(-n)}
}

func (cursor ReverseCursor[T]) Distance(other ReverseCursor[T]) int {
	return other.base.Distance(cursor.base)
}

func (cursor ReverseCursor[T]) Equal(other ReverseCursor[T]) bool {
	return cursor.base.Equal(other.base)
}

func (cursor ReverseCursor[T]) Less(other ReverseCursor[T]) bool {
	return other.base.Less(cursor.base)
}

func (cursor ReverseCursor[T]) Value() T {
	return cursor.base.Offset(-1)
}

func (cursor ReverseCursor[T]) Ptr() *T {
	return cursor.base.container.Ptr(cursor.Position())
}

func (cursor ReverseCursor[T]) Set(value T) {
	*cursor.Ptr() = value
}

// Values yields the elements in [first, last) in forward order.
func Values[T any](first, last Cursor[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for cursor := first; cursor.Less(last); cursor = cursor.Next() {
			if !yield(cursor.Value()) {
				return
			}
		}
	}
}

// ReverseValues yields the elements in [first, last) walking backwards.
func ReverseValues[T any](first, last ReverseCursor[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for cursor := first; cursor.Less(last); cursor = cursor.Next() {
			if !yield(cursor.Value()) {
				return
			}
		}
	}
}
