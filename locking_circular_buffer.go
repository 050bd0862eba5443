package circular_buffer_go

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// LockingCircularBuffer guards a CircularBuffer with a single mutex and adds
// blocking producers and consumers. Put waits for room while safe mode is on
// and the buffer is full; Take waits for an element.
type LockingCircularBuffer[T any] struct {
	buffer *CircularBuffer[T]
	mu     sync.Mutex

	notFull  *sync.Cond
	notEmpty *sync.Cond

	dropped  atomic.Uint64
	rejected atomic.Uint64

	closed atomic.Bool

	logger *zap.Logger
}

type lockingOptions struct {
	logger *zap.Logger
	safe   bool
}

// Option configures a LockingCircularBuffer.
type Option func(*lockingOptions)

// WithLogger sets the logger used for resize, clear and rejection events.
func WithLogger(logger *zap.Logger) Option {
	return func(o *lockingOptions) {
		o.logger = logger
	}
}

// WithSafe starts the buffer in safe mode.
func WithSafe(safe bool) Option {
	return func(o *lockingOptions) {
		o.safe = safe
	}
}

func NewLockingCircularBuffer[T any](capacity int, opts ...Option) (*LockingCircularBuffer[T], error) {
	options := lockingOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if options.logger == nil {
		options.logger = zap.NewNop()
	}

	inner, err := NewCircularBuffer[T](capacity)
	if err != nil {
		return nil, err
	}
	inner.SetSafe(options.safe)

	buffer := &LockingCircularBuffer[T]{
		buffer: inner,
		logger: options.logger,
	}
	buffer.notFull = sync.NewCond(&buffer.mu)
	buffer.notEmpty = sync.NewCond(&buffer.mu)

	return buffer, nil
}

// Wakes every waiter once ctx is done. The returned func unregisters.
func (buffer *LockingCircularBuffer[T]) wakeOnDone(ctx context.Context) func() bool {
	return context.AfterFunc(ctx, func() {
		buffer.mu.Lock()
		defer buffer.mu.Unlock()

		buffer.notFull.Broadcast()
		buffer.notEmpty.Broadcast()
	})
}

// Must hold mu.
func (buffer *LockingCircularBuffer[T]) push(value T) error {
	if err := buffer.buffer.PushBack(value); err != nil {
		buffer.rejected.Add(1)
		buffer.logger.Warn("push rejected",
			zap.Int("capacity", buffer.buffer.Capacity()),
			zap.Error(err),
		)
		return err
	}

	buffer.notEmpty.Signal()

	return nil
}

func (buffer *LockingCircularBuffer[T]) Size() int {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	return buffer.buffer.Size()
}

func (buffer *LockingCircularBuffer[T]) Capacity() int {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	return buffer.buffer.Capacity()
}

func (buffer *LockingCircularBuffer[T]) Empty() bool {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	return buffer.buffer.Empty()
}

func (buffer *LockingCircularBuffer[T]) IsSafe() bool {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	return buffer.buffer.IsSafe()
}

// SetSafe toggles safe mode. Turning it off releases blocked Put callers,
// which then overwrite the oldest elements.
func (buffer *LockingCircularBuffer[T]) SetSafe(safe bool) {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	buffer.buffer.SetSafe(safe)
	if !safe {
		buffer.notFull.Broadcast()
	}
}

// PushBack appends without blocking. In safe mode a full buffer returns ErrFull.
func (buffer *LockingCircularBuffer[T]) PushBack(value T) error {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed.Load() {
		return ErrClosed
	}

	evicting := buffer.buffer.full && !buffer.buffer.safe
	if err := buffer.push(value); err != nil {
		return err
	}

	if evicting {
		buffer.dropped.Add(1)
	}

	return nil
}

// Put appends value, waiting while safe mode is on and the buffer is full.
// It returns ctx.Err() if ctx ends first and ErrClosed if the buffer closes.
func (buffer *LockingCircularBuffer[T]) Put(ctx context.Context, value T) error {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	stop := buffer.wakeOnDone(ctx)
	defer stop()

	for {
		if buffer.closed.Load() {
			return ErrClosed
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if !buffer.buffer.safe || !buffer.buffer.full {
			break
		}

		buffer.notFull.Wait()
	}

	evicting := buffer.buffer.full
	if err := buffer.push(value); err != nil {
		return err
	}

	if evicting {
		buffer.dropped.Add(1)
	}

	return nil
}

// PopFront removes the oldest element without blocking.
func (buffer *LockingCircularBuffer[T]) PopFront() (T, error) {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed.Load() {
		var zero T
		return zero, ErrClosed
	}

	value, err := buffer.buffer.PopFront()
	if err != nil {
		return value, err
	}

	buffer.notFull.Signal()

	return value, nil
}

// Take removes the oldest element, waiting until one is available.
func (buffer *LockingCircularBuffer[T]) Take(ctx context.Context) (T, error) {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	stop := buffer.wakeOnDone(ctx)
	defer stop()

	var zero T

	for buffer.buffer.Empty() {
		if buffer.closed.Load() {
			return zero, ErrClosed
		}

		if err := ctx.Err(); err != nil {
			return zero, err
		}

		buffer.notEmpty.Wait()
	}

	if buffer.closed.Load() {
		return zero, ErrClosed
	}

	value, err := buffer.buffer.PopFront()
	if err != nil {
		return value, err
	}

	buffer.notFull.Signal()

	return value, nil
}

// InsertBack appends values in overwrite mode and returns how many of them
// aged out of the window. Dropped() also counts the older elements they
// evicted.
func (buffer *LockingCircularBuffer[T]) InsertBack(values ...T) (int, error) {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed.Load() {
		return 0, ErrClosed
	}

	evicted := max(0, buffer.buffer.Size()+len(values)-buffer.buffer.Capacity())

	dropped := buffer.buffer.InsertBack(values...)
	buffer.dropped.Add(uint64(evicted))

	if len(values) > 0 {
		buffer.notEmpty.Broadcast()
	}

	return dropped, nil
}

func (buffer *LockingCircularBuffer[T]) Replace(position int, values ...T) error {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed.Load() {
		return ErrClosed
	}

	return buffer.buffer.Replace(position, values...)
}

// Resize changes the capacity. Elements that no longer fit count as dropped.
func (buffer *LockingCircularBuffer[T]) Resize(capacity int) error {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed.Load() {
		return ErrClosed
	}

	previous := buffer.buffer.Capacity()
	size := buffer.buffer.Size()

	if err := buffer.buffer.Resize(capacity); err != nil {
		return err
	}

	lost := size - buffer.buffer.Size()
	buffer.dropped.Add(uint64(lost))

	buffer.logger.Debug("buffer resized",
		zap.Int("from", previous),
		zap.Int("to", capacity),
		zap.Int("dropped", lost),
	)

	if capacity > previous {
		buffer.notFull.Broadcast()
	}

	return nil
}

func (buffer *LockingCircularBuffer[T]) Clear() {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	size := buffer.buffer.Size()
	buffer.buffer.Clear()

	buffer.logger.Debug("buffer cleared", zap.Int("size", size))

	buffer.notFull.Broadcast()
}

// Snapshot returns a copy of the live elements, oldest first.
func (buffer *LockingCircularBuffer[T]) Snapshot() []T {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	return buffer.buffer.Snapshot()
}

// Dropped returns how many elements were evicted by overwrites or shrinking.
func (buffer *LockingCircularBuffer[T]) Dropped() uint64 {
	return buffer.dropped.Load()
}

// Rejected returns how many pushes failed with ErrFull.
func (buffer *LockingCircularBuffer[T]) Rejected() uint64 {
	return buffer.rejected.Load()
}

// Close wakes all waiters and releases the backing storage. Further calls
// return ErrClosed. Closing twice is a no-op.
func (buffer *LockingCircularBuffer[T]) Close() error {
	if !buffer.closed.CompareAndSwap(false, true) {
		return nil
	}

	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	buffer.notFull.Broadcast()
	buffer.notEmpty.Broadcast()

	buffer.buffer.Move()

	return nil
}
