package scenario

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	cb "github.com/sushydev/circular_buffer_go"
)

// ErrExpectation is wrapped by every StepError caused by a failed check.
var ErrExpectation = errors.New("expectation failed")

var errorsByName = map[string]error{
	"full":             cb.ErrFull,
	"empty":            cb.ErrEmpty,
	"out_of_range":     cb.ErrOutOfRange,
	"invalid_capacity": cb.ErrInvalidCapacity,
}

type StepError struct {
	Index int
	Op    string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type Result struct {
	Steps    int
	Dropped  int
	Rejected int
	Contents []int
}

type Runner struct {
	logger *zap.Logger
}

func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{logger: logger}
}

// dropped is what the operation reports; evicted counts every element that
// left the buffer without being popped.
type outcome struct {
	value   *int
	dropped int
	evicted int
	err     error
}

// Run executes the steps in order on a fresh buffer and stops at the first
// failed expectation or when ctx is done.
func (r *Runner) Run(ctx context.Context, s *Scenario) (*Result, error) {
	buffer, err := cb.NewCircularBuffer[int](s.Capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	buffer.SetSafe(s.Safe)

	logger := r.logger.With(zap.String("scenario", s.Name))
	result := &Result{}

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		out := apply(buffer, step)

		result.Steps++
		result.Dropped += out.evicted
		if errors.Is(out.err, cb.ErrFull) {
			result.Rejected++
		}

		if err := check(buffer, step.Expect, out); err != nil {
			logger.Warn("step failed",
				zap.Int("step", i),
				zap.String("op", step.Op),
				zap.Ints("contents", buffer.Snapshot()),
				zap.Error(err),
			)
			return result, &StepError{Index: i, Op: step.Op, Err: err}
		}

		logger.Debug("step applied",
			zap.Int("step", i),
			zap.String("op", step.Op),
			zap.Int("size", buffer.Size()),
			zap.Int("capacity", buffer.Capacity()),
		)
	}

	result.Contents = buffer.Snapshot()

	logger.Info("scenario finished",
		zap.Int("steps", result.Steps),
		zap.Int("dropped", result.Dropped),
		zap.Int("rejected", result.Rejected),
	)

	return result, nil
}

func apply(buffer *cb.CircularBuffer[int], step Step) outcome {
	switch step.Op {
	case OpPush:
		full := buffer.Size() == buffer.Capacity()
		if err := buffer.PushBack(step.Value); err != nil {
			return outcome{err: err}
		}
		if full {
			return outcome{dropped: 1, evicted: 1}
		}
		return outcome{}

	case OpPop:
		value, err := buffer.PopFront()
		if err != nil {
			return outcome{err: err}
		}
		return outcome{value: &value}

	case OpInsert:
		evicted := max(0, buffer.Size()+len(step.Values)-buffer.Capacity())
		return outcome{dropped: buffer.InsertBack(step.Values...), evicted: evicted}

	case OpReplace:
		return outcome{err: buffer.Replace(step.Position, step.Values...)}

	case OpResize:
		size := buffer.Size()
		if err := buffer.Resize(step.Capacity); err != nil {
			return outcome{err: err}
		}
		return outcome{dropped: size - buffer.Size(), evicted: size - buffer.Size()}

	case OpClear:
		buffer.Clear()

	case OpSafe:
		buffer.SetSafe(step.Safe)
	}

	return outcome{}
}

func check(buffer *cb.CircularBuffer[int], expect *Expect, out outcome) error {
	if expect == nil || expect.Error == "" {
		if out.err != nil {
			return fmt.Errorf("%w: unexpected error: %w", ErrExpectation, out.err)
		}
	}

	if expect == nil {
		return nil
	}

	if expect.Error != "" {
		if want := errorsByName[expect.Error]; !errors.Is(out.err, want) {
			return fmt.Errorf("%w: error = %v, want %s", ErrExpectation, out.err, expect.Error)
		}
	}

	if expect.Size != nil && buffer.Size() != *expect.Size {
		return fmt.Errorf("%w: size = %d, want %d", ErrExpectation, buffer.Size(), *expect.Size)
	}

	if expect.Contents != nil {
		got := slices.Collect(cb.Values(buffer.Begin(), buffer.End()))
		if !slices.Equal(got, *expect.Contents) {
			return fmt.Errorf("%w: contents = %v, want %v", ErrExpectation, got, *expect.Contents)
		}
	}

	if expect.Reversed != nil {
		got := slices.Collect(cb.ReverseValues(buffer.RBegin(), buffer.REnd()))
		if !slices.Equal(got, *expect.Reversed) {
			return fmt.Errorf("%w: reversed = %v, want %v", ErrExpectation, got, *expect.Reversed)
		}
	}

	if expect.Value != nil {
		if out.value == nil {
			return fmt.Errorf("%w: no value, want %d", ErrExpectation, *expect.Value)
		}
		if *out.value != *expect.Value {
			return fmt.Errorf("%w: value = %d, want %d", ErrExpectation, *out.value, *expect.Value)
		}
	}

	if expect.Dropped != nil && out.dropped != *expect.Dropped {
		return fmt.Errorf("%w: dropped = %d, want %d", ErrExpectation, out.dropped, *expect.Dropped)
	}

	return nil
}
