package math_correctness_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cb "github.com/sushydev/circular_buffer_go"
)

// This suite focuses on head/tail math, off-by-one, and wrap boundaries.
func TestPointerMath_CapacityOne(t *testing.T) {
	t.Parallel()
	buf, err := cb.NewCircularBuffer[byte](1)
	require.NoError(t, err)

	assert.True(t, buf.Empty())

	require.NoError(t, buf.PushBack(0xAB))
	assert.Equal(t, 1, buf.Size())
	assert.False(t, buf.Empty())

	// head == tail here, but the buffer is full, not empty
	require.NoError(t, buf.PushBack(0xCD))
	assert.Equal(t, 1, buf.Size())
	assert.Equal(t, byte(0xCD), buf.At(0))

	v, err := buf.PopFront()
	require.NoError(t, err)
	assert.Equal(t, byte(0xCD), v)
	assert.True(t, buf.Empty())

	buf.SetSafe(true)
	require.NoError(t, buf.PushBack(1))
	assert.ErrorIs(t, buf.PushBack(2), cb.ErrFull)
}

func TestOffByOne_SizeAtEveryTailPosition(t *testing.T) {
	t.Parallel()
	const capacity = 5

	for offset := 0; offset < capacity; offset++ {
		buf, err := cb.NewCircularBuffer[int](capacity)
		require.NoError(t, err)

		// move head and tail to offset
		for i := 0; i < offset; i++ {
			require.NoError(t, buf.PushBack(-1))
			_, err := buf.PopFront()
			require.NoError(t, err)
		}

		for n := 1; n <= capacity; n++ {
			require.NoError(t, buf.PushBack(n))
			assert.Equal(t, n, buf.Size(), "offset %d", offset)
			assert.Equal(t, 1, buf.At(0))
			assert.Equal(t, n, buf.At(n-1))
		}
	}
}

func TestWrapInsertAndReplace(t *testing.T) {
	t.Parallel()
	buf, err := cb.NewCircularBuffer[byte](8)
	require.NoError(t, err)

	buf.InsertBack([]byte("12345")...)
	// consume two to advance head and free space
	for i := 0; i < 2; i++ {
		_, err := buf.PopFront()
		require.NoError(t, err)
	}

	// Now write across the physical end
	dropped := buf.InsertBack([]byte("67890")...)
	assert.Equal(t, 0, dropped)
	assert.Equal(t, "34567890", string(buf.Snapshot()))

	require.NoError(t, buf.Replace(4, []byte("abcd")...))
	assert.Equal(t, "3456abcd", string(buf.Snapshot()))

	assert.ErrorIs(t, buf.Replace(5, []byte("abcd")...), cb.ErrOutOfRange)
}

func TestResizeFromEveryHead(t *testing.T) {
	t.Parallel()
	const capacity = 6

	for offset := 0; offset < capacity; offset++ {
		for _, newCapacity := range []int{1, 3, 6, 9} {
			buf, err := cb.NewCircularBuffer[int](capacity)
			require.NoError(t, err)

			for i := 0; i < offset; i++ {
				require.NoError(t, buf.PushBack(-1))
				_, err := buf.PopFront()
				require.NoError(t, err)
			}
			buf.InsertBack(1, 2, 3, 4, 5)

			require.NoError(t, buf.Resize(newCapacity))

			keep := min(newCapacity, 5)
			want := []int{1, 2, 3, 4, 5}[5-keep:]
			if diff := cmp.Diff(want, buf.Snapshot()); diff != "" {
				t.Fatalf("offset %d resize %d (-want +got):\n%s", offset, newCapacity, diff)
			}

			// the next push lands right after the newest element
			require.NoError(t, buf.PushBack(6))
			assert.Equal(t, 6, buf.At(buf.Size()-1))
		}
	}
}

// Random operations checked against a plain slice.
func TestRandomOperationsMatchModel(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 50; round++ {
		capacity := 1 + rng.IntN(12)
		buf, err := cb.NewCircularBuffer[int](capacity)
		require.NoError(t, err)

		var model []int
		next := 0

		for step := 0; step < 400; step++ {
			switch rng.IntN(7) {
			case 0, 1:
				require.NoError(t, buf.PushBack(next))
				model = append(model, next)
				next++
			case 2:
				v, err := buf.PopFront()
				if len(model) == 0 {
					require.ErrorIs(t, err, cb.ErrEmpty)
					break
				}
				require.NoError(t, err)
				require.Equal(t, model[0], v)
				model = model[1:]
			case 3:
				values := make([]int, rng.IntN(2*capacity+1))
				for i := range values {
					values[i] = next
					next++
				}
				var dropped int
				if rng.IntN(2) == 0 {
					dropped = buf.InsertBack(values...)
				} else {
					dropped = buf.InsertBackSeq(slices.Values(values))
				}
				model = append(model, values...)
				require.Equal(t, max(0, len(values)-capacity), dropped)
			case 4:
				if len(model) == 0 {
					break
				}
				position := rng.IntN(len(model))
				values := make([]int, rng.IntN(len(model)-position+1))
				for i := range values {
					values[i] = -next
					next++
				}
				require.NoError(t, buf.Replace(position, values...))
				copy(model[position:], values)
			case 5:
				capacity = 1 + rng.IntN(12)
				require.NoError(t, buf.Resize(capacity))
			case 6:
				if rng.IntN(10) == 0 {
					buf.Clear()
					model = nil
				}
			}

			if len(model) > capacity {
				model = model[len(model)-capacity:]
			}

			require.LessOrEqual(t, buf.Size(), buf.Capacity())
			require.Equal(t, len(model), buf.Size())
			if diff := cmp.Diff(append([]int{}, model...), buf.Snapshot()); diff != "" {
				t.Fatalf("round %d step %d (-model +buffer):\n%s", round, step, diff)
			}
		}
	}
}
