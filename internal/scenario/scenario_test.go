package scenario

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoad(t *testing.T) {
	s, err := Load("testdata/overwrite.yaml")
	require.NoError(t, err)

	assert.Equal(t, "overwrite", s.Name)
	assert.Equal(t, 3, s.Capacity)
	assert.False(t, s.Safe)
	require.Len(t, s.Steps, 8)
	assert.Equal(t, OpResize, s.Steps[5].Op)
	assert.Equal(t, 2, s.Steps[5].Capacity)
	require.NotNil(t, s.Steps[4].Expect)
	assert.Equal(t, []int{3, 4, 5}, *s.Steps[4].Expect.Contents)

	_, err = Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"zero capacity": "capacity: 0\n",
		"unknown op":    "capacity: 2\nsteps:\n  - op: shuffle\n",
		"missing op":    "capacity: 2\nsteps:\n  - value: 1\n",
		"bad resize":    "capacity: 2\nsteps:\n  - op: resize\n",
		"unknown error": "capacity: 2\nsteps:\n  - op: pop\n    expect: {error: boom}\n",
		"not yaml":      "capacity: [\n",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidScenario)
		})
	}
}

func TestRunner_Run(t *testing.T) {
	runner := NewRunner(zaptest.NewLogger(t))

	t.Run("Overwrite", func(t *testing.T) {
		s, err := Load("testdata/overwrite.yaml")
		require.NoError(t, err)

		result, err := runner.Run(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, 8, result.Steps)
		assert.Equal(t, 3, result.Dropped)
		assert.Equal(t, []int{5}, result.Contents)
	})

	t.Run("Safe Mode", func(t *testing.T) {
		s, err := Load("testdata/safe_mode.yaml")
		require.NoError(t, err)

		result, err := runner.Run(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Rejected)
		assert.Equal(t, 2, result.Dropped)
		assert.Empty(t, result.Contents)
	})

	t.Run("Failed Expectation", func(t *testing.T) {
		s, err := Load("testdata/broken.yaml")
		require.NoError(t, err)

		result, err := runner.Run(context.Background(), s)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExpectation)

		var stepErr *StepError
		require.True(t, errors.As(err, &stepErr))
		assert.Equal(t, 1, stepErr.Index)
		assert.Equal(t, OpPush, stepErr.Op)
		assert.Equal(t, 2, result.Steps)
	})

	t.Run("Undeclared Error", func(t *testing.T) {
		s, err := Parse([]byte("capacity: 1\nsteps:\n  - op: pop\n"))
		require.NoError(t, err)

		_, err = runner.Run(context.Background(), s)
		assert.ErrorIs(t, err, ErrExpectation)
	})

	t.Run("Missing Popped Value", func(t *testing.T) {
		s, err := Parse([]byte("capacity: 1\nsteps:\n  - op: push\n    value: 3\n    expect: {value: 3}\n"))
		require.NoError(t, err)

		_, err = runner.Run(context.Background(), s)
		assert.ErrorIs(t, err, ErrExpectation)
	})

	t.Run("Insert Into Full Buffer", func(t *testing.T) {
		s, err := Parse([]byte(`
capacity: 3
steps:
  - op: insert
    values: [1, 2, 3]
    expect: {dropped: 0}
  - op: insert
    values: [4]
    expect: {dropped: 0, contents: [2, 3, 4]}
  - op: insert
    values: [5, 6, 7, 8]
    expect: {dropped: 1, contents: [6, 7, 8]}
`))
		require.NoError(t, err)

		result, err := runner.Run(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, 5, result.Dropped)
	})

	t.Run("Cancelled", func(t *testing.T) {
		s, err := Load("testdata/overwrite.yaml")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := runner.Run(ctx, s)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, result.Steps)
	})
}

func TestRunner_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	runner := NewRunner(zap.New(core))

	s, err := Load("testdata/broken.yaml")
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), s)
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterMessage("step applied").Len())

	failed := logs.FilterMessage("step failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "broken", failed[0].ContextMap()["scenario"])
	assert.Equal(t, int64(1), failed[0].ContextMap()["step"])
}
