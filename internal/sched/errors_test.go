package sched_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/sched"
)

func TestTaskError_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{sched.NewExecutionError("refused"), "task execution failed: refused"},
		{sched.ExecutionErrorf("took %ds", 20), "task execution failed: took 20s"},
		{sched.NewTimeOut(), "task timed out"},
		{sched.NewNotFound(""), "task not found"},
		{sched.NewNotFound("report.csv"), "task not found: report.csv"},
	}
	for _, tt := range tests {
		assert.EqualError(t, tt.err, tt.want)
	}
}

func TestTaskError_IsMatchesKind(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", sched.NewExecutionError("x"))
	assert.ErrorIs(t, err, sched.ErrExecution)
	assert.NotErrorIs(t, err, sched.ErrTimeOut)
	assert.NotErrorIs(t, err, sched.ErrNotFound)

	assert.ErrorIs(t, sched.NewTimeOut(), sched.ErrTimeOut)
	assert.ErrorIs(t, sched.NewNotFound("y"), sched.ErrNotFound)

	var te *sched.TaskError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, sched.KindExecution, te.Kind)
	assert.Equal(t, "x", te.Msg)
}

func TestAsTaskError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, sched.AsTaskError(nil))

	timeout := sched.NewTimeOut()
	assert.Same(t, timeout, sched.AsTaskError(timeout))

	cause := errors.New("connection reset")
	te := sched.AsTaskError(cause)
	require.NotNil(t, te)
	assert.Equal(t, sched.KindExecution, te.Kind)
	assert.Equal(t, "connection reset", te.Msg)
	assert.ErrorIs(t, te, cause)
}

func TestErrorKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ExecutionError", sched.KindExecution.String())
	assert.Equal(t, "TimeOut", sched.KindTimeOut.String())
	assert.Equal(t, "NotFound", sched.KindNotFound.String())
	assert.Equal(t, "Unknown", sched.ErrorKind(0).String())
}

func TestAsTaskError_KeepsWrappingContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		kind sched.ErrorKind
		want string
	}{
		{"timeout", fmt.Errorf("fetch: %w", sched.NewTimeOut()), sched.KindTimeOut, "task timed out: fetch"},
		{"not found", fmt.Errorf("load: %w", sched.NewNotFound("a.csv")), sched.KindNotFound, "task not found: load: a.csv"},
		{"execution", fmt.Errorf("sync: %w", sched.NewExecutionError("refused")), sched.KindExecution, "task execution failed: sync: refused"},
		{"custom format", fmt.Errorf("[%w] while syncing", sched.NewTimeOut()), sched.KindTimeOut, "task timed out: [task timed out] while syncing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := sched.AsTaskError(tt.err)
			require.NotNil(t, te)
			assert.Equal(t, tt.kind, te.Kind)
			assert.EqualError(t, te, tt.want)
			assert.ErrorIs(t, te, tt.err)
		})
	}
}

func TestAsTaskError_UndefinedKind(t *testing.T) {
	t.Parallel()

	for _, kind := range []sched.ErrorKind{0, 9} {
		raw := &sched.TaskError{Kind: kind, Msg: "x"}
		te := sched.AsTaskError(raw)
		require.NotNil(t, te)
		assert.Equal(t, sched.KindExecution, te.Kind)
		assert.EqualError(t, te, "task execution failed: task failed: x")
		assert.ErrorIs(t, te, sched.ErrExecution)
	}
	assert.False(t, sched.ErrorKind(0).Valid())
	assert.True(t, sched.KindNotFound.Valid())
}
