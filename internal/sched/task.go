package sched

import (
	"context"
	"errors"
	"time"

	"taskflow/internal/job"
)

// MaxSimpleUnits is the longest declared duration a SimpleTask agrees to run.
const MaxSimpleUnits = 5

// DefaultUnit is the length of one declared time unit.
const DefaultUnit = time.Second

// Task is one schedulable unit of work.
type Task interface {
	// Name is a human readable label; it does not have to be unique.
	Name() string

	// Execute runs the work synchronously and may block for as long as it needs.
	Execute(ctx context.Context) error
}

// SimpleTask blocks for a declared number of time units. Declarations above
// MaxSimpleUnits are refused before any waiting happens.
type SimpleTask struct {
	name  string
	units int
	unit  time.Duration
}

// NewSimpleTask creates a task that waits units*unit. A non-positive unit falls back to DefaultUnit.
func NewSimpleTask(name string, units int, unit time.Duration) *SimpleTask {
	if unit <= 0 {
		unit = DefaultUnit
	}
	return &SimpleTask{name: name, units: units, unit: unit}
}

func (t *SimpleTask) Name() string { return t.name }

// Units returns the declared duration in time units.
func (t *SimpleTask) Units() int { return t.units }

// Estimate returns the declared duration as wall-clock time.
func (t *SimpleTask) Estimate() time.Duration { return job.Units(t.units, t.unit) }

func (t *SimpleTask) Execute(ctx context.Context) error {
	if t.units > MaxSimpleUnits {
		return ExecutionErrorf("declared duration %d exceeds the limit of %d, refusing to run", t.units, MaxSimpleUnits)
	}

	err := job.SleepWork(t.Estimate())(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return &TaskError{Kind: KindTimeOut, Err: err}
	default:
		return &TaskError{Kind: KindExecution, Msg: "interrupted", Err: err}
	}
}

// TaskFunc adapts a plain function into a Task.
type TaskFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func NewTaskFunc(name string, fn func(ctx context.Context) error) *TaskFunc {
	return &TaskFunc{name: name, fn: fn}
}

func (t *TaskFunc) Name() string { return t.name }

func (t *TaskFunc) Execute(ctx context.Context) error {
	if t.fn == nil {
		return NewExecutionError("no work function")
	}
	return t.fn(ctx)
}

var (
	_ Task = (*SimpleTask)(nil)
	_ Task = (*TaskFunc)(nil)
)
