// internal/sched/schedulerEvent.go

package sched

import (
	"time"

	"github.com/google/uuid"
)

// StatusKind represents the type of scheduler event
type StatusKind int

const (
	StatusDrainStart StatusKind = iota
	StatusDispatch
	StatusSucceed
	StatusFail
	StatusDrained
)

// StatusEvent is emitted by the worker on every step of a drain.
type StatusEvent struct {
	Time     time.Time
	Kind     StatusKind
	RunID    uuid.UUID
	EntryID  uuid.UUID
	Name     string
	Priority Priority
	Pending  int           // queue size when the event was produced
	Elapsed  time.Duration // execution time, set on Succeed/Fail
	Err      *TaskError    // set on Fail
}

// EventHandler consumes events on the goroutine that called RunAll, in emission order.
type EventHandler func(StatusEvent)

func (sk StatusKind) String() string {
	switch sk {
	case StatusDrainStart:
		return "DrainStart"
	case StatusDispatch:
		return "Dispatch"
	case StatusSucceed:
		return "Succeed"
	case StatusFail:
		return "Fail"
	case StatusDrained:
		return "Drained"
	default:
		return "Unknown"
	}
}
