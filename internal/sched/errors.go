// internal/sched/errors.go

package sched

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyRunning is returned by RunAll when another drain is in progress on the same scheduler.
	ErrAlreadyRunning = errors.New("sched: scheduler is already draining")

	// ErrNilTask is the panic value of Add when it is handed a nil task.
	ErrNilTask = errors.New("sched: task is nil")

	// ErrInvalidPriority is returned when a priority name or value is not High, Medium or Low.
	ErrInvalidPriority = errors.New("sched: invalid priority")
)

// ErrorKind enumerates the closed set of task failures.
type ErrorKind uint8

const (
	KindExecution ErrorKind = iota + 1
	KindTimeOut
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindExecution:
		return "ExecutionError"
	case KindTimeOut:
		return "TimeOut"
	case KindNotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is one of the three defined kinds.
func (k ErrorKind) Valid() bool { return k >= KindExecution && k <= KindNotFound }

// TaskError is the only error type a task outcome carries. Whatever a task returns is
// normalized into one of its three kinds before it reaches the report.
type TaskError struct {
	Kind ErrorKind
	Msg  string
	Err  error // underlying cause, if any
}

// Sentinels for errors.Is; they match any TaskError of the same kind.
var (
	ErrExecution = &TaskError{Kind: KindExecution}
	ErrTimeOut   = &TaskError{Kind: KindTimeOut}
	ErrNotFound  = &TaskError{Kind: KindNotFound}
)

func (e *TaskError) Error() string {
	switch e.Kind {
	case KindExecution:
		if e.Msg == "" {
			return "task execution failed"
		}
		return "task execution failed: " + e.Msg
	case KindTimeOut:
		if e.Msg == "" {
			return "task timed out"
		}
		return "task timed out: " + e.Msg
	case KindNotFound:
		if e.Msg == "" {
			return "task not found"
		}
		return "task not found: " + e.Msg
	default:
		return "task failed: " + e.Msg
	}
}

func (e *TaskError) Unwrap() error { return e.Err }

// Is matches by kind only, so errors.Is(err, ErrTimeOut) holds for every timeout.
func (e *TaskError) Is(target error) bool {
	t, ok := target.(*TaskError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewExecutionError reports that a task's action failed or was refused by its own policy.
func NewExecutionError(msg string) *TaskError {
	return &TaskError{Kind: KindExecution, Msg: msg}
}

func ExecutionErrorf(format string, args ...any) *TaskError {
	return &TaskError{Kind: KindExecution, Msg: fmt.Sprintf(format, args...)}
}

// NewTimeOut reports that a task exceeded a time budget.
func NewTimeOut() *TaskError {
	return &TaskError{Kind: KindTimeOut}
}

// NewNotFound reports that a referenced task or resource is absent.
func NewNotFound(what string) *TaskError {
	return &TaskError{Kind: KindNotFound, Msg: what}
}

// AsTaskError normalizes err into the closed taxonomy. nil stays nil; a foreign
// error, or a TaskError with an undefined kind, becomes an ExecutionError that
// still unwraps to the original. Wrapping text around a TaskError is kept in Msg.
func AsTaskError(err error) *TaskError {
	if err == nil {
		return nil
	}
	var te *TaskError
	if !errors.As(err, &te) {
		return &TaskError{Kind: KindExecution, Msg: err.Error(), Err: err}
	}
	if !te.Kind.Valid() {
		return &TaskError{Kind: KindExecution, Msg: te.Error(), Err: err}
	}
	if error(te) == err {
		return te
	}
	return &TaskError{Kind: te.Kind, Msg: wrappedMsg(err, te), Err: err}
}

// wrappedMsg joins the prefix an outer error put in front of te with te's own message.
func wrappedMsg(outer error, te *TaskError) string {
	prefix, ok := strings.CutSuffix(outer.Error(), te.Error())
	if !ok {
		return outer.Error()
	}
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	switch {
	case prefix == "":
		return te.Msg
	case te.Msg == "":
		return prefix
	}
	return prefix + ": " + te.Msg
}
