package sched

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the result of one executed entry.
type Outcome struct {
	EntryID   uuid.UUID
	Name      string
	Priority  Priority
	Err       *TaskError // nil on success
	StartedAt time.Time
	Elapsed   time.Duration
}

// OK reports whether the task succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Report collects every outcome of a RunAll call in execution order.
type Report struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome
}

func (r *Report) Len() int { return len(r.Outcomes) }

func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int { return len(r.Outcomes) - r.Succeeded() }

// Names returns task names in execution order.
func (r *Report) Names() []string {
	names := make([]string, len(r.Outcomes))
	for i, o := range r.Outcomes {
		names[i] = o.Name
	}
	return names
}

// Duration is the wall-clock time of the whole drain.
func (r *Report) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// record folds a finish event into the report.
func (r *Report) record(ev StatusEvent) {
	r.Outcomes = append(r.Outcomes, Outcome{
		EntryID:   ev.EntryID,
		Name:      ev.Name,
		Priority:  ev.Priority,
		Err:       ev.Err,
		StartedAt: ev.Time.Add(-ev.Elapsed),
		Elapsed:   ev.Elapsed,
	})
}
