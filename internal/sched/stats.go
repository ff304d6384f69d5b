package sched

import "sync/atomic"

// Stats is a point-in-time copy of the scheduler counters.
type Stats struct {
	Queued   int64  // entries currently waiting
	Executed uint64 // entries executed since creation
	Failed   uint64 // executed entries that failed
}

// counters are updated on the hot path and read on the cold path only.
type counters struct {
	queued   atomic.Int64
	executed atomic.Uint64
	failed   atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Queued:   c.queued.Load(),
		Executed: c.executed.Load(),
		Failed:   c.failed.Load(),
	}
}
