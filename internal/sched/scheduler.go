// internal/sched/scheduler.go

package sched

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/google/uuid"

	"taskflow/internal/logger"
)

const defaultEventBuffer = 256

// Scheduler keeps tasks ordered by priority and drains them on a single worker goroutine.
type Scheduler struct {
	// queue-related
	mu       sync.Mutex         // protects the queue state
	rbt      *redblacktree.Tree // entries ordered by priority (desc), then insertion sequence (asc)
	seq      uint64             // next insertion sequence number
	draining bool               // true while RunAll is in progress
	stats    counters

	logger   *slog.Logger
	handlers []EventHandler
	eventBuf int

	// logging-related
	csvFile   *os.File
	csvWriter *csv.Writer
}

// entry is the scheduler-owned pairing of a priority with its task.
type entry struct {
	id         uuid.UUID
	seq        uint64
	priority   Priority
	task       Task
	enqueuedAt time.Time
}

// QueuedEntry is a read-only view of a waiting entry.
type QueuedEntry struct {
	ID         uuid.UUID
	Name       string
	Priority   Priority
	EnqueuedAt time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for drain progress. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEventHandler registers a consumer of status events. It may be given several times.
func WithEventHandler(h EventHandler) Option {
	return func(s *Scheduler) {
		if h != nil {
			s.handlers = append(s.handlers, h)
		}
	}
}

// WithEventBuffer sets the capacity of the worker's event channel.
func WithEventBuffer(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.eventBuf = n
		}
	}
}

// New creates an empty Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		rbt:      redblacktree.NewWith(cmp),
		logger:   slog.Default(),
		eventBuf: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("scheduler"))
	return s
}

// EnableCSVLogging opens the given file path for CSV logging of task outcomes.
// Must be called before RunAll(); the file is closed when that drain ends.
func (s *Scheduler) EnableCSVLogging(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draining {
		return ErrAlreadyRunning
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sched: open csv log: %w", err)
	}
	w := csv.NewWriter(f)

	// write header
	w.Write([]string{"timestamp", "run_id", "event", "entry_id", "task", "priority", "elapsed_ms", "error"})
	w.Flush()
	s.csvFile = f
	s.csvWriter = w
	return nil
}

// Add enqueues a task under the given priority and returns the entry ID.
// It never fails; a nil task is a programming error and panics.
func (s *Scheduler) Add(p Priority, t Task) uuid.UUID {
	if t == nil {
		panic(ErrNilTask)
	}

	e := &entry{
		id:         uuid.New(),
		priority:   p.clamp(),
		task:       t,
		enqueuedAt: time.Now(),
	}

	s.mu.Lock()
	e.seq = s.seq
	s.seq++
	s.rbt.Put(nodeKey{priority: e.priority, seq: e.seq}, e)
	s.stats.queued.Add(1)
	s.mu.Unlock()

	s.logger.Debug("task queued",
		slog.String("entry_id", e.id.String()),
		slog.String("task", t.Name()),
		slog.String("priority", e.priority.String()))
	return e.id
}

// Len returns the number of waiting entries.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rbt.Size()
}

// Pending returns the waiting entries in the order they would be drained.
func (s *Scheduler) Pending() []QueuedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]QueuedEntry, 0, s.rbt.Size())
	it := s.rbt.Iterator()
	for it.Next() {
		e := it.Value().(*entry)
		out = append(out, QueuedEntry{
			ID:         e.id,
			Name:       e.task.Name(),
			Priority:   e.priority,
			EnqueuedAt: e.enqueuedAt,
		})
	}
	return out
}

// Stats returns a snapshot of the scheduler counters.
func (s *Scheduler) Stats() Stats { return s.stats.snapshot() }

// RunAll drains the queue highest priority first on a dedicated worker goroutine and
// blocks until the queue is empty. Entries added while the drain is in progress are
// executed by the same run. Task failures are recorded in the report and never stop
// the drain. The scheduler is empty and reusable once RunAll returns.
func (s *Scheduler) RunAll(ctx context.Context) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	s.draining = true
	s.mu.Unlock()

	report := &Report{RunID: uuid.New(), StartedAt: time.Now()}
	statusCh := make(chan StatusEvent, s.eventBuf)

	// the worker must be gone before another RunAll may start one
	defer func() {
		for range statusCh {
		}
		s.mu.Lock()
		s.draining = false
		s.mu.Unlock()
	}()

	// start the worker
	go s.drain(ctx, report.RunID, statusCh)

	// consume events until the worker closes the channel
	for ev := range statusCh {
		if ev.Kind == StatusSucceed || ev.Kind == StatusFail {
			report.record(ev)
		}
		s.handleEvent(ev)
	}
	report.FinishedAt = time.Now()

	return report, s.closeCSV()
}

// drain is the worker loop. It owns every execution of a run and closes out when the queue is empty.
func (s *Scheduler) drain(ctx context.Context, runID uuid.UUID, out chan<- StatusEvent) {
	defer close(out)

	out <- StatusEvent{
		Time:    time.Now(),
		Kind:    StatusDrainStart,
		RunID:   runID,
		Pending: s.Len(),
	}

	for {
		// 1) take the leftmost entry, or stop once the queue is empty
		s.mu.Lock()
		node := s.rbt.Left()
		if node == nil {
			s.mu.Unlock()
			break
		}
		key := node.Key.(nodeKey)
		e := node.Value.(*entry)
		s.rbt.Remove(key)
		s.stats.queued.Add(-1)
		pending := s.rbt.Size()
		s.mu.Unlock() // NOTE: the task runs without the lock so producers are never blocked by it

		// 2) announce the dispatch
		ev := StatusEvent{
			Time:     time.Now(),
			Kind:     StatusDispatch,
			RunID:    runID,
			EntryID:  e.id,
			Name:     e.task.Name(),
			Priority: e.priority,
			Pending:  pending,
		}
		out <- ev

		// 3) run to completion
		start := time.Now()
		err := s.execute(ctx, e.task)
		ev.Elapsed = time.Since(start)
		ev.Time = time.Now()

		s.stats.executed.Add(1)
		ev.Kind = StatusSucceed
		if err != nil {
			s.stats.failed.Add(1)
			ev.Kind = StatusFail
			ev.Err = err
		}

		// 4) report the outcome
		out <- ev
	}

	out <- StatusEvent{
		Time:  time.Now(),
		Kind:  StatusDrained,
		RunID: runID,
	}
}

// execute runs one task and folds its result into the closed error taxonomy.
// A panicking task is reported as an execution failure instead of killing the worker.
func (s *Scheduler) execute(ctx context.Context, t Task) (te *TaskError) {
	defer func() {
		if r := recover(); r != nil {
			te = ExecutionErrorf("task panicked: %v", r)
		}
	}()
	return AsTaskError(t.Execute(ctx))
}

func (s *Scheduler) handleEvent(ev StatusEvent) {
	runAttr := slog.String("run_id", ev.RunID.String())

	switch ev.Kind {
	case StatusDrainStart:
		s.logger.Info("draining task queue", runAttr, slog.Int("count_tasks", ev.Pending))
	case StatusDispatch:
		s.logger.Debug("executing task", runAttr,
			slog.String("task", ev.Name),
			slog.String("priority", ev.Priority.String()))
	case StatusSucceed:
		s.logger.Debug("task completed", runAttr,
			slog.String("task", ev.Name),
			slog.Int64("duration_ms", ev.Elapsed.Milliseconds()))
	case StatusFail:
		s.logger.Warn("error executing task", runAttr,
			slog.String("task", ev.Name),
			slog.String("kind", ev.Err.Kind.String()),
			logger.Error(ev.Err))
	case StatusDrained:
		s.logger.Info("task queue drained", runAttr)
	}

	// CSV output
	if s.csvWriter != nil && (ev.Kind == StatusSucceed || ev.Kind == StatusFail) {
		errMsg := ""
		if ev.Err != nil {
			errMsg = ev.Err.Error()
		}
		rec := []string{
			ev.Time.Format(time.RFC3339Nano),
			ev.RunID.String(),
			ev.Kind.String(),
			ev.EntryID.String(),
			ev.Name,
			ev.Priority.String(),
			strconv.FormatInt(ev.Elapsed.Milliseconds(), 10),
			errMsg,
		}
		s.csvWriter.Write(rec)
		s.csvWriter.Flush()
	}

	for _, h := range s.handlers {
		s.notify(h, ev)
	}
}

// notify calls one handler. A panicking handler is logged and skipped so the drain keeps going.
func (s *Scheduler) notify(h EventHandler, ev StatusEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event handler panicked",
				slog.String("run_id", ev.RunID.String()),
				slog.String("event", ev.Kind.String()),
				slog.Any("panic", r))
		}
	}()
	h(ev)
}

func (s *Scheduler) closeCSV() error {
	if s.csvFile == nil {
		return nil
	}
	s.csvWriter.Flush()
	err := errors.Join(s.csvWriter.Error(), s.csvFile.Close())
	s.csvFile = nil
	s.csvWriter = nil
	if err != nil {
		return fmt.Errorf("sched: write csv log: %w", err)
	}
	return nil
}

// nodeKey is used as a key in the red-black tree.
type nodeKey struct {
	priority Priority
	seq      uint64
}

// cmp puts higher priorities first and keeps insertion order within a class.
func cmp(a, b any) int {
	ka, kb := a.(nodeKey), b.(nodeKey)
	switch {
	case ka.priority > kb.priority:
		return -1
	case ka.priority < kb.priority:
		return 1
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	default:
		return 0
	}
}
