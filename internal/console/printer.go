// Package console renders scheduler progress for a terminal.
package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"taskflow/internal/sched"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

// Printer writes human readable progress lines. It is safe for concurrent use so
// producers can report added tasks while the scheduler reports executions.
type Printer struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

func (p *Printer) paint(c, s string) string {
	if !p.color {
		return s
	}
	return c + s + colorReset
}

func priorityColor(pr sched.Priority) string {
	switch pr {
	case sched.High:
		return colorRed
	case sched.Medium:
		return colorYellow
	default:
		return colorGreen
	}
}

func (p *Printer) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, s)
}

// Banner prints a framed headline followed by a blank line.
func (p *Printer) Banner(title string) {
	p.println("--- " + title + " ---\n")
}

// Added reports a task handed to the scheduler.
func (p *Printer) Added(name string, pr sched.Priority, estimate time.Duration) {
	p.println(fmt.Sprintf("%s %s | priority: %s | estimate: %s",
		p.paint(colorYellow, "added task:"), name, pr, estimate))
}

// Handle renders one scheduler event. It matches sched.EventHandler.
func (p *Printer) Handle(ev sched.StatusEvent) {
	switch ev.Kind {
	case sched.StatusDrainStart:
		p.Banner(fmt.Sprintf("scheduler started, %d tasks to process", ev.Pending))
	case sched.StatusDispatch:
		p.println(fmt.Sprintf("%s about to run: %s",
			p.paint(priorityColor(ev.Priority), "["+ev.Priority.String()+"]"), ev.Name))
	case sched.StatusSucceed:
		p.println(fmt.Sprintf("%s %s\n", p.paint(colorGreen, "successfully finished:"), ev.Name))
	case sched.StatusFail:
		p.println(fmt.Sprintf("%s %s %s\n", p.paint(colorRed, "error running:"), ev.Name, ev.Err))
	case sched.StatusDrained:
		p.Banner("all tasks finished")
	}
}

// Summary prints the totals of a finished run.
func (p *Printer) Summary(r *sched.Report) {
	p.println(fmt.Sprintf("run %s: %d executed, %d succeeded, %d failed in %s",
		r.RunID, r.Len(), r.Succeeded(), r.Failed(), r.Duration().Round(time.Millisecond)))
}
