// Package taskgen produces random SimpleTask declarations for demos and load tests.
package taskgen

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"taskflow/internal/sched"
)

// Kinds are the task labels the generator picks from.
var Kinds = []string{
	"system scan", "data sync", "mail delivery", "cache cleanup",
	"security audit", "log compaction", "frontend build", "model inference",
}

// Spec is one generated task declaration.
type Spec struct {
	Name     string
	Priority sched.Priority
	Units    int
}

// Build turns the declaration into a runnable task.
func (s Spec) Build(unit time.Duration) *sched.SimpleTask {
	return sched.NewSimpleTask(s.Name, s.Units, unit)
}

// Generator is safe for concurrent use.
type Generator struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	maxUnits int
}

// New creates a generator. A zero seed is replaced by the current time; maxUnits below 1 becomes 1.
func New(seed int64, maxUnits int) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if maxUnits < 1 {
		maxUnits = 1
	}
	return &Generator{
		rnd:      rand.New(rand.NewSource(seed)),
		maxUnits: maxUnits,
	}
}

// Next returns the declaration for the i-th task.
func (g *Generator) Next(i int) Spec {
	g.mu.Lock()
	defer g.mu.Unlock()

	kind := Kinds[g.rnd.Intn(len(Kinds))]
	return Spec{
		Name:     fmt.Sprintf("task %d - %s", i, kind),
		Priority: sched.Priorities[g.rnd.Intn(len(sched.Priorities))],
		Units:    g.rnd.Intn(g.maxUnits) + 1,
	}
}

// Batch returns n declarations numbered from 0.
func (g *Generator) Batch(n int) []Spec {
	specs := make([]Spec, 0, max(n, 0))
	for i := range n {
		specs = append(specs, g.Next(i))
	}
	return specs
}
