// internal/sched/priority.go

package sched

import (
	"fmt"
	"strings"
)

// Priority is the class a queued task is drained by. Higher values drain first.
type Priority uint8

const (
	Low Priority = iota
	Medium
	High
)

// Priorities lists every class from highest to lowest.
var Priorities = []Priority{High, Medium, Low}

func (p Priority) String() string {
	switch p {
	case High:
		return "High"
	case Medium:
		return "Medium"
	case Low:
		return "Low"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is one of the three defined classes.
func (p Priority) Valid() bool { return p <= High }

// clamp folds out-of-range values into the legal region.
func (p Priority) clamp() Priority {
	if p > High {
		return High
	}
	return p
}

// ParsePriority accepts the class name in any case ("high", "Medium", "LOW").
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return High, nil
	case "medium":
		return Medium, nil
	case "low":
		return Low, nil
	}
	return Low, fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
