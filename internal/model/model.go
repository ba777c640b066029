package model

import (
	"fmt"
	"strings"
	"time"
)

// Task is the unit of work tracked by the list. Task values are treated as
// immutable once created: mutations replace the value in a new snapshot
// rather than editing it in place, so holders of old snapshots never observe
// changes.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Filter selects which subset of tasks is visible. Exactly one criterion is
// active at a time; it is session-local UI state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter normalizes user-supplied filter names (flags, env vars).
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active", "open", "todo":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("unknown filter: %q (want all|active|completed)", s)
	}
}

// Matches reports whether a task passes the criterion.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Stats is a derived count over the unfiltered collection; it always reflects
// true totals regardless of the active filter. Active+Completed == Total.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}
