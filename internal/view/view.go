// Package view owns the active filter criterion and the derived visible
// sequence. Filtering itself is a pure function; the Scheduler around it
// decides when recomputation happens: urgently for mutations, deferred and
// latest-wins for filter changes.
package view

import "taskline/internal/model"

// Stamp identifies a concrete input collection for memoization: the canonical
// snapshot version plus the number of overlay-pending additions projected on
// top of it. Two equal stamps mean the same elements in the same order.
type Stamp struct {
	Version uint64
	Pending int
}

// Visible returns the subset of tasks matching the filter. Order is preserved
// from the input collection; no re-sort. FilterAll returns the input slice
// as-is. Callers must treat the result as immutable.
func Visible(tasks []model.Task, f model.Filter) []model.Task {
	if f == model.FilterAll || f == "" {
		return tasks
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
