// Package stats derives {total, active, completed} counts from the
// unfiltered, overlay-inclusive collection. Stats always reflect true totals
// regardless of the active filter.
package stats

import (
	"taskline/internal/model"
	"taskline/internal/view"
)

// Compute counts the collection. Pure; no side effects.
func Compute(tasks []model.Task) model.Stats {
	st := model.Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Active = st.Total - st.Completed
	return st
}

// Memo caches the last computed stats by collection stamp. Not safe for
// concurrent use; callers serialize (the engine holds its own lock).
type Memo struct {
	stamp view.Stamp
	stats model.Stats
	ok    bool
}

func (m *Memo) Compute(tasks []model.Task, stamp view.Stamp) model.Stats {
	if m.ok && m.stamp == stamp {
		return m.stats
	}
	m.stats = Compute(tasks)
	m.stamp = stamp
	m.ok = true
	return m.stats
}
