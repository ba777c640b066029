// Package overlay projects in-flight additions over the canonical collection
// so they are visible before their canonical commit is. The projection is a
// pure reducer over an immutable base: once the canonical store reflects the
// same entries, the pending list is discarded and the projection converges to
// the canonical snapshot exactly (same ids, same order), so swapping the base
// out from under it is invisible to readers.
//
// There is no rollback path: within this engine a commit cannot fail after
// the projection succeeded (no network round-trip exists). A persistence or
// network extension would need a reconciliation policy here.
package overlay

import (
	"taskline/internal/model"
	"taskline/internal/store"
)

// Project returns base with pending prepended, most recent first. Pure; base
// is not mutated. A pending task whose id already landed in base is skipped,
// which keeps the projection converging (rather than duplicating) when the
// canonical commit has already become visible.
func Project(base store.Snapshot, pending []model.Task) []model.Task {
	if len(pending) == 0 {
		return base.Tasks
	}
	out := make([]model.Task, 0, len(base.Tasks)+len(pending))
	for i := len(pending) - 1; i >= 0; i-- {
		if _, ok := base.Find(pending[i].ID); ok {
			continue
		}
		out = append(out, pending[i])
	}
	out = append(out, base.Tasks...)
	return out
}

// Overlay tracks the pending additions of the current mutation batch.
// It borrows the canonical base; it owns nothing durable.
type Overlay struct {
	pending []model.Task
}

func New() *Overlay {
	return &Overlay{}
}

// Push registers an in-flight addition and returns the projected collection.
func (o *Overlay) Push(base store.Snapshot, t model.Task) []model.Task {
	o.pending = append(o.pending, t)
	return Project(base, o.pending)
}

// Reconcile drops every pending task the canonical base now contains.
// Once the base has caught up the overlay is empty and Apply returns the
// canonical tasks unchanged.
func (o *Overlay) Reconcile(base store.Snapshot) {
	kept := o.pending[:0]
	for _, t := range o.pending {
		if _, ok := base.Find(t.ID); !ok {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		o.pending = nil
		return
	}
	o.pending = kept
}

// Apply projects whatever is still pending over the given base.
func (o *Overlay) Apply(base store.Snapshot) []model.Task {
	return Project(base, o.pending)
}

// PendingCount reports how many additions are still awaiting their canonical
// commit. Used as part of the memo stamp for derived values.
func (o *Overlay) PendingCount() int {
	return len(o.pending)
}
