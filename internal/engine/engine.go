// Package engine is the public surface of the task list: presentation code
// calls its operations and renders whatever State returns. It owns nothing
// but in-memory session state; there is no persistence, no network, and a
// single logical writer.
package engine

import (
	"sync"

	"taskline/internal/model"
	"taskline/internal/overlay"
	"taskline/internal/stats"
	"taskline/internal/store"
	"taskline/internal/view"
)

// State is the render tuple handed to presentation.
type State struct {
	Visible []model.Task `json:"visible"`
	Filter  model.Filter `json:"filter"`
	Stats   model.Stats  `json:"stats"`
	Pending bool         `json:"pending"`
}

// Engine wires the canonical store, the optimistic overlay, the view
// scheduler and the stats memo behind one mutex. Mutations are atomic,
// synchronous steps; SetFilter is the only operation whose derived work may
// be deferred.
type Engine struct {
	mu    sync.Mutex
	store *store.Store
	over  *overlay.Overlay
	sched *view.Scheduler
	stats stats.Memo

	changes chan struct{}
}

func New() *Engine {
	e := &Engine{
		store:   store.New(),
		over:    overlay.New(),
		changes: make(chan struct{}, 1),
	}
	e.sched = view.NewScheduler(e.signal)
	e.sched.Refresh(nil, view.Stamp{})
	return e
}

// Changes returns a coalescing signal channel: a receive means the visible
// state changed since the last receive. Presentation loops on it to redraw
// when a deferred filter commit lands.
func (e *Engine) Changes() <-chan struct{} {
	return e.changes
}

// Close abandons any outstanding deferred recomputation. No state is
// committed afterwards.
func (e *Engine) Close() {
	e.sched.Close()
}

// AddTask creates a task from text and commits it. The optimistic projection
// is refreshed first and the canonical commit follows immediately in the same
// step, both carrying the identical task value, so the projection converges
// to the canonical collection without flicker or duplicates. Whitespace-only
// text is a no-op.
func (e *Engine) AddTask(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.store.NewTask(text)
	if !ok {
		return
	}

	base := e.store.Snapshot()
	projected := e.over.Push(base, t)
	e.sched.Refresh(projected, e.stampFor(base))

	snap := e.store.Commit(t)
	e.over.Reconcile(snap)
	e.sched.Refresh(e.over.Apply(snap), e.stampFor(snap))
}

// ToggleTask flips completion on the task with the given id; unknown ids are
// a no-op.
func (e *Engine) ToggleTask(id string) {
	e.apply(func() store.Snapshot { return e.store.Toggle(id) })
}

// EditTask replaces the task's text with the trimmed value; empty text
// cancels the edit, unknown ids are a no-op.
func (e *Engine) EditTask(id, text string) {
	e.apply(func() store.Snapshot { return e.store.Edit(id, text) })
}

// DeleteTask removes the task with the given id; unknown ids are a no-op.
func (e *Engine) DeleteTask(id string) {
	e.apply(func() store.Snapshot { return e.store.Remove(id) })
}

// ClearCompleted removes every completed task in one atomic step.
func (e *Engine) ClearCompleted() {
	e.apply(func() store.Snapshot { return e.store.ClearCompleted() })
}

// SetFilter updates the active criterion immediately; the visible-sequence
// recomputation is scheduled as deferrable, latest-wins work. Pending reports
// true until the (latest) result lands.
func (e *Engine) SetFilter(f model.Filter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.store.Snapshot()
	e.sched.SetFilter(f, e.over.Apply(snap), e.stampFor(snap))
}

// VisibleTasks returns the last committed filtered sequence.
func (e *Engine) VisibleTasks() []model.Task {
	return e.sched.Visible()
}

// Filter returns the active criterion.
func (e *Engine) Filter() model.Filter {
	return e.sched.Filter()
}

// Pending reports whether a deferred filter recomputation is outstanding.
func (e *Engine) Pending() bool {
	return e.sched.Pending()
}

// Stats derives counts from the unfiltered, overlay-inclusive collection:
// totals reflect every task regardless of the active filter.
func (e *Engine) Stats() model.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.store.Snapshot()
	return e.stats.Compute(e.over.Apply(snap), e.stampFor(snap))
}

// State returns the full render tuple.
func (e *Engine) State() State {
	return State{
		Visible: e.VisibleTasks(),
		Filter:  e.Filter(),
		Stats:   e.Stats(),
		Pending: e.Pending(),
	}
}

// apply runs a canonical mutation and urgently refreshes the derived view.
func (e *Engine) apply(fn func() store.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := fn()
	e.over.Reconcile(snap)
	e.sched.Refresh(e.over.Apply(snap), e.stampFor(snap))
}

func (e *Engine) stampFor(snap store.Snapshot) view.Stamp {
	return view.Stamp{Version: snap.Version, Pending: e.over.PendingCount()}
}

func (e *Engine) signal() {
	select {
	case e.changes <- struct{}{}:
	default:
	}
}
