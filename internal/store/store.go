package store

import (
	"strings"
	"sync"
	"time"

	"taskline/internal/model"
)

// Snapshot is an immutable view of the canonical collection. Version changes
// on every mutation, so derived computations (visible list, stats) can be
// memoized by stamp instead of comparing contents.
type Snapshot struct {
	Version uint64
	Tasks   []model.Task
}

// Find returns the task with the given id.
func (s Snapshot) Find(id string) (model.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Store owns the canonical, ordered task collection and is its sole mutator.
// Newly created tasks are prepended (most-recent-first); every other mutation
// preserves existing order.
//
// All mutations are copy-on-write: the Tasks slice is replaced, never edited
// in place, and untouched task values are carried over as-is. Invalid input
// (empty text, unknown id) is normalized to a no-op rather than an error; a
// no-op leaves the snapshot, including its version, unchanged.
type Store struct {
	mu   sync.Mutex
	snap Snapshot
}

func New() *Store {
	return &Store{}
}

// Snapshot returns the current canonical snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// NewTask builds (but does not commit) a task for the given text: fresh
// unique id, not completed, created now. Returns ok=false when the trimmed
// text is empty.
//
// Creation is split from Commit so an optimistic projection and the canonical
// commit can share the identical task value; see the overlay package.
func (s *Store) NewTask(text string) (model.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Task{
		ID:        s.newTaskIDLocked(),
		Text:      text,
		CreatedAt: time.Now(),
	}, true
}

// Commit prepends a task built by NewTask. A task whose id is already present
// is dropped, preserving the uniqueness invariant.
func (s *Store) Commit(t model.Task) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snap.Find(t.ID); ok {
		return s.snap
	}
	next := make([]model.Task, 0, len(s.snap.Tasks)+1)
	next = append(next, t)
	next = append(next, s.snap.Tasks...)
	s.snap = Snapshot{Version: s.snap.Version + 1, Tasks: next}
	return s.snap
}

// Add is NewTask+Commit in one step, for callers that do not run an
// optimistic projection (seeding, tests).
func (s *Store) Add(text string) Snapshot {
	t, ok := s.NewTask(text)
	if !ok {
		return s.Snapshot()
	}
	return s.Commit(t)
}

// Toggle flips Completed on the task with the given id. Unknown ids are a
// no-op. All other task values are carried over untouched.
func (s *Store) Toggle(id string) Snapshot {
	return s.replace(id, func(t model.Task) model.Task {
		t.Completed = !t.Completed
		return t
	})
}

// Edit replaces the task's text with the trimmed value. An empty or
// whitespace-only value cancels the edit and keeps the previous text; this is
// deliberate policy, not an error. Unknown ids are a no-op.
func (s *Store) Edit(id, text string) Snapshot {
	text = strings.TrimSpace(text)
	if text == "" {
		return s.Snapshot()
	}
	return s.replace(id, func(t model.Task) model.Task {
		t.Text = text
		return t
	})
}

// Remove deletes the task with the given id. Unknown ids are a no-op.
func (s *Store) Remove(id string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, t := range s.snap.Tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.snap
	}
	next := make([]model.Task, 0, len(s.snap.Tasks)-1)
	next = append(next, s.snap.Tasks[:idx]...)
	next = append(next, s.snap.Tasks[idx+1:]...)
	s.snap = Snapshot{Version: s.snap.Version + 1, Tasks: next}
	return s.snap
}

// ClearCompleted removes every completed task in one atomic step.
func (s *Store) ClearCompleted() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]model.Task, 0, len(s.snap.Tasks))
	for _, t := range s.snap.Tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.snap.Tasks) {
		return s.snap
	}
	s.snap = Snapshot{Version: s.snap.Version + 1, Tasks: kept}
	return s.snap
}

func (s *Store) replace(id string, fn func(model.Task) model.Task) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, t := range s.snap.Tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.snap
	}
	next := make([]model.Task, len(s.snap.Tasks))
	copy(next, s.snap.Tasks)
	next[idx] = fn(next[idx])
	s.snap = Snapshot{Version: s.snap.Version + 1, Tasks: next}
	return s.snap
}
