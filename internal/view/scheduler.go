package view

import (
	"sync"

	"taskline/internal/model"
)

// Scheduler recomputes the visible sequence from the (overlay-inclusive)
// collection it is handed.
//
// Two priorities exist. Mutations call Refresh, which recomputes and commits
// synchronously before returning. SetFilter updates the criterion immediately
// but runs the recomputation on a separate goroutine with a sequence guard:
// only the result for the most recently requested computation is ever
// committed, so a burst of filter changes settles directly on the last one
// and a newer urgent refresh silently discards any older deferred result.
// While a deferred computation is outstanding Pending reports true, so the
// presentation layer can dim its filter controls.
//
// Results are memoized by (collection stamp, filter); re-requesting the
// filter that is already showing commits from the memo without spawning work.
type Scheduler struct {
	mu        sync.Mutex
	filter    model.Filter
	seq       uint64
	committed uint64
	visible   []model.Task
	closed    bool

	memoStamp   Stamp
	memoFilter  model.Filter
	memoVisible []model.Task
	memoOK      bool

	// notify is invoked (without the lock held) after every commit.
	notify func()
}

func NewScheduler(notify func()) *Scheduler {
	if notify == nil {
		notify = func() {}
	}
	return &Scheduler{filter: model.FilterAll, notify: notify}
}

// Filter returns the active criterion. A filter change is observable here
// immediately, even while its visible-sequence recomputation is outstanding.
func (s *Scheduler) Filter() model.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Visible returns the last committed visible sequence.
func (s *Scheduler) Visible() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Pending reports whether a deferred recomputation is outstanding.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.committed != s.seq
}

// Refresh recomputes the visible sequence for the current filter, urgently:
// the commit is synchronous, and any outstanding deferred computation is
// superseded.
func (s *Scheduler) Refresh(tasks []model.Task, stamp Stamp) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	vis := s.lookupLocked(tasks, stamp, s.filter)
	s.commitLocked(s.seq, vis, stamp, s.filter)
	s.mu.Unlock()
	s.notify()
}

// SetFilter updates the criterion immediately and schedules the visible
// recomputation as deferrable work. If the result for (stamp, f) is already
// memoized there is nothing to defer and the commit happens inline.
func (s *Scheduler) SetFilter(f model.Filter, tasks []model.Task, stamp Stamp) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.filter = f
	s.seq++
	seq := s.seq

	if s.memoOK && s.memoStamp == stamp && s.memoFilter == f {
		s.commitLocked(seq, s.memoVisible, stamp, f)
		s.mu.Unlock()
		s.notify()
		return
	}
	s.mu.Unlock()

	go func() {
		vis := Visible(tasks, f)
		if s.commit(seq, vis, stamp, f) {
			s.notify()
		}
	}()
}

// Close abandons any outstanding deferred computation. Nothing commits after
// Close; readers keep seeing the last committed sequence.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// commit applies a computed result if it is still the latest requested one.
// Returns false for stale or post-Close results, which are discarded whole:
// a superseded computation never becomes visible, not even partially.
func (s *Scheduler) commit(seq uint64, vis []model.Task, stamp Stamp, f model.Filter) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq != s.seq {
		return false
	}
	s.commitLocked(seq, vis, stamp, f)
	return true
}

func (s *Scheduler) commitLocked(seq uint64, vis []model.Task, stamp Stamp, f model.Filter) {
	s.visible = vis
	s.committed = seq
	s.memoStamp = stamp
	s.memoFilter = f
	s.memoVisible = vis
	s.memoOK = true
}

func (s *Scheduler) lookupLocked(tasks []model.Task, stamp Stamp, f model.Filter) []model.Task {
	if s.memoOK && s.memoStamp == stamp && s.memoFilter == f {
		return s.memoVisible
	}
	return Visible(tasks, f)
}
