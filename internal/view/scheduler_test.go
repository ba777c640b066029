package view

import (
	"testing"
	"time"

	"taskline/internal/model"
)

func stamp(v uint64) Stamp { return Stamp{Version: v} }

// settle waits until no deferred recomputation is outstanding.
func settle(t *testing.T, s *Scheduler) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.Pending() {
		if time.Now().After(deadline) {
			t.Fatalf("scheduler did not settle")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRefreshCommitsSynchronously(t *testing.T) {
	s := NewScheduler(nil)
	s.Refresh(tasks(), stamp(1))
	if s.Pending() {
		t.Fatalf("urgent refresh should not leave work pending")
	}
	if got := ids(s.Visible()); !equalIDs(got, []string{"task-c", "task-b", "task-a"}) {
		t.Fatalf("unexpected visible sequence: %v", got)
	}
	if s.Filter() != model.FilterAll {
		t.Fatalf("expected default filter all, got %s", s.Filter())
	}
}

func TestSetFilterAppliesCriterionImmediately(t *testing.T) {
	s := NewScheduler(nil)
	s.Refresh(tasks(), stamp(1))

	s.SetFilter(model.FilterActive, tasks(), stamp(1))
	if s.Filter() != model.FilterActive {
		t.Fatalf("filter value must update before the deferred recomputation lands")
	}
	settle(t, s)
	if got := ids(s.Visible()); !equalIDs(got, []string{"task-c", "task-a"}) {
		t.Fatalf("expected active tasks, got %v", got)
	}
}

func TestSetFilterLatestWins(t *testing.T) {
	s := NewScheduler(nil)
	s.Refresh(tasks(), stamp(1))

	s.SetFilter(model.FilterActive, tasks(), stamp(1))
	s.SetFilter(model.FilterCompleted, tasks(), stamp(1))
	settle(t, s)

	if s.Filter() != model.FilterCompleted {
		t.Fatalf("expected last requested filter, got %s", s.Filter())
	}
	if got := ids(s.Visible()); !equalIDs(got, []string{"task-b"}) {
		t.Fatalf("expected completed tasks only, got %v", got)
	}
}

func TestStaleCommitDiscarded(t *testing.T) {
	s := NewScheduler(nil)
	s.Refresh(tasks(), stamp(1))
	before := ids(s.Visible())

	// A result computed for a superseded request must not land.
	if s.commit(s.seq-1, nil, stamp(9), model.FilterCompleted) {
		t.Fatalf("stale commit was accepted")
	}
	if got := ids(s.Visible()); !equalIDs(got, before) {
		t.Fatalf("stale commit changed the visible sequence: %v", got)
	}
}

func TestRefreshSupersedesDeferredWork(t *testing.T) {
	s := NewScheduler(nil)
	s.Refresh(tasks(), stamp(1))

	s.SetFilter(model.FilterCompleted, tasks(), stamp(1))
	// Urgent work preempts: the mutation's recomputation commits with the
	// already-updated criterion and clears the pending state.
	s.Refresh(tasks(), stamp(2))
	if s.Pending() {
		t.Fatalf("refresh should clear pending state")
	}
	if got := ids(s.Visible()); !equalIDs(got, []string{"task-b"}) {
		t.Fatalf("expected refresh to use the latest filter, got %v", got)
	}
}

func TestMemoizedFilterCommitsInline(t *testing.T) {
	s := NewScheduler(nil)
	s.Refresh(tasks(), stamp(1))
	s.SetFilter(model.FilterActive, tasks(), stamp(1))
	settle(t, s)
	first := ids(s.Visible())

	// Same stamp, same filter: served from the memo, nothing deferred.
	s.SetFilter(model.FilterActive, tasks(), stamp(1))
	if s.Pending() {
		t.Fatalf("memoized recomputation should commit inline")
	}
	if got := ids(s.Visible()); !equalIDs(got, first) {
		t.Fatalf("idempotent setFilter changed the sequence: %v vs %v", got, first)
	}
}

func TestCloseAbandonsOutstandingWork(t *testing.T) {
	s := NewScheduler(nil)
	s.Refresh(tasks(), stamp(1))
	before := ids(s.Visible())

	s.SetFilter(model.FilterCompleted, tasks(), stamp(1))
	s.Close()

	if s.Pending() {
		t.Fatalf("closed scheduler must not report pending work")
	}
	// The deferred commit may have landed just before Close; what is
	// guaranteed is that nothing commits after it.
	time.Sleep(10 * time.Millisecond)
	got := ids(s.Visible())
	if !equalIDs(got, before) && !equalIDs(got, []string{"task-b"}) {
		t.Fatalf("partial or foreign result committed: %v", got)
	}
	if s.commit(s.seq, nil, stamp(1), model.FilterCompleted) {
		t.Fatalf("commit after close was accepted")
	}
	if !equalIDs(ids(s.Visible()), got) {
		t.Fatalf("visible sequence changed after close")
	}
}

func TestNotifyFiresOnCommit(t *testing.T) {
	ch := make(chan struct{}, 8)
	s := NewScheduler(func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	})

	s.Refresh(tasks(), stamp(1))
	select {
	case <-ch:
	default:
		t.Fatalf("expected notify after urgent refresh")
	}

	s.SetFilter(model.FilterActive, tasks(), stamp(1))
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected notify after deferred commit")
	}
}
