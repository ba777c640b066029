package overlay

import (
	"testing"
	"time"

	"taskline/internal/model"
	"taskline/internal/store"
)

func task(id, text string) model.Task {
	return model.Task{ID: id, Text: text, CreatedAt: time.Now()}
}

func TestProjectPrependsWithoutMutatingBase(t *testing.T) {
	base := store.Snapshot{Version: 1, Tasks: []model.Task{task("task-a", "A")}}
	pending := []model.Task{task("task-b", "B")}

	got := Project(base, pending)
	if len(got) != 2 || got[0].ID != "task-b" || got[1].ID != "task-a" {
		t.Fatalf("expected [task-b task-a], got %+v", got)
	}
	if len(base.Tasks) != 1 || base.Tasks[0].ID != "task-a" {
		t.Fatalf("base mutated by projection: %+v", base.Tasks)
	}
}

func TestProjectEmptyPendingReturnsBase(t *testing.T) {
	base := store.Snapshot{Version: 1, Tasks: []model.Task{task("task-a", "A")}}
	got := Project(base, nil)
	if len(got) != 1 || got[0].ID != "task-a" {
		t.Fatalf("expected base unchanged, got %+v", got)
	}
}

func TestProjectSkipsAlreadyCommitted(t *testing.T) {
	committed := task("task-b", "B")
	base := store.Snapshot{Version: 2, Tasks: []model.Task{committed, task("task-a", "A")}}
	got := Project(base, []model.Task{committed})
	if len(got) != 2 {
		t.Fatalf("expected no duplicate for a committed pending task, got %+v", got)
	}
}

func TestConvergenceAfterCommit(t *testing.T) {
	s := store.New()
	s.Add("A")
	o := New()

	pending, ok := s.NewTask("B")
	if !ok {
		t.Fatalf("NewTask rejected valid text")
	}

	// Optimistic projection first: B visible before the canonical commit.
	projected := o.Push(s.Snapshot(), pending)
	if len(projected) != 2 || projected[0].ID != pending.ID {
		t.Fatalf("expected pending task first in projection, got %+v", projected)
	}

	// Canonical commit with the identical task value, then reconcile.
	snap := s.Commit(pending)
	o.Reconcile(snap)
	if o.PendingCount() != 0 {
		t.Fatalf("expected pending cleared after reconcile, still %d", o.PendingCount())
	}

	// Projection now equals canonical output, element for element.
	after := o.Apply(snap)
	if len(after) != len(snap.Tasks) {
		t.Fatalf("projection diverges from canonical: %d vs %d", len(after), len(snap.Tasks))
	}
	for i := range after {
		if after[i] != snap.Tasks[i] {
			t.Fatalf("projection[%d] = %+v, canonical %+v", i, after[i], snap.Tasks[i])
		}
	}
}

func TestReconcileKeepsUncommitted(t *testing.T) {
	s := store.New()
	o := New()
	a, _ := s.NewTask("A")
	b, _ := s.NewTask("B")
	o.Push(s.Snapshot(), a)
	o.Push(s.Snapshot(), b)

	snap := s.Commit(a)
	o.Reconcile(snap)
	if o.PendingCount() != 1 {
		t.Fatalf("expected one pending task to survive, got %d", o.PendingCount())
	}
	got := o.Apply(snap)
	if len(got) != 2 || got[0].ID != b.ID {
		t.Fatalf("expected projection [B A], got %+v", got)
	}
}
