package stats

import (
	"testing"

	"taskline/internal/model"
	"taskline/internal/view"
)

func TestCompute(t *testing.T) {
	cases := []struct {
		name  string
		tasks []model.Task
		want  model.Stats
	}{
		{"empty", nil, model.Stats{}},
		{"all active", []model.Task{{ID: "task-a"}, {ID: "task-b"}}, model.Stats{Total: 2, Active: 2}},
		{"mixed", []model.Task{{ID: "task-a", Completed: true}, {ID: "task-b"}, {ID: "task-c", Completed: true}}, model.Stats{Total: 3, Active: 1, Completed: 2}},
	}
	for _, tc := range cases {
		got := Compute(tc.tasks)
		if got != tc.want {
			t.Fatalf("%s: expected %+v, got %+v", tc.name, tc.want, got)
		}
		if got.Active+got.Completed != got.Total {
			t.Fatalf("%s: invariant broken: %+v", tc.name, got)
		}
	}
}

func TestMemoReusesByStamp(t *testing.T) {
	var m Memo
	ts := []model.Task{{ID: "task-a", Completed: true}, {ID: "task-b"}}

	first := m.Compute(ts, view.Stamp{Version: 1})
	// Same stamp: the cached value is returned even if the slice differs;
	// equal stamps promise equal contents, so this only matters as a check
	// that the memo keys on the stamp and not the slice.
	second := m.Compute(nil, view.Stamp{Version: 1})
	if first != second {
		t.Fatalf("expected memoized stats, got %+v then %+v", first, second)
	}

	third := m.Compute(nil, view.Stamp{Version: 2})
	if third != (model.Stats{}) {
		t.Fatalf("expected recompute on new stamp, got %+v", third)
	}
}
