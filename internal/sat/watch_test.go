package sat

import "testing"

func TestWatchIndex_WatchAndUnwatch(t *testing.T) {
	w := newWatchIndex(4)
	lit := NewLiteral(0, false)

	w.watch(lit, ClauseID(1))
	w.watch(lit, ClauseID(2))

	list := w.lists[lit.Index()]
	if len(list) != 2 {
		t.Fatalf("len(watch list) = %d, want 2", len(list))
	}

	w.unwatch(lit, ClauseID(1))
	list = w.lists[lit.Index()]
	if len(list) != 1 || list[0] != ClauseID(2) {
		t.Fatalf("watch list after unwatch = %v, want [2]", list)
	}
}

func TestWatchIndex_UnwatchMissingPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("unwatch of an absent clause did not panic")
		}
	}()
	w := newWatchIndex(2)
	w.unwatch(NewLiteral(0, false), ClauseID(1))
}

func TestWatchIndex_Grow(t *testing.T) {
	w := newWatchIndex(2)
	w.grow(8)
	if len(w.lists) != 8 {
		t.Fatalf("len(lists) after grow(8) = %d, want 8", len(w.lists))
	}
	// Growing to a smaller size must be a no-op.
	w.grow(4)
	if len(w.lists) != 8 {
		t.Fatalf("grow(4) shrank the index from 8 to %d", len(w.lists))
	}
}
