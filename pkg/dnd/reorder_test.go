package dnd_test

import (
	"slices"
	"sort"
	"testing"

	"github.com/vango-dev/dragsort/pkg/dnd"
	"github.com/vango-dev/dragsort/pkg/dndtest"
)

func TestReorderExamples(t *testing.T) {
	tests := []struct {
		name    string
		items   []string
		dragged string
		target  int
		want    []string
	}{
		{"move first down", []string{"A", "B", "C"}, "A", 2, []string{"B", "A", "C"}},
		{"move first to end", []string{"A", "B", "C"}, "A", 3, []string{"B", "C", "A"}},
		{"slot right after itself", []string{"A", "B", "C"}, "A", 1, []string{"A", "B", "C"}},
		{"move middle up", []string{"A", "B", "C"}, "B", 0, []string{"B", "A", "C"}},
		{"move last to front", []string{"A", "B", "C"}, "C", 0, []string{"C", "A", "B"}},
		{"clamp past end", []string{"A", "B"}, "A", 5, []string{"B", "A"}},
		{"clamp negative", []string{"A", "B", "C"}, "C", -3, []string{"C", "A", "B"}},
		{"insert absent item", []string{"A", "B"}, "X", 1, []string{"A", "X", "B"}},
		{"insert into empty", nil, "X", 3, []string{"X"}},
		{"same position", []string{"A", "B", "C"}, "B", 1, []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dnd.Reorder(dndtest.Items(tt.items...), dnd.Item{ID: tt.dragged}, tt.target)
			if ids := dnd.IDs(got); !slices.Equal(ids, tt.want) {
				t.Fatalf("Reorder(%v, %s, %d) = %v, want %v", tt.items, tt.dragged, tt.target, ids, tt.want)
			}
		})
	}
}

// Every slot an item below the dragged one can report moves it by one step.
func TestReorderDownwardSlots(t *testing.T) {
	list := []string{"A", "B", "C", "D"}
	want := [][]string{
		{"A", "B", "C", "D"},
		{"A", "B", "C", "D"},
		{"B", "A", "C", "D"},
		{"B", "C", "A", "D"},
		{"B", "C", "D", "A"},
	}
	for target, w := range want {
		got := dnd.IDs(dnd.Reorder(dndtest.Items(list...), dnd.Item{ID: "A"}, target))
		if !slices.Equal(got, w) {
			t.Errorf("Reorder(%v, A, %d) = %v, want %v", list, target, got, w)
		}
	}
}

func TestReorderPreservesMultiset(t *testing.T) {
	lists := [][]string{
		{},
		{"A"},
		{"A", "B"},
		{"A", "B", "C", "D", "E"},
	}
	candidates := []string{"A", "C", "E", "Z"}

	for _, list := range lists {
		for _, dragged := range candidates {
			for target := -2; target <= len(list)+2; target++ {
				got := dnd.IDs(dnd.Reorder(dndtest.Items(list...), dnd.Item{ID: dragged}, target))

				want := slices.Clone(list)
				if !slices.Contains(want, dragged) {
					want = append(want, dragged)
				}
				sortedGot := slices.Clone(got)
				sort.Strings(sortedGot)
				sort.Strings(want)
				if !slices.Equal(sortedGot, want) {
					t.Fatalf("Reorder(%v, %s, %d) ids = %v, want multiset %v", list, dragged, target, got, want)
				}

				// Others keep their relative order.
				others := slices.DeleteFunc(slices.Clone(got), func(s string) bool { return s == dragged })
				orig := slices.DeleteFunc(slices.Clone(list), func(s string) bool { return s == dragged })
				if !slices.Equal(others, orig) {
					t.Fatalf("Reorder(%v, %s, %d) reordered others: %v", list, dragged, target, got)
				}
			}
		}
	}
}

func TestReorderIdempotentAtCurrentIndex(t *testing.T) {
	list := []string{"A", "B", "C", "D"}
	for i, id := range list {
		got := dnd.Reorder(dndtest.Items(list...), dnd.Item{ID: id}, i)
		if ids := dnd.IDs(got); !slices.Equal(ids, list) {
			t.Errorf("Reorder(%v, %s, %d) = %v, want unchanged", list, id, i, ids)
		}
		again := dnd.Reorder(got, dnd.Item{ID: id}, i)
		if ids := dnd.IDs(again); !slices.Equal(ids, list) {
			t.Errorf("second Reorder = %v, want unchanged", ids)
		}
	}
}

func TestReorderDoesNotMutateInput(t *testing.T) {
	in := dndtest.Items("A", "B", "C")
	_ = dnd.Reorder(in, dnd.Item{ID: "C"}, 0)
	dndtest.ExpectIDs(t, in, "A", "B", "C")
}

func TestIDAllocator(t *testing.T) {
	next := dnd.NewIDAllocator()
	for want := 0; want < 5; want++ {
		if got := next(); got != dnd.ContainerID(want) {
			t.Fatalf("next() = %d, want %d", got, want)
		}
	}

	other := dnd.NewIDAllocator()
	if got := other(); got != 0 {
		t.Fatalf("fresh allocator next() = %d, want 0", got)
	}
}
