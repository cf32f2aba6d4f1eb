package polyhedra

import "testing"

func TestDisjointSetUnionOrder(t *testing.T) {
	ds := newDisjointSet()
	ds.union(1, 2)
	ds.union(3, 4)
	ds.union(1, 3)

	classes := ds.partition([]ID{1, 2, 3, 4})
	if len(classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(classes))
	}
	want := []ID{1, 2, 3, 4}
	got := classes[0]
	if len(got) != len(want) {
		t.Fatalf("expected %d members, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("member %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDisjointSetPartitionOrder(t *testing.T) {
	ds := newDisjointSet()
	ds.union(5, 6)
	ds.makeSet(-1)
	ds.union(2, 3)

	// Enumeration follows first appearance in the order sequence, not
	// insertion order; unknown ids are skipped.
	classes := ds.partition([]ID{-1, 99, 2, 5})
	if len(classes) != 3 {
		t.Fatalf("expected 3 classes, got %d", len(classes))
	}
	if classes[0][0] != -1 || classes[1][0] != 2 || classes[2][0] != 5 {
		t.Errorf("unexpected class order: %v", classes)
	}
}

func TestDisjointSetUnionIdempotent(t *testing.T) {
	ds := newDisjointSet()
	ds.union(1, 2)
	ds.union(2, 1)
	ds.union(1, 2)

	classes := ds.partition([]ID{1})
	if len(classes) != 1 || len(classes[0]) != 2 {
		t.Fatalf("expected one class of 2, got %v", classes)
	}
}
