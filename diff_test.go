package fern

import (
	"testing"

	"github.com/yohamta/donburi"
)

// pair builds an authoritative tree with old children under parent and a
// candidate copy whose children of parent are replaced by next.
func pair(t *testing.T, parent Entity, old, next []Entity) (*Tree, *Tree) {
	t.Helper()
	tree := NewTree()
	tree.Add(parent, donburi.Null)
	for _, c := range old {
		tree.Add(c, parent)
	}
	cand := tree.Clone()
	cand.ReplaceChildren(parent, next)
	return tree, cand
}

// --- Idempotence ---

func TestDiffAgainstSelfIsEmpty(t *testing.T) {
	e := spawn(t, 6)
	tree := NewTree()
	tree.Add(e[0], donburi.Null)
	tree.Add(e[1], e[0])
	tree.Add(e[2], e[0])
	tree.Add(e[3], e[1])
	tree.Add(e[4], e[3])
	tree.Add(e[5], e[2])

	before := tree.Clone()
	for depth := uint32(0); depth < 4; depth++ {
		d := tree.DiffChildren(tree, e[0], depth)
		if !d.Empty() {
			t.Fatalf("depth %d: self diff = %+v", depth, d.Changes)
		}
		tree.Merge(tree, e[0], d, depth)
		d = tree.DiffChildren(tree.Clone(), e[0], depth)
		if !d.Empty() {
			t.Fatalf("depth %d: clone diff = %+v", depth, d.Changes)
		}
		tree.Merge(tree.Clone(), e[0], d, depth)
	}
	if !tree.Equal(before) {
		t.Error("merging an empty diff changed the tree")
	}
}

// --- Insertion ---

func TestDiffInsertionRoundTrip(t *testing.T) {
	e := spawn(t, 4)
	p, a, b, c := e[0], e[1], e[2], e[3]
	tree, cand := pair(t, p, []Entity{a, b}, []Entity{a, c, b})

	d := tree.DiffChildren(cand, p, 0)
	if len(d.Changes) != 1 {
		t.Fatalf("changes = %+v, want one insertion", d.Changes)
	}
	ch := d.Changes[0]
	if ch.Entity != c || !ch.Has(ChangeInserted) || ch.Index != 1 {
		t.Errorf("change = %+v, want C inserted at 1", ch)
	}
	if len(d.Entities(ChangeDeleted)) != 0 || len(d.Entities(ChangeMoved)) != 0 {
		t.Errorf("unexpected deletions or moves: %+v", d.Changes)
	}

	tree.Merge(cand, p, d, 0)
	assertChildren(t, tree, p, a, c, b)
	assertIntegrity(t, tree)
}

func TestDiffInsertedReportsDescendants(t *testing.T) {
	e := spawn(t, 4)
	tree := NewTree()
	tree.Add(e[0], donburi.Null)
	cand := tree.Clone()
	cand.Add(e[1], e[0])
	cand.Add(e[2], e[1])
	cand.Add(e[3], e[2])

	d := tree.DiffChildren(cand, e[0], 0)
	got := d.Entities(ChangeInserted)
	if len(got) != 3 || got[0] != e[1] || got[1] != e[2] || got[2] != e[3] {
		t.Errorf("inserted = %v", got)
	}
	tree.Merge(cand, e[0], d, 0)
	assertChildren(t, tree, e[2], e[3])
	assertIntegrity(t, tree)
}

// --- Deletion ---

func TestDiffDeletionRoundTrip(t *testing.T) {
	e := spawn(t, 5)
	p, a, b, c := e[0], e[1], e[2], e[3]
	tree, cand := pair(t, p, []Entity{a, b, c}, []Entity{a, c})
	tree.Add(e[4], b)

	d := tree.DiffChildren(cand, p, 0)
	if got := d.Entities(ChangeDeleted); len(got) != 1 || got[0] != b {
		t.Fatalf("deleted = %v, want [B]", got)
	}
	if len(d.Entities(ChangeMoved)) != 0 {
		t.Errorf("unexpected moves: %+v", d.Changes)
	}

	tree.Merge(cand, p, d, 0)
	assertChildren(t, tree, p, a, c)
	if _, ok := tree.Parent(b); ok {
		t.Error("B should be absent")
	}
	if tree.Contains(e[4]) {
		t.Error("B's subtree should be removed")
	}
	assertIntegrity(t, tree)
}

// --- Moves ---

func TestDiffReportsMoves(t *testing.T) {
	e := spawn(t, 4)
	p, a, b, c := e[0], e[1], e[2], e[3]
	tree, cand := pair(t, p, []Entity{a, b, c}, []Entity{c, a, b})

	d := tree.DiffChildren(cand, p, 0)
	if !d.Has(c, ChangeMoved) {
		t.Errorf("C should be moved: %+v", d.Changes)
	}
	tree.Merge(cand, p, d, 0)
	assertChildren(t, tree, p, c, a, b)
}

// --- Depth ---

func TestDiffDepthDetectsNestedChanges(t *testing.T) {
	e := spawn(t, 4)
	tree := NewTree()
	tree.Add(e[0], donburi.Null)
	tree.Add(e[1], e[0])
	tree.Add(e[2], e[1])
	cand := tree.Clone()
	cand.Add(e[3], e[1])

	if d := tree.DiffChildren(cand, e[0], 0); !d.Empty() {
		t.Errorf("depth 0 should not see grandchildren: %+v", d.Changes)
	}
	d := tree.DiffChildren(cand, e[0], 1)
	if !d.Has(e[1], ChangeUpdated) || !d.Has(e[3], ChangeInserted) {
		t.Fatalf("depth 1 changes = %+v", d.Changes)
	}
	tree.Merge(cand, e[0], d, 1)
	assertChildren(t, tree, e[1], e[2], e[3])
	assertIntegrity(t, tree)
}

func TestMergeKeepsUnchangedDeepStructure(t *testing.T) {
	e := spawn(t, 5)
	tree := NewTree()
	tree.Add(e[0], donburi.Null)
	tree.Add(e[1], e[0])
	tree.Add(e[2], e[1])

	// The candidate knows only the direct children.
	cand := NewTree()
	cand.Add(e[0], donburi.Null)
	cand.Add(e[1], e[0])
	cand.Add(e[3], e[0])

	d := tree.DiffChildren(cand, e[0], 0)
	tree.Merge(cand, e[0], d, 0)
	assertChildren(t, tree, e[0], e[1], e[3])
	assertChildren(t, tree, e[1], e[2])
}
