package fern

import (
	"iter"
	"slices"
	"sync"

	"github.com/yohamta/donburi"
)

// Tree is a single-rooted ordered tree over entities. Child order is paint
// and layout order.
//
// Every exported method takes the tree's lock for its own duration only:
// reads share it, mutations hold it exclusively, and no lock is held across
// a callback or an iterator yield. The reconciler is the only writer during
// a frame.
//
// Operations on absent entities are no-ops.
type Tree struct {
	mu       sync.RWMutex
	root     Entity
	parents  map[Entity]Entity
	children map[Entity][]Entity
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		root:     donburi.Null,
		parents:  make(map[Entity]Entity),
		children: make(map[Entity][]Entity),
	}
}

func (t *Tree) ensure() {
	if t.parents == nil {
		t.parents = make(map[Entity]Entity)
	}
	if t.children == nil {
		t.children = make(map[Entity][]Entity)
	}
}

func (t *Tree) contains(e Entity) bool {
	if e == donburi.Null {
		return false
	}
	if e == t.root {
		return true
	}
	_, ok := t.parents[e]
	return ok
}

// Root returns the root entity, or donburi.Null for an empty tree.
func (t *Tree) Root() Entity {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// Contains reports whether entity is a node of the tree.
func (t *Tree) Contains(entity Entity) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.contains(entity)
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := len(t.parents)
	if t.root != donburi.Null {
		if _, ok := t.parents[t.root]; !ok {
			n++
		}
	}
	return n
}

// Add inserts entity as the last child of parent, or as the root when parent
// is donburi.Null. It returns false without changing anything if entity is
// already present, parent is absent, or a root already exists.
func (t *Tree) Add(entity, parent Entity) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.add(entity, parent)
}

func (t *Tree) add(entity, parent Entity) bool {
	if entity == donburi.Null || t.contains(entity) {
		return false
	}
	t.ensure()
	if parent == donburi.Null {
		if t.root != donburi.Null {
			return false
		}
		t.root = entity
		return true
	}
	if !t.contains(parent) {
		return false
	}
	t.parents[entity] = parent
	t.children[parent] = append(t.children[parent], entity)
	return true
}

// Remove deletes entity and all of its descendants. Idempotent.
func (t *Tree) Remove(entity Entity) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remove(entity)
}

func (t *Tree) remove(e Entity) {
	if !t.contains(e) {
		return
	}
	if p, ok := t.parents[e]; ok {
		if i := slices.Index(t.children[p], e); i >= 0 {
			t.children[p] = slices.Delete(t.children[p], i, i+1)
		}
	}
	t.removeSubtree(e)
}

func (t *Tree) removeSubtree(e Entity) {
	for _, c := range t.children[e] {
		t.removeSubtree(c)
	}
	delete(t.children, e)
	delete(t.parents, e)
	if t.root == e {
		t.root = donburi.Null
	}
}

// RemoveChildren deletes every descendant of entity, keeping entity itself.
func (t *Tree) RemoveChildren(entity Entity) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range slices.Clone(t.children[entity]) {
		t.remove(c)
	}
}

// Parent returns entity's parent. The second result is false for the root
// and for absent entities.
func (t *Tree) Parent(entity Entity) (Entity, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.parents[entity]
	return p, ok
}

// Children returns a copy of entity's ordered child list.
func (t *Tree) Children(entity Entity) []Entity {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.children[entity])
}

// ReplaceChildren makes list the ordered child list of entity. Listed
// entities that are already children keep their subtrees; others are
// attached as leaves, detaching them from any previous parent first.
// Current children missing from list are removed with their subtrees.
// Duplicates and entity itself are ignored.
func (t *Tree) ReplaceChildren(entity Entity, list []Entity) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.contains(entity) {
		return
	}
	t.ensure()
	keep := make(map[Entity]bool, len(list))
	for _, e := range list {
		keep[e] = true
	}
	for _, c := range slices.Clone(t.children[entity]) {
		if !keep[c] {
			t.remove(c)
		}
	}
	next := make([]Entity, 0, len(list))
	seen := make(map[Entity]bool, len(list))
	for _, e := range list {
		if e == donburi.Null || seen[e] || t.isAncestor(e, entity) {
			continue
		}
		seen[e] = true
		if p, ok := t.parents[e]; !ok || p != entity {
			t.remove(e)
			t.parents[e] = entity
		}
		next = append(next, e)
	}
	if len(next) > 0 {
		t.children[entity] = next
	} else {
		delete(t.children, entity)
	}
}

// isAncestor reports whether a is entity or one of its ancestors.
func (t *Tree) isAncestor(a, entity Entity) bool {
	for cur := entity; ; {
		if cur == a {
			return true
		}
		p, ok := t.parents[cur]
		if !ok {
			return false
		}
		cur = p
	}
}

// Subtree returns entity and all of its descendants in pre-order.
func (t *Tree) Subtree(entity Entity) []Entity {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.contains(entity) {
		return nil
	}
	var out []Entity
	var walk func(Entity)
	walk = func(e Entity) {
		out = append(out, e)
		for _, c := range t.children[e] {
			walk(c)
		}
	}
	walk(entity)
	return out
}

// DownIter returns a lazy pre-order traversal from the root. Each range over
// the sequence starts a fresh traversal.
func (t *Tree) DownIter() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		t.mu.RLock()
		root := t.root
		t.mu.RUnlock()
		if root == donburi.Null {
			return
		}
		stack := []Entity{root}
		for len(stack) > 0 {
			e := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(e) {
				return
			}
			t.mu.RLock()
			kids := t.children[e]
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, kids[i])
			}
			t.mu.RUnlock()
		}
	}
}

// Ancestors yields entity's ancestors, nearest first.
func (t *Tree) Ancestors(entity Entity) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		cur := entity
		for {
			t.mu.RLock()
			p, ok := t.parents[cur]
			t.mu.RUnlock()
			if !ok || !yield(p) {
				return
			}
			cur = p
		}
	}
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c := NewTree()
	c.root = t.root
	for k, v := range t.parents {
		c.parents[k] = v
	}
	for k, v := range t.children {
		c.children[k] = slices.Clone(v)
	}
	return c
}

// Equal reports whether both trees have the same root, parent links, and
// child order.
func (t *Tree) Equal(other *Tree) bool {
	if t == other {
		return true
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()
	if t.root != other.root || len(t.parents) != len(other.parents) {
		return false
	}
	for k, v := range t.parents {
		if ov, ok := other.parents[k]; !ok || ov != v {
			return false
		}
	}
	for k, v := range t.children {
		if len(v) == 0 && len(other.children[k]) == 0 {
			continue
		}
		if !slices.Equal(v, other.children[k]) {
			return false
		}
	}
	for k, v := range other.children {
		if len(v) > 0 && len(t.children[k]) == 0 {
			return false
		}
	}
	return true
}

// lockPair takes the receiver's lock (exclusive when write is set) and a
// read lock on other, unless both are the same tree.
func (t *Tree) lockPair(other *Tree, write bool) func() {
	if other != t {
		other.mu.RLock()
	}
	if write {
		t.mu.Lock()
	} else {
		t.mu.RLock()
	}
	return func() {
		if write {
			t.mu.Unlock()
		} else {
			t.mu.RUnlock()
		}
		if other != t {
			other.mu.RUnlock()
		}
	}
}

// CopyFromPoint copies the subtree rooted at entity, along with entity's own
// parent link, from other into t. It seeds the scratch tree an update routine
// declares children into.
func (t *Tree) CopyFromPoint(other *Tree, entity Entity) {
	if other == t {
		return
	}
	unlock := t.lockPair(other, true)
	defer unlock()
	if !other.contains(entity) {
		return
	}
	t.ensure()
	if p, ok := other.parents[entity]; ok {
		t.parents[entity] = p
	} else if t.root == donburi.Null {
		t.root = entity
	}
	t.copySubtree(other, entity)
}

// copySubtree replaces entity's descendants in t with other's.
func (t *Tree) copySubtree(other *Tree, entity Entity) {
	kids := other.children[entity]
	for _, c := range kids {
		if p, ok := t.parents[c]; ok && p != entity {
			t.remove(c)
		}
		t.parents[c] = entity
		t.copySubtree(other, c)
	}
	if len(kids) > 0 {
		t.children[entity] = slices.Clone(kids)
	} else {
		delete(t.children, entity)
	}
}

// DiffChildren compares t's children of parent with candidate's, descending
// depth further levels into children present in both. Entities are matched by
// identity only. Inserted children are reported together with all of their
// candidate descendants. Moved is reported only when the relative order of
// surviving children changed, so a plain insertion does not move its
// neighbours.
func (t *Tree) DiffChildren(candidate *Tree, parent Entity, depth uint32) ChildDiff {
	unlock := t.lockPair(candidate, false)
	defer unlock()
	d := ChildDiff{Parent: parent, Depth: depth}
	t.diffChildren(candidate, parent, depth, &d)
	return d
}

func (t *Tree) diffChildren(cand *Tree, parent Entity, depth uint32, d *ChildDiff) {
	if !t.contains(parent) || !cand.contains(parent) {
		return
	}
	old := t.children[parent]
	next := cand.children[parent]

	inNext := make(map[Entity]struct{}, len(next))
	for _, c := range next {
		inNext[c] = struct{}{}
	}
	oldIndex := make(map[Entity]int, len(old))
	oldRank := make(map[Entity]int, len(old))
	rank := 0
	for i, c := range old {
		oldIndex[c] = i
		if _, ok := inNext[c]; ok {
			oldRank[c] = rank
			rank++
		}
	}

	rank = 0
	for i, c := range next {
		oi, existed := oldIndex[c]
		if !existed {
			d.Changes = append(d.Changes, ChildChange{
				Entity: c, Parent: parent, Index: i, OldIndex: -1,
				Changes: []Change{ChangeInserted},
			})
			cand.appendInserted(c, d)
			continue
		}
		var changes []Change
		if oldRank[c] != rank {
			changes = append(changes, ChangeMoved)
		}
		rank++
		var sub ChildDiff
		if depth > 0 {
			t.diffChildren(cand, c, depth-1, &sub)
			if !sub.Empty() {
				changes = append(changes, ChangeUpdated)
			}
		}
		if len(changes) > 0 {
			d.Changes = append(d.Changes, ChildChange{
				Entity: c, Parent: parent, Index: i, OldIndex: oi, Changes: changes,
			})
		}
		d.Changes = append(d.Changes, sub.Changes...)
	}

	for i, c := range old {
		if _, ok := inNext[c]; !ok {
			d.Changes = append(d.Changes, ChildChange{
				Entity: c, Parent: parent, Index: i, OldIndex: i,
				Changes: []Change{ChangeDeleted},
			})
		}
	}
}

// appendInserted reports every descendant of entity as inserted.
func (t *Tree) appendInserted(entity Entity, d *ChildDiff) {
	for i, c := range t.children[entity] {
		d.Changes = append(d.Changes, ChildChange{
			Entity: c, Parent: entity, Index: i, OldIndex: -1,
			Changes: []Change{ChangeInserted},
		})
		t.appendInserted(c, d)
	}
}

// Merge applies diff, produced by DiffChildren against the same candidate,
// to t. Parent's child list takes the candidate's order, deleted subtrees
// are removed, inserted subtrees are copied from the candidate, and updated
// children are merged recursively while depth allows. Subtrees under
// unchanged children are left as they are in t.
func (t *Tree) Merge(candidate *Tree, parent Entity, diff ChildDiff, depth uint32) {
	if candidate == t {
		return
	}
	unlock := t.lockPair(candidate, true)
	defer unlock()
	t.merge(candidate, parent, diff, depth)
}

func (t *Tree) merge(cand *Tree, parent Entity, diff ChildDiff, depth uint32) {
	if !t.contains(parent) || !cand.contains(parent) {
		return
	}
	t.ensure()
	for _, cc := range diff.Changes {
		// A deleted entity may already sit under a sibling merged earlier.
		if cc.Parent == parent && cc.Has(ChangeDeleted) && t.parents[cc.Entity] == parent {
			t.remove(cc.Entity)
		}
	}

	next := cand.children[parent]
	keep := make(map[Entity]struct{}, len(next))
	for _, c := range next {
		keep[c] = struct{}{}
	}
	for _, c := range slices.Clone(t.children[parent]) {
		if _, ok := keep[c]; !ok {
			t.remove(c)
		}
	}

	for _, c := range next {
		if p, ok := t.parents[c]; ok && p == parent {
			continue
		}
		t.remove(c)
		t.parents[c] = parent
		t.copySubtree(cand, c)
	}
	if len(next) > 0 {
		t.children[parent] = slices.Clone(next)
	} else {
		delete(t.children, parent)
	}

	if depth == 0 {
		return
	}
	for _, c := range next {
		if diff.Has(c, ChangeUpdated) {
			t.merge(cand, c, diff, depth-1)
		}
	}
}
