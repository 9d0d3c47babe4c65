package fern

// Change tags one entity in a ChildDiff.
type Change uint8

const (
	ChangeInserted Change = iota // present in the candidate only
	ChangeDeleted                // present in the receiver only
	ChangeUpdated                // present in both, with changes further down
	ChangeMoved                  // present in both, at a different relative position
)

func (c Change) String() string {
	switch c {
	case ChangeInserted:
		return "inserted"
	case ChangeDeleted:
		return "deleted"
	case ChangeUpdated:
		return "updated"
	case ChangeMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// ChildChange describes how one entity differs between two trees.
type ChildChange struct {
	Entity Entity
	Parent Entity
	// Index is the entity's position in the candidate's child list, or in
	// the receiver's list for deletions.
	Index int
	// OldIndex is the entity's position in the receiver's child list, or -1
	// when the entity is new.
	OldIndex int
	Changes  []Change
}

// Has reports whether the change carries tag c.
func (cc ChildChange) Has(c Change) bool {
	for _, x := range cc.Changes {
		if x == c {
			return true
		}
	}
	return false
}

// ChildDiff is the result of Tree.DiffChildren. It is produced once and
// consumed once by Tree.Merge.
type ChildDiff struct {
	Parent  Entity
	Depth   uint32
	Changes []ChildChange
}

// Empty reports whether the diff carries no changes.
func (d ChildDiff) Empty() bool {
	return len(d.Changes) == 0
}

// Has reports whether entity carries tag c anywhere in the diff.
func (d ChildDiff) Has(entity Entity, c Change) bool {
	for _, cc := range d.Changes {
		if cc.Entity == entity && cc.Has(c) {
			return true
		}
	}
	return false
}

// Entities returns, in diff order, every entity tagged with c.
func (d ChildDiff) Entities(c Change) []Entity {
	var out []Entity
	for _, cc := range d.Changes {
		if cc.Has(c) {
			out = append(out, cc.Entity)
		}
	}
	return out
}
