package fern

import (
	"slices"

	"github.com/yohamta/donburi"
)

// reconcile runs one top-down pass over the widget tree. Every entity's
// update routine runs at most once, parents before children. Children
// declared by a routine that reports a change replace the entity's previous
// children, and the difference is merged into the authoritative tree.
func (c *Context) reconcile() {
	seed := slices.Collect(c.tree.DownIter())
	visited := make(map[Entity]bool, len(seed))
	for _, e := range seed {
		c.visit(e, visited, 0)
	}

	for _, e := range c.mounted {
		removeTag(c.world, e, Mounted)
	}
	c.mounted = c.mounted[:0]
}

func (c *Context) visit(e Entity, visited map[Entity]bool, depth int) {
	if visited[e] || !c.tree.Contains(e) {
		return
	}
	visited[e] = true
	c.stats.Visited++

	if c.config.Debug && c.config.MaxTreeDepth > 0 && depth == c.config.MaxTreeDepth+1 {
		c.logger.Warn("widget tree exceeds depth threshold", "depth", depth, "entity", e, "threshold", c.config.MaxTreeDepth)
	}

	if name, ok := c.WidgetType(e); ok {
		if fn, found := c.widgets.Lookup(name); found {
			c.update(e, fn)
		} else {
			c.logger.Debug("skipping unregistered widget type", "type", name, "entity", e)
		}
	}

	for _, child := range c.tree.Children(e) {
		c.visit(child, visited, depth+1)
	}
}

// update runs fn for e against a scratch copy of e's subtree and merges the
// declared children when fn reports a change.
func (c *Context) update(e Entity, fn UpdateFunc) {
	scratch := NewTree()
	scratch.CopyFromPoint(c.tree, e)

	wctx := newWidgetContext(c, e, scratch)
	changed := fn(wctx, e)
	c.stats.RoutineCalls++
	wctx.applyContexts()
	if !changed {
		return
	}

	depth := wctx.applyDeclared()
	c.debugCheckChildCount(e, len(wctx.declared[e]))
	addTag(c.world, e, Dirty)

	diff := c.tree.DiffChildren(scratch, e, depth)
	c.stats.DiffChanges += len(diff.Changes)

	var deleted []Entity
	for _, ch := range diff.Changes {
		switch {
		case ch.Has(ChangeInserted) && c.tree.Contains(ch.Entity):
			// Re-parented inside the subtree; already mounted.
			c.rebind(ch.Entity, wctx.types[ch.Entity])
			addTag(c.world, ch.Entity, Dirty)
		case ch.Has(ChangeInserted):
			c.mount(ch.Entity, wctx.types[ch.Entity])
		case ch.Has(ChangeDeleted):
			deleted = append(deleted, c.tree.Subtree(ch.Entity)...)
		}
		if ch.Has(ChangeMoved) || ch.Has(ChangeUpdated) {
			addTag(c.world, ch.Entity, Dirty)
		}
	}

	c.tree.Merge(scratch, e, diff, depth)
	c.despawn(deleted)
}

// mount prepares a newly inserted entity: a layout slot, the Mounted and
// Dirty tags, and its widget type binding. An empty name falls back to the
// entity's WidgetName component.
func (c *Context) mount(e Entity, name string) {
	c.layout.Add(e)
	if name == "" {
		if c.world.Valid(e) {
			if entry := c.world.Entry(e); entry.HasComponent(WidgetNameComponent) {
				name = string(*WidgetNameComponent.Get(entry))
			}
		}
	}
	c.rebind(e, name)
	if c.world.Valid(e) && !hasTag(c.world, e, Mounted) {
		addTag(c.world, e, Mounted)
		c.mounted = append(c.mounted, e)
	}
	addTag(c.world, e, Dirty)
}

func (c *Context) rebind(e Entity, name string) {
	if name == "" {
		return
	}
	c.typesMu.Lock()
	c.widgetTypes[e] = name
	c.typesMu.Unlock()
}

// despawn releases entities removed by a merge. Entities that are still in
// the tree, because they were moved elsewhere, are kept.
func (c *Context) despawn(entities []Entity) {
	for _, e := range entities {
		if c.tree.Contains(e) {
			continue
		}
		c.typesMu.Lock()
		delete(c.widgetTypes, e)
		c.typesMu.Unlock()
		c.layout.Remove(e)
		c.contexts.RemoveOwner(e)
		c.dispatcher.forget(e)
		if c.world.Valid(e) {
			c.world.Remove(e)
		}
		c.stats.Despawned++
	}
}

// FreezeDeleted clears the Dirty tag of every entity diff reports deleted,
// for callers that merge a diff themselves and despawn later.
func (c *Context) FreezeDeleted(diff ChildDiff) {
	for _, e := range diff.Entities(ChangeDeleted) {
		removeTag(c.world, e, Dirty)
	}
}

// WidgetType returns the widget type name bound to e.
func (c *Context) WidgetType(e Entity) (string, bool) {
	c.typesMu.RLock()
	defer c.typesMu.RUnlock()
	name, ok := c.widgetTypes[e]
	return name, ok
}

// Add inserts entity under parent in the widget tree, or as the root when
// parent is donburi.Null. The entity's type comes from its WidgetName
// component.
func (c *Context) Add(entity, parent Entity) bool {
	return c.AddWidget(entity, "", parent)
}

// AddWidget inserts entity under parent and binds it to the widget type
// name. An empty name falls back to the WidgetName component.
func (c *Context) AddWidget(entity Entity, name string, parent Entity) bool {
	if entity == donburi.Null || !c.tree.Add(entity, parent) {
		return false
	}
	c.mount(entity, name)
	return true
}

// Remove detaches entity and its subtree from the widget tree and despawns
// them.
func (c *Context) Remove(entity Entity) {
	sub := c.tree.Subtree(entity)
	c.tree.Remove(entity)
	c.despawn(sub)
}

// MarkDirty queues entity for recomputation on the next frame. Routines
// usually report a change when their entity is dirty.
func (c *Context) MarkDirty(entity Entity) {
	addTag(c.world, entity, Dirty)
}
