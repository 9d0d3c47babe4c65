package fern

import (
	"github.com/yohamta/donburi"
)

type contextIntent struct {
	name     string
	owner    Entity
	provider Entity
	remove   bool
}

// WidgetContext is the handle an update routine receives. Reads see the
// authoritative state; writes are recorded as intents and applied by the
// reconciler after the routine returns.
type WidgetContext struct {
	ctx    *Context
	entity Entity

	// scratch is a copy of entity's subtree that declared children are
	// attached to.
	scratch *Tree

	declared map[Entity][]Entity
	parents  []Entity // declaration order of keys in declared
	types    map[Entity]string
	contexts []contextIntent
}

func newWidgetContext(ctx *Context, entity Entity, scratch *Tree) *WidgetContext {
	return &WidgetContext{
		ctx:      ctx,
		entity:   entity,
		scratch:  scratch,
		declared: make(map[Entity][]Entity),
		types:    make(map[Entity]string),
	}
}

// Entity returns the widget being updated.
func (c *WidgetContext) Entity() Entity { return c.entity }

// Context returns the owning UI context.
func (c *WidgetContext) Context() *Context { return c.ctx }

// World returns the host ECS world.
func (c *WidgetContext) World() donburi.World { return c.ctx.world }

// Add declares child as the next child of parent. parent must be the widget
// being updated or an entity already declared below it. Declaring the same
// entity again under the same parent is ignored.
func (c *WidgetContext) Add(child, parent Entity) {
	if child == donburi.Null || parent == donburi.Null {
		return
	}
	list, ok := c.declared[parent]
	if !ok {
		c.parents = append(c.parents, parent)
	}
	for _, e := range list {
		if e == child {
			return
		}
	}
	c.declared[parent] = append(list, child)
}

// AddWidget declares child under parent and binds it to the widget type
// name. The binding is created when the child is first inserted.
func (c *WidgetContext) AddWidget(child Entity, name string, parent Entity) {
	c.Add(child, parent)
	c.types[child] = name
}

// Spawn creates a new entity carrying the given components, binds it to
// name and declares it under parent.
func (c *WidgetContext) Spawn(name string, parent Entity, components ...donburi.IComponentType) Entity {
	comps := append([]donburi.IComponentType{WidgetNameComponent}, components...)
	e := c.ctx.world.Create(comps...)
	WidgetNameComponent.SetValue(c.ctx.world.Entry(e), WidgetName(name))
	c.AddWidget(e, name, parent)
	return e
}

// RemoveChildren declares that parent has no children. Children added to
// parent afterwards are kept.
func (c *WidgetContext) RemoveChildren(parent Entity) {
	if _, ok := c.declared[parent]; !ok {
		c.parents = append(c.parents, parent)
	}
	c.declared[parent] = nil
}

// Children returns the authoritative children of entity.
func (c *WidgetContext) Children(entity Entity) []Entity {
	return c.ctx.tree.Children(entity)
}

// Parent returns the authoritative parent of entity.
func (c *WidgetContext) Parent(entity Entity) (Entity, bool) {
	return c.ctx.tree.Parent(entity)
}

// SetContext makes provider visible under name to every descendant of
// owner.
func (c *WidgetContext) SetContext(name string, owner, provider Entity) {
	c.contexts = append(c.contexts, contextIntent{name: name, owner: owner, provider: provider})
}

// RemoveContext drops owner's registration of name.
func (c *WidgetContext) RemoveContext(name string, owner Entity) {
	c.contexts = append(c.contexts, contextIntent{name: name, owner: owner, remove: true})
}

// GetContext returns the provider registered under name on the nearest
// strict ancestor of entity.
func (c *WidgetContext) GetContext(name string, entity Entity) (Entity, bool) {
	return c.ctx.contexts.GetNearest(name, entity, c.ctx.tree)
}

// IsMounted reports whether entity was inserted during this frame.
func (c *WidgetContext) IsMounted(entity Entity) bool {
	return hasTag(c.ctx.world, entity, Mounted)
}

// IsDirty reports whether entity is marked for recomputation.
func (c *WidgetContext) IsDirty(entity Entity) bool {
	return hasTag(c.ctx.world, entity, Dirty)
}

// Changed reports whether entity was mounted this frame or marked dirty,
// the usual test an update routine returns.
func (c *WidgetContext) Changed(entity Entity) bool {
	return c.IsMounted(entity) || c.IsDirty(entity)
}

// SetContextOf registers provider for the Go type T on owner's subtree.
func SetContextOf[T any](c *WidgetContext, owner, provider Entity) {
	c.SetContext(ContextName[T](), owner, provider)
}

// ContextOf returns the nearest provider registered for the Go type T.
func ContextOf[T any](c *WidgetContext, entity Entity) (Entity, bool) {
	return c.GetContext(ContextName[T](), entity)
}

// applyDeclared attaches every declared child list to the scratch tree, the
// widget's own list first, and returns how many levels below the widget
// were touched. A list is applied once its parent is attached, so children
// may be declared in any order. Lists whose parent never attaches are
// dropped.
func (c *WidgetContext) applyDeclared() uint32 {
	c.scratch.ReplaceChildren(c.entity, c.declared[c.entity])
	var depth uint32
	pending := make([]Entity, 0, len(c.parents))
	for _, p := range c.parents {
		if p != c.entity {
			pending = append(pending, p)
		}
	}
	for progress := true; progress && len(pending) > 0; {
		progress = false
		rest := pending[:0]
		for _, p := range pending {
			if !c.scratch.Contains(p) {
				rest = append(rest, p)
				continue
			}
			c.scratch.ReplaceChildren(p, c.declared[p])
			progress = true
			var d uint32
			for a := range c.scratch.Ancestors(p) {
				d++
				if a == c.entity {
					break
				}
			}
			depth = max(depth, d)
		}
		pending = rest
	}
	for _, p := range pending {
		c.ctx.logger.Debug("children declared under a detached parent", "widget", c.entity, "parent", p)
	}
	return depth
}

// applyContexts writes the recorded context intents to the registry.
func (c *WidgetContext) applyContexts() {
	for _, in := range c.contexts {
		if in.remove {
			c.ctx.contexts.Remove(in.name, in.owner)
			continue
		}
		c.ctx.contexts.Set(in.name, in.owner, in.provider)
	}
}
