package fern

import (
	"github.com/phanxgames/fern/layout"
	"github.com/yohamta/donburi"
)

// LayoutEngine solves geometry for the renderable tree. box reads a node's
// layout properties with every fallback already applied; place receives each
// solved rectangle. layout.Solver satisfies it.
type LayoutEngine interface {
	Solve(root Entity, bounds layout.Rect, h layout.Hierarchy[Entity], box func(Entity) layout.Box, place func(Entity, layout.Rect))
}

// LayoutFlags describe how a solved rectangle changed.
type LayoutFlags uint8

const (
	LayoutMoved LayoutFlags = 1 << iota
	LayoutResized
)

// LayoutEvent is delivered to OnLayout handlers when an entity's geometry
// changes.
type LayoutEvent struct {
	Entity Entity
	Layout Rect
	Flags  LayoutFlags
}

type layoutChange struct {
	entity Entity
	old    Rect
	rect   Rect
}

// calculate resolves dirty nodes and solves layout until nothing is dirty
// and no geometry changes, or the iteration cap is reached.
func (c *Context) calculate() {
	iterations := c.config.layoutIterations()
	converged := false
	for i := 0; i < iterations; i++ {
		pending := c.calculateNodes()
		c.nodeTree = c.buildNodesTree()
		changes := c.solve()
		c.stats.LayoutIterations++
		c.dispatchLayout(changes)
		if pending == 0 && len(changes) == 0 {
			converged = true
			break
		}
	}
	if !converged {
		c.logger.Debug("layout did not converge", "iterations", iterations)
	}
}

// calculateNodes rebuilds the node of every dirty entity, parents first.
// It returns how many nodes still need another pass.
func (c *Context) calculateNodes() int {
	var dirty []Entity
	for e := range c.tree.DownIter() {
		if hasTag(c.world, e, Dirty) {
			dirty = append(dirty, e)
		}
	}

	pending := 0
	for _, e := range dirty {
		raw, _ := styleOf(c.world, e)
		resolved := raw.Resolved(c.parentStyle(e))

		prim, ready := c.createPrimitive(e, &resolved)

		var z float64
		if p, ok := c.tree.Parent(e); ok {
			if pn, ok := nodeOf(c.world, p); ok {
				z = pn.Z + 1
			}
		}

		node := NewNodeBuilder(e).
			WithStyles(resolved, &raw).
			WithChildren(c.tree.Children(e)).
			WithPrimitive(prim).
			WithZ(z).
			Build()
		setComponent(c.world, e, NodeComponent, node)
		c.layout.setZ(e, z)

		if e == c.tree.Root() {
			c.seedRoot(&resolved)
		}

		if ready {
			removeTag(c.world, e, Dirty)
		} else {
			pending++
		}
	}
	c.stats.NodesBuilt += len(dirty)
	return pending
}

// parentStyle returns the resolved style of e's nearest ancestor that
// renders something.
func (c *Context) parentStyle(e Entity) Style {
	for a := range c.tree.Ancestors(e) {
		if n, ok := nodeOf(c.world, a); ok {
			if n.Renderable() {
				return n.ResolvedStyle
			}
			continue
		}
		if raw, ok := styleOf(c.world, a); ok && raw.RenderCommand.Resolve().Kind != RenderEmpty {
			return raw.Resolved(DefaultStyle())
		}
	}
	return DefaultStyle()
}

// validParent returns the nearest renderable ancestor of e whose geometry
// has been solved.
func (c *Context) validParent(e Entity) (Rect, bool) {
	for a := range c.tree.Ancestors(e) {
		n, ok := nodeOf(c.world, a)
		if !ok || !n.Renderable() {
			continue
		}
		if !c.layout.Solved(a) {
			return Rect{}, false
		}
		return c.layout.Get(a)
	}
	return Rect{}, false
}

// createPrimitive maps the resolved style to a primitive. Text is measured
// against its parent's size, so it reports false until the font is
// registered and the parent has been laid out. Measured sizes fill default
// width and height.
func (c *Context) createPrimitive(e Entity, resolved *Style) (Primitive, bool) {
	p := PrimitiveFromStyle(resolved)
	p.Entity = e
	if p.Kind != PrimitiveText {
		return p, true
	}

	font, ok := c.fonts.Get(p.Font)
	if !ok {
		return p, false
	}
	parent, ok := c.validParent(e)
	if !ok {
		return p, false
	}
	p.Properties.MaxSize = Vec2{X: parent.Width, Y: parent.Height}
	p.TextLayout = font.Measure(p.Content, p.Properties)
	if resolved.Width.State == PropDefault {
		resolved.Width = Value(Pixels(p.TextLayout.Size.X))
	}
	if resolved.Height.State == PropDefault {
		resolved.Height = Value(Pixels(p.TextLayout.Size.Y))
	}
	return p, true
}

// seedRoot stores the root's explicit pixel size as a first geometry guess.
func (c *Context) seedRoot(s *Style) {
	w := s.Width.ResolveOr(Auto())
	h := s.Height.ResolveOr(Auto())
	if w.Kind != layout.UnitPixels && h.Kind != layout.UnitPixels {
		return
	}
	c.layout.seed(c.tree.Root(), Rect{Width: w.ValueOr(0, 0), Height: h.ValueOr(0, 0)})
}

// buildNodesTree projects the widget tree onto the nodes that render
// something. Children of elided nodes attach to the nearest renderable
// ancestor. The root is always kept.
func (c *Context) buildNodesTree() *Tree {
	nt := NewTree()
	root := c.tree.Root()
	if root == donburi.Null {
		return nt
	}
	nt.Add(root, donburi.Null)

	var walk func(e, attach Entity)
	walk = func(e, attach Entity) {
		for _, child := range c.tree.Children(e) {
			next := attach
			if n, ok := nodeOf(c.world, child); ok && n.Renderable() {
				nt.Add(child, attach)
				next = child
			}
			walk(child, next)
		}
	}
	walk(root, root)
	return nt
}

// solve runs the layout engine over the renderable tree and returns the
// entities whose geometry changed.
func (c *Context) solve() []layoutChange {
	root := c.nodeTree.Root()
	if root == donburi.Null || c.engine == nil {
		return nil
	}

	bounds := layout.Rect{Width: c.windowSize.X, Height: c.windowSize.Y}
	if bounds.Width == 0 && bounds.Height == 0 {
		if r, ok := c.layout.Get(root); ok {
			bounds.Width, bounds.Height = r.Width, r.Height
		}
	}

	var changes []layoutChange
	c.engine.Solve(root, bounds, c.nodeTree, c.boxFor, func(e Entity, r layout.Rect) {
		old, _ := c.layout.Get(e)
		rect := Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, Z: old.Z}
		if c.layout.Set(e, rect) {
			changes = append(changes, layoutChange{entity: e, old: old, rect: rect})
		}
	})

	// Text wraps against its parent, so a resized parent re-measures its
	// text children.
	for _, ch := range changes {
		if ch.old.Width == ch.rect.Width && ch.old.Height == ch.rect.Height {
			continue
		}
		for _, child := range c.nodeTree.Children(ch.entity) {
			if n, ok := nodeOf(c.world, child); ok && n.Primitive.Kind == PrimitiveText {
				addTag(c.world, child, Dirty)
			}
		}
	}
	return changes
}

// dispatchLayout notifies OnLayout handlers and publishes layout events.
func (c *Context) dispatchLayout(changes []layoutChange) {
	for _, ch := range changes {
		var flags LayoutFlags
		if ch.old.X != ch.rect.X || ch.old.Y != ch.rect.Y {
			flags |= LayoutMoved
		}
		if ch.old.Width != ch.rect.Width || ch.old.Height != ch.rect.Height {
			flags |= LayoutResized
		}
		ev := LayoutEvent{Entity: ch.entity, Layout: ch.rect, Flags: flags}
		LayoutEventType.Publish(c.world, ev)

		if !c.world.Valid(ch.entity) {
			continue
		}
		entry := c.world.Entry(ch.entity)
		if entry.HasComponent(OnLayoutComponent) {
			if h := OnLayoutComponent.Get(entry).Handler; h != nil {
				h(c, ev)
			}
		}
	}
}

// boxFor reads e's layout properties from its resolved style, with the
// fallbacks the solver expects for anything not set explicitly.
func (c *Context) boxFor(e Entity) layout.Box {
	n, ok := nodeOf(c.world, e)
	if !ok {
		return layout.Box{Width: Stretch(1), Height: Stretch(1)}
	}
	s := &n.ResolvedStyle
	return layout.Box{
		LayoutType:   s.LayoutType.ResolveOr(LayoutColumn),
		PositionType: s.PositionType.ResolveOr(ParentDirected),

		Width:     s.Width.ResolveOr(Stretch(1)),
		Height:    s.Height.ResolveOr(Stretch(1)),
		MinWidth:  minUnits(s.MinWidth),
		MinHeight: minUnits(s.MinHeight),
		MaxWidth:  s.MaxWidth.ResolveOr(Auto()),
		MaxHeight: s.MaxHeight.ResolveOr(Auto()),

		Left:   side(s.Left, s.Offset, func(e Edge[Units]) Units { return e.Left }),
		Right:  side(s.Right, s.Offset, func(e Edge[Units]) Units { return e.Right }),
		Top:    side(s.Top, s.Offset, func(e Edge[Units]) Units { return e.Top }),
		Bottom: side(s.Bottom, s.Offset, func(e Edge[Units]) Units { return e.Bottom }),

		ChildLeft:   side(s.PaddingLeft, s.Padding, func(e Edge[Units]) Units { return e.Left }),
		ChildRight:  side(s.PaddingRight, s.Padding, func(e Edge[Units]) Units { return e.Right }),
		ChildTop:    side(s.PaddingTop, s.Padding, func(e Edge[Units]) Units { return e.Top }),
		ChildBottom: side(s.PaddingBottom, s.Padding, func(e Edge[Units]) Units { return e.Bottom }),

		RowBetween: s.RowBetween.ResolveOr(Auto()),
		ColBetween: s.ColBetween.ResolveOr(Auto()),
	}
}

func minUnits(p StyleProp[Units]) Units {
	switch p.State {
	case PropValue:
		return p.V
	case PropDefault:
		return Pixels(0)
	}
	return Auto()
}

// side resolves one spacing side: an explicit side wins, then the
// all-sides property.
func side(p StyleProp[Units], all StyleProp[Edge[Units]], pick func(Edge[Units]) Units) Units {
	switch p.State {
	case PropValue:
		return p.V
	case PropDefault:
		if all.State == PropValue {
			return pick(all.V)
		}
	}
	return Auto()
}
