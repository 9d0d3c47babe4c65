package fern

import "github.com/yohamta/donburi"

// primitiveBuilder flattens the renderable tree into paint order.
type primitiveBuilder struct {
	world  donburi.World
	layout *LayoutCache
	nodes  *Tree
	z      float64
	out    []Primitive
}

// buildPrimitives walks the renderable tree in pre-order. Every visited
// node advances the running z-index. A clip paints just below its counter
// value, and after each child subtree under an active clip a copy of that
// clip is pushed just above the counter to restore the region for the next
// sibling.
func (c *Context) buildPrimitives() []Primitive {
	b := primitiveBuilder{
		world:  c.world,
		layout: c.layout,
		nodes:  c.nodeTree,
		out:    make([]Primitive, 0, len(c.primitives)),
	}
	root := c.nodeTree.Root()
	if root == donburi.Null {
		return b.out
	}
	b.visit(root, nil)
	return b.out
}

func (b *primitiveBuilder) visit(e Entity, clip *Primitive) {
	b.z++
	if n, ok := nodeOf(b.world, e); ok {
		p := n.Primitive
		p.Entity = e
		p.Layout, _ = b.layout.Get(e)
		p.Layout.Z = b.z
		if p.Kind == PrimitiveClip {
			p.Layout.Z = b.z - 0.1
			active := p
			clip = &active
		}
		b.out = append(b.out, p)
	}

	for _, child := range b.nodes.Children(e) {
		b.visit(child, clip)
		if clip != nil {
			reset := *clip
			reset.Layout.Z = b.z + 0.1
			b.out = append(b.out, reset)
		}
	}
}

// Primitives returns the primitive list built by the last Update, including
// Empty entries for layout-only nodes. Each Update builds a new list, so a
// returned slice is never modified by later frames.
func (c *Context) Primitives() []Primitive {
	return c.primitives
}

// DrawablePrimitives returns a copy of the last primitive list without its
// Empty entries.
func (c *Context) DrawablePrimitives() []Primitive {
	out := make([]Primitive, 0, len(c.primitives))
	for _, p := range c.primitives {
		if p.Kind != PrimitiveEmpty {
			out = append(out, p)
		}
	}
	return out
}
