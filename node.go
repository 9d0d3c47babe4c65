package fern

// Node is the computed form of a widget: its resolved style, a copy of the
// raw style it was resolved from, the render primitive it produces, and its
// z-order. Nodes are stored on the entity through NodeComponent and are
// always replaced wholesale.
type Node struct {
	Entity        Entity
	Children      []Entity
	ResolvedStyle Style
	RawStyle      *Style
	Primitive     Primitive
	Z             float64
}

// Renderable reports whether the node takes part in the renderable tree.
func (n *Node) Renderable() bool {
	return n.ResolvedStyle.RenderCommand.Resolve().Kind != RenderEmpty
}

// NodeBuilder assembles a Node step by step.
type NodeBuilder struct {
	node Node
}

// NewNodeBuilder starts a node for entity.
func NewNodeBuilder(entity Entity) *NodeBuilder {
	return &NodeBuilder{node: Node{Entity: entity}}
}

// WithStyles sets the resolved style and the raw style it came from. The
// raw style is copied.
func (b *NodeBuilder) WithStyles(resolved Style, raw *Style) *NodeBuilder {
	b.node.ResolvedStyle = resolved
	if raw != nil {
		cp := *raw
		b.node.RawStyle = &cp
	}
	return b
}

// WithChildren records the node's children at build time.
func (b *NodeBuilder) WithChildren(children []Entity) *NodeBuilder {
	b.node.Children = append([]Entity(nil), children...)
	return b
}

func (b *NodeBuilder) WithPrimitive(p Primitive) *NodeBuilder {
	b.node.Primitive = p
	return b
}

func (b *NodeBuilder) WithZ(z float64) *NodeBuilder {
	b.node.Z = z
	return b
}

// Build returns the finished node.
func (b *NodeBuilder) Build() Node {
	return b.node
}
