// Package layout is a small box/stack layout solver for fern's renderable
// node tree.
//
// Nodes are laid out in rows or columns inside their parent's content box
// (the parent rect minus child spacing). Sizes are expressed in [Units]:
// fixed pixels, a percentage of the parent, a stretch factor that shares the
// remaining free space, or Auto which sizes a node from its children.
// Self-directed nodes ignore their siblings and are placed relative to the
// parent's content box.
//
// The solver never owns the tree; it walks a [Hierarchy] and reads per-node
// [Box] properties through an accessor, writing results through a callback.
package layout

import "math"

// UnitKind identifies how a Units value is interpreted.
type UnitKind uint8

const (
	UnitAuto       UnitKind = iota // size from content, or zero for spacing
	UnitPixels                     // fixed size in pixels
	UnitPercentage                 // percentage (0-100) of the parent's size
	UnitStretch                    // share of the remaining free space
)

// Units is a length used for sizes and spacing.
type Units struct {
	Kind  UnitKind
	Value float64
}

// Auto returns an Auto length.
func Auto() Units { return Units{Kind: UnitAuto} }

// Pixels returns a fixed length.
func Pixels(v float64) Units { return Units{Kind: UnitPixels, Value: v} }

// Percentage returns a length relative to the parent (0-100).
func Percentage(v float64) Units { return Units{Kind: UnitPercentage, Value: v} }

// Stretch returns a flexible length with the given factor.
func Stretch(f float64) Units { return Units{Kind: UnitStretch, Value: f} }

// IsAuto reports whether u is Auto.
func (u Units) IsAuto() bool { return u.Kind == UnitAuto }

// IsStretch reports whether u is a stretch factor.
func (u Units) IsStretch() bool { return u.Kind == UnitStretch }

// ValueOr resolves u against parent. Pixels and percentages resolve to a
// length; Auto and Stretch resolve to auto.
func (u Units) ValueOr(parent, auto float64) float64 {
	switch u.Kind {
	case UnitPixels:
		return u.Value
	case UnitPercentage:
		return parent * u.Value / 100
	default:
		return auto
	}
}

// LayoutType selects the main axis children are stacked along.
type LayoutType uint8

const (
	Column LayoutType = iota // children stack top to bottom
	Row                      // children stack left to right
)

// PositionType selects whether a node takes part in its parent's flow.
type PositionType uint8

const (
	ParentDirected PositionType = iota // placed by the parent's stacking
	SelfDirected                       // placed by its own Left/Top, out of flow
)

// Rect is a solved node rectangle in absolute coordinates. The origin is at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Box is the set of layout properties the solver reads for one node.
// Zero values mean Auto lengths, Column layout, and parent-directed
// positioning.
type Box struct {
	LayoutType   LayoutType
	PositionType PositionType

	Width, Height       Units
	MinWidth, MinHeight Units
	MaxWidth, MaxHeight Units

	// Space around the node.
	Left, Right, Top, Bottom Units

	// Space between the node's edges and its children.
	ChildLeft, ChildRight, ChildTop, ChildBottom Units

	// Space between consecutive children.
	ColBetween, RowBetween Units
}

// clamp applies min/max constraints. Unset (Auto) bounds are ignored.
func clamp(v float64, min, max Units, parent float64) float64 {
	lo := min.ValueOr(parent, 0)
	hi := max.ValueOr(parent, math.Inf(1))
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
