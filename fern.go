package fern

import (
	"github.com/phanxgames/fern/layout"
	"github.com/yohamta/donburi"
)

// Entity is the host ECS identity every widget is keyed by.
type Entity = donburi.Entity

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent is fully transparent white, the fallback for unset
// background and border colors.
var ColorTransparent = Color{1, 1, 1, 0}

// Vec2 is a 2D vector used for positions and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is a solved geometry rectangle plus the z-index it paints at. The
// coordinate system has its origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
	Z                   float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// SameGeometry reports whether r and other cover the same area, ignoring Z.
func (r Rect) SameGeometry(other Rect) bool {
	return r.X == other.X && r.Y == other.Y &&
		r.Width == other.Width && r.Height == other.Height
}

// Edge holds one value per side, clockwise from the top.
type Edge[T any] struct {
	Top, Right, Bottom, Left T
}

// EdgeAll returns an Edge with the same value on every side.
func EdgeAll[T any](v T) Edge[T] {
	return Edge[T]{v, v, v, v}
}

// Corner holds one value per corner, clockwise from the top-left.
type Corner[T any] struct {
	TopLeft, TopRight, BottomRight, BottomLeft T
}

// CornerAll returns a Corner with the same value on every corner.
func CornerAll[T any](v T) Corner[T] {
	return Corner[T]{v, v, v, v}
}

// Layout types are shared with the layout solver so style values pass
// through to it unchanged.
type (
	Units        = layout.Units
	LayoutType   = layout.LayoutType
	PositionType = layout.PositionType
)

// Length constructors re-exported from the layout package.
var (
	Auto       = layout.Auto
	Pixels     = layout.Pixels
	Percentage = layout.Percentage
	Stretch    = layout.Stretch
)

const (
	LayoutColumn   = layout.Column
	LayoutRow      = layout.Row
	ParentDirected = layout.ParentDirected
	SelfDirected   = layout.SelfDirected
)

// DefaultFont is the font name used when a style does not set one.
const DefaultFont = "Fern-Default"
