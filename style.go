package fern

// PropState says where a style property's value comes from.
type PropState uint8

const (
	PropUnset   PropState = iota // filled from the initial style during resolution
	PropDefault                  // use the property's default
	PropInherit                  // copy the nearest valid ancestor's resolved value
	PropValue                    // explicit value
)

// StyleProp is a single style property. The zero value is unset.
type StyleProp[T any] struct {
	State PropState
	V     T
}

// Value returns an explicitly set property.
func Value[T any](v T) StyleProp[T] {
	return StyleProp[T]{State: PropValue, V: v}
}

// DefaultProp returns a property that resolves to its default.
func DefaultProp[T any]() StyleProp[T] {
	return StyleProp[T]{State: PropDefault}
}

// InheritProp returns a property that takes its ancestor's resolved value.
func InheritProp[T any]() StyleProp[T] {
	return StyleProp[T]{State: PropInherit}
}

// IsSet reports whether the property holds an explicit value.
func (p StyleProp[T]) IsSet() bool { return p.State == PropValue }

// Resolve returns the explicit value, or T's zero value.
func (p StyleProp[T]) Resolve() T {
	return p.V
}

// ResolveOr returns the explicit value, or d for any other state.
func (p StyleProp[T]) ResolveOr(d T) T {
	if p.State == PropValue {
		return p.V
	}
	return d
}

func (p *StyleProp[T]) apply(other StyleProp[T]) {
	if p.State == PropUnset {
		*p = other
	}
}

func (p *StyleProp[T]) inherit(parent StyleProp[T]) {
	if p.State == PropInherit {
		*p = parent
	}
}

// PointerEvents controls which parts of a widget take part in hit testing.
type PointerEvents uint8

const (
	PointerEventsAll          PointerEvents = iota // the widget and its children
	PointerEventsSelfOnly                          // the widget but not its children
	PointerEventsChildrenOnly                      // the children but not the widget
	PointerEventsNone                              // neither
)

// Style is the raw, per-widget style component. Resolution fills unset
// properties from the initial style, then replaces inherited ones with the
// nearest valid ancestor's values.
type Style struct {
	RenderCommand StyleProp[RenderCommand]

	BackgroundColor StyleProp[Color]
	BorderColor     StyleProp[Color]
	Border          StyleProp[Edge[float64]]
	BorderRadius    StyleProp[Corner[float64]]

	Color      StyleProp[Color]
	Font       StyleProp[string]
	FontSize   StyleProp[float64]
	LineHeight StyleProp[float64]

	PointerEvents StyleProp[PointerEvents]

	LayoutType   StyleProp[LayoutType]
	PositionType StyleProp[PositionType]

	Width, Height       StyleProp[Units]
	MinWidth, MinHeight StyleProp[Units]
	MaxWidth, MaxHeight StyleProp[Units]

	// Offset sets all four outer spacings at once; individual sides win.
	Offset                   StyleProp[Edge[Units]]
	Left, Right, Top, Bottom StyleProp[Units]

	// Padding sets all four child spacings at once; individual sides win.
	Padding                                              StyleProp[Edge[Units]]
	PaddingLeft, PaddingRight, PaddingTop, PaddingBottom StyleProp[Units]
	RowBetween, ColBetween                               StyleProp[Units]
}

// InitialStyle returns the style every unset property starts from. Text
// properties and pointer events inherit; everything else uses defaults.
func InitialStyle() Style {
	return Style{
		RenderCommand:   Value(RenderCommand{Kind: RenderEmpty}),
		BackgroundColor: DefaultProp[Color](),
		BorderColor:     DefaultProp[Color](),
		Border:          DefaultProp[Edge[float64]](),
		BorderRadius:    DefaultProp[Corner[float64]](),
		Color:           InheritProp[Color](),
		Font:            InheritProp[string](),
		FontSize:        InheritProp[float64](),
		LineHeight:      InheritProp[float64](),
		PointerEvents:   InheritProp[PointerEvents](),
		LayoutType:      DefaultProp[LayoutType](),
		PositionType:    DefaultProp[PositionType](),
		Width:           DefaultProp[Units](),
		Height:          DefaultProp[Units](),
		MinWidth:        DefaultProp[Units](),
		MinHeight:       DefaultProp[Units](),
		MaxWidth:        DefaultProp[Units](),
		MaxHeight:       DefaultProp[Units](),
		Offset:          DefaultProp[Edge[Units]](),
		Left:            DefaultProp[Units](),
		Right:           DefaultProp[Units](),
		Top:             DefaultProp[Units](),
		Bottom:          DefaultProp[Units](),
		Padding:         DefaultProp[Edge[Units]](),
		PaddingLeft:     DefaultProp[Units](),
		PaddingRight:    DefaultProp[Units](),
		PaddingTop:      DefaultProp[Units](),
		PaddingBottom:   DefaultProp[Units](),
		RowBetween:      DefaultProp[Units](),
		ColBetween:      DefaultProp[Units](),
	}
}

// DefaultStyle is the style of a parent that has no style at all.
func DefaultStyle() Style {
	return Style{
		RenderCommand: Value(RenderCommand{Kind: RenderEmpty}),
		Color:         Value(ColorWhite),
		Font:          Value(DefaultFont),
		FontSize:      Value(14.0),
	}
}

// Apply fills every unset property of s from other.
func (s *Style) Apply(other Style) {
	s.RenderCommand.apply(other.RenderCommand)
	s.BackgroundColor.apply(other.BackgroundColor)
	s.BorderColor.apply(other.BorderColor)
	s.Border.apply(other.Border)
	s.BorderRadius.apply(other.BorderRadius)
	s.Color.apply(other.Color)
	s.Font.apply(other.Font)
	s.FontSize.apply(other.FontSize)
	s.LineHeight.apply(other.LineHeight)
	s.PointerEvents.apply(other.PointerEvents)
	s.LayoutType.apply(other.LayoutType)
	s.PositionType.apply(other.PositionType)
	s.Width.apply(other.Width)
	s.Height.apply(other.Height)
	s.MinWidth.apply(other.MinWidth)
	s.MinHeight.apply(other.MinHeight)
	s.MaxWidth.apply(other.MaxWidth)
	s.MaxHeight.apply(other.MaxHeight)
	s.Offset.apply(other.Offset)
	s.Left.apply(other.Left)
	s.Right.apply(other.Right)
	s.Top.apply(other.Top)
	s.Bottom.apply(other.Bottom)
	s.Padding.apply(other.Padding)
	s.PaddingLeft.apply(other.PaddingLeft)
	s.PaddingRight.apply(other.PaddingRight)
	s.PaddingTop.apply(other.PaddingTop)
	s.PaddingBottom.apply(other.PaddingBottom)
	s.RowBetween.apply(other.RowBetween)
	s.ColBetween.apply(other.ColBetween)
}

// Inherit replaces every inherited property of s with parent's value.
func (s *Style) Inherit(parent Style) {
	s.RenderCommand.inherit(parent.RenderCommand)
	s.BackgroundColor.inherit(parent.BackgroundColor)
	s.BorderColor.inherit(parent.BorderColor)
	s.Border.inherit(parent.Border)
	s.BorderRadius.inherit(parent.BorderRadius)
	s.Color.inherit(parent.Color)
	s.Font.inherit(parent.Font)
	s.FontSize.inherit(parent.FontSize)
	s.LineHeight.inherit(parent.LineHeight)
	if s.PointerEvents.State == PropInherit && parent.PointerEvents.ResolveOr(PointerEventsAll) == PointerEventsChildrenOnly {
		// children of a pass-through widget are hit normally
		s.PointerEvents = Value(PointerEventsAll)
	}
	s.PointerEvents.inherit(parent.PointerEvents)
	s.LayoutType.inherit(parent.LayoutType)
	s.PositionType.inherit(parent.PositionType)
	s.Width.inherit(parent.Width)
	s.Height.inherit(parent.Height)
	s.MinWidth.inherit(parent.MinWidth)
	s.MinHeight.inherit(parent.MinHeight)
	s.MaxWidth.inherit(parent.MaxWidth)
	s.MaxHeight.inherit(parent.MaxHeight)
	s.Offset.inherit(parent.Offset)
	s.Left.inherit(parent.Left)
	s.Right.inherit(parent.Right)
	s.Top.inherit(parent.Top)
	s.Bottom.inherit(parent.Bottom)
	s.Padding.inherit(parent.Padding)
	s.PaddingLeft.inherit(parent.PaddingLeft)
	s.PaddingRight.inherit(parent.PaddingRight)
	s.PaddingTop.inherit(parent.PaddingTop)
	s.PaddingBottom.inherit(parent.PaddingBottom)
	s.RowBetween.inherit(parent.RowBetween)
	s.ColBetween.inherit(parent.ColBetween)
}

// Resolved returns s with initial values applied and inherited properties
// taken from parent.
func (s Style) Resolved(parent Style) Style {
	s.Apply(InitialStyle())
	s.Inherit(parent)
	return s
}

// RenderCommandKind selects the primitive a widget renders as.
type RenderCommandKind uint8

const (
	// RenderEmpty renders nothing and is elided from the renderable tree;
	// its children attach to the nearest renderable ancestor.
	RenderEmpty RenderCommandKind = iota
	// RenderLayout renders nothing but takes part in layout.
	RenderLayout
	RenderClip
	RenderQuad
	RenderText
	RenderImage
	RenderTextureAtlas
	RenderNinePatch
)

var renderCommandNames = [...]string{
	"empty", "layout", "clip", "quad", "text", "image", "texture-atlas", "nine-patch",
}

func (k RenderCommandKind) String() string {
	if int(k) < len(renderCommandNames) {
		return renderCommandNames[k]
	}
	return "unknown"
}

// RenderCommand is a widget's render request plus the payload its kind
// needs.
type RenderCommand struct {
	Kind RenderCommandKind

	Content string      // text
	Handle  ImageHandle // image, texture atlas, nine patch

	// Texture atlas tile, in source pixels.
	Position, Size Vec2

	// Nine-patch insets, in source pixels.
	Insets Edge[float64]
}

// Render command constructors.
func CommandEmpty() RenderCommand  { return RenderCommand{Kind: RenderEmpty} }
func CommandLayout() RenderCommand { return RenderCommand{Kind: RenderLayout} }
func CommandClip() RenderCommand   { return RenderCommand{Kind: RenderClip} }
func CommandQuad() RenderCommand   { return RenderCommand{Kind: RenderQuad} }

func CommandText(content string) RenderCommand {
	return RenderCommand{Kind: RenderText, Content: content}
}

func CommandImage(h ImageHandle) RenderCommand {
	return RenderCommand{Kind: RenderImage, Handle: h}
}

func CommandTextureAtlas(h ImageHandle, position, size Vec2) RenderCommand {
	return RenderCommand{Kind: RenderTextureAtlas, Handle: h, Position: position, Size: size}
}

func CommandNinePatch(h ImageHandle, insets Edge[float64]) RenderCommand {
	return RenderCommand{Kind: RenderNinePatch, Handle: h, Insets: insets}
}
