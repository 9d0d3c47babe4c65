// Package widgets is a small catalog of fern widgets: containers, text,
// images and a button. Call Register once per context, then build trees with
// the New* constructors.
//
// Routines only rebuild a widget when it was mounted this frame or marked
// dirty, so after mutating a widget's components call Context.MarkDirty.
package widgets

import (
	"github.com/phanxgames/fern"
	"github.com/yohamta/donburi"
)

// Widget type names.
const (
	App          = "App"
	Element      = "Element"
	Background   = "Background"
	Clip         = "Clip"
	Text         = "Text"
	Image        = "Image"
	TextureAtlas = "TextureAtlas"
	NinePatch    = "NinePatch"
	Button       = "Button"
)

// TextData is the content of a Text widget.
type TextData struct {
	Content string
	// Font names a font registered with the context's FontMapping. Empty
	// inherits the parent's font.
	Font string
	// LineHeight in pixels. Zero inherits.
	LineHeight float64
	// Size in pixels. Zero or negative inherits.
	Size float64
}

// ImageData references an image in the host's asset store.
type ImageData struct {
	Handle fern.ImageHandle
}

// AtlasData is one tile of a texture atlas page.
type AtlasData struct {
	Handle   fern.ImageHandle
	Position fern.Vec2
	TileSize fern.Vec2
}

// NinePatchData is a nine-sliced image. Border holds the slice insets in
// source pixels.
type NinePatchData struct {
	Handle fern.ImageHandle
	Border fern.Edge[float64]
}

// ButtonData holds a button's click callback. OnClick also fires for Enter
// and Space while the button is focused.
type ButtonData struct {
	OnClick func(ctx *fern.EventDispatcherContext, ev fern.Event)
}

var (
	TextComponent         = donburi.NewComponentType[TextData]()
	ImageComponent        = donburi.NewComponentType[ImageData]()
	TextureAtlasComponent = donburi.NewComponentType[AtlasData]()
	NinePatchComponent    = donburi.NewComponentType[NinePatchData]()
	ButtonComponent       = donburi.NewComponentType[ButtonData]()
)

// Register binds every widget routine in the catalog to ctx.
func Register(ctx *fern.Context) {
	ctx.AddWidgetSystem(App, updateApp)
	ctx.AddWidgetSystem(Element, containerUpdate(fern.CommandLayout()))
	ctx.AddWidgetSystem(Background, containerUpdate(fern.CommandQuad()))
	ctx.AddWidgetSystem(Clip, updateClip)
	ctx.AddWidgetSystem(Text, updateText)
	ctx.AddWidgetSystem(Image, updateImage)
	ctx.AddWidgetSystem(TextureAtlas, updateTextureAtlas)
	ctx.AddWidgetSystem(NinePatch, updateNinePatch)
	ctx.AddWidgetSystem(Button, updateButton)
}

// --- Constructors ---

func create(w donburi.World, name string, style fern.Style, children []fern.Entity, extra ...donburi.IComponentType) fern.Entity {
	comps := append([]donburi.IComponentType{
		fern.StyleComponent, fern.WidgetNameComponent, fern.ChildrenComponent,
	}, extra...)
	e := w.Create(comps...)
	entry := w.Entry(e)
	fern.StyleComponent.SetValue(entry, style)
	fern.WidgetNameComponent.SetValue(entry, fern.WidgetName(name))
	fern.ChildrenComponent.SetValue(entry, fern.ChildList(children...))
	return e
}

// NewApp creates the root widget. It sizes itself to the window.
func NewApp(w donburi.World, style fern.Style, children ...fern.Entity) fern.Entity {
	return create(w, App, style, children)
}

// NewElement creates a layout-only container.
func NewElement(w donburi.World, style fern.Style, children ...fern.Entity) fern.Entity {
	return create(w, Element, style, children)
}

// NewBackground creates a container that paints a quad behind its
// children.
func NewBackground(w donburi.World, style fern.Style, children ...fern.Entity) fern.Entity {
	return create(w, Background, style, children)
}

// NewClip creates a container that clips its children to its bounds. It
// stretches to fill its parent unless sized.
func NewClip(w donburi.World, style fern.Style, children ...fern.Entity) fern.Entity {
	return create(w, Clip, style, children)
}

// NewText creates a text widget.
func NewText(w donburi.World, style fern.Style, text TextData) fern.Entity {
	e := create(w, Text, style, nil, TextComponent)
	TextComponent.SetValue(w.Entry(e), text)
	return e
}

// NewImage creates an image widget.
func NewImage(w donburi.World, style fern.Style, handle fern.ImageHandle) fern.Entity {
	e := create(w, Image, style, nil, ImageComponent)
	ImageComponent.SetValue(w.Entry(e), ImageData{Handle: handle})
	return e
}

// NewTextureAtlas creates a widget showing one atlas tile.
func NewTextureAtlas(w donburi.World, style fern.Style, tile AtlasData) fern.Entity {
	e := create(w, TextureAtlas, style, nil, TextureAtlasComponent)
	TextureAtlasComponent.SetValue(w.Entry(e), tile)
	return e
}

// NewAtlasTile creates a TextureAtlas widget for a named region of a
// loaded atlas. It reports false if the atlas has no such region.
func NewAtlasTile(w donburi.World, style fern.Style, atlas *fern.Atlas, name string) (fern.Entity, bool) {
	t, ok := atlas.Tile(name)
	if !ok {
		return donburi.Null, false
	}
	return NewTextureAtlas(w, style, AtlasData{Handle: t.Page, Position: t.Position, TileSize: t.Size}), true
}

// NewNinePatch creates a nine-sliced image container.
func NewNinePatch(w donburi.World, style fern.Style, patch NinePatchData, children ...fern.Entity) fern.Entity {
	e := create(w, NinePatch, style, children, NinePatchComponent)
	NinePatchComponent.SetValue(w.Entry(e), patch)
	return e
}

// NewButton creates a focusable button. onClick may be nil.
func NewButton(w donburi.World, style fern.Style, onClick func(*fern.EventDispatcherContext, fern.Event), children ...fern.Entity) fern.Entity {
	e := create(w, Button, style, children, ButtonComponent, fern.OnEventComponent, fern.Focusable)
	entry := w.Entry(e)
	ButtonComponent.SetValue(entry, ButtonData{OnClick: onClick})
	fern.OnEventComponent.SetValue(entry, fern.OnEvent{Handler: buttonEvent})
	return e
}

// --- Routines ---

func styleOf(ctx *fern.WidgetContext, e fern.Entity) *fern.Style {
	entry := ctx.World().Entry(e)
	if !entry.HasComponent(fern.StyleComponent) {
		entry.AddComponent(fern.StyleComponent)
	}
	return fern.StyleComponent.Get(entry)
}

func buildChildren(ctx *fern.WidgetContext, e fern.Entity) {
	entry := ctx.World().Entry(e)
	if !entry.HasComponent(fern.ChildrenComponent) {
		return
	}
	if b := fern.ChildrenComponent.Get(entry).Build; b != nil {
		b(ctx, e)
	}
}

// containerUpdate returns a routine that forces cmd and declares the
// widget's children whenever it changed.
func containerUpdate(cmd fern.RenderCommand) fern.UpdateFunc {
	return func(ctx *fern.WidgetContext, e fern.Entity) bool {
		if !ctx.Changed(e) {
			return false
		}
		styleOf(ctx, e).RenderCommand = fern.Value(cmd)
		buildChildren(ctx, e)
		return true
	}
}

func updateApp(ctx *fern.WidgetContext, e fern.Entity) bool {
	size := ctx.Context().WindowSize()
	s := styleOf(ctx, e)
	changed := ctx.Changed(e)
	if w := fern.Value(fern.Pixels(size.X)); s.Width != w {
		s.Width = w
		changed = true
	}
	if h := fern.Value(fern.Pixels(size.Y)); s.Height != h {
		s.Height = h
		changed = true
	}
	s.RenderCommand = fern.Value(fern.CommandLayout())
	if changed {
		buildChildren(ctx, e)
	}
	return changed
}

func updateClip(ctx *fern.WidgetContext, e fern.Entity) bool {
	if !ctx.Changed(e) {
		return false
	}
	s := styleOf(ctx, e)
	s.RenderCommand = fern.Value(fern.CommandClip())
	s.Apply(fern.Style{
		Width:  fern.Value(fern.Stretch(1)),
		Height: fern.Value(fern.Stretch(1)),
	})
	buildChildren(ctx, e)
	return true
}

func updateText(ctx *fern.WidgetContext, e fern.Entity) bool {
	entry := ctx.World().Entry(e)
	if !ctx.Changed(e) || !entry.HasComponent(TextComponent) {
		return false
	}
	t := TextComponent.Get(entry)
	s := styleOf(ctx, e)
	s.RenderCommand = fern.Value(fern.CommandText(t.Content))
	if t.Font != "" {
		s.Font = fern.Value(t.Font)
	}
	if t.Size > 0 {
		s.FontSize = fern.Value(t.Size)
	}
	if t.LineHeight > 0 {
		s.LineHeight = fern.Value(t.LineHeight)
	}
	return true
}

func updateImage(ctx *fern.WidgetContext, e fern.Entity) bool {
	entry := ctx.World().Entry(e)
	if !ctx.Changed(e) || !entry.HasComponent(ImageComponent) {
		return false
	}
	styleOf(ctx, e).RenderCommand = fern.Value(fern.CommandImage(ImageComponent.Get(entry).Handle))
	return true
}

func updateTextureAtlas(ctx *fern.WidgetContext, e fern.Entity) bool {
	entry := ctx.World().Entry(e)
	if !ctx.Changed(e) || !entry.HasComponent(TextureAtlasComponent) {
		return false
	}
	a := TextureAtlasComponent.Get(entry)
	styleOf(ctx, e).RenderCommand = fern.Value(fern.CommandTextureAtlas(a.Handle, a.Position, a.TileSize))
	return true
}

func updateNinePatch(ctx *fern.WidgetContext, e fern.Entity) bool {
	entry := ctx.World().Entry(e)
	if !ctx.Changed(e) || !entry.HasComponent(NinePatchComponent) {
		return false
	}
	p := NinePatchComponent.Get(entry)
	styleOf(ctx, e).RenderCommand = fern.Value(fern.CommandNinePatch(p.Handle, p.Border))
	buildChildren(ctx, e)
	return true
}

// ButtonColor is the default button background.
var ButtonColor = fern.Color{R: 0.0781, G: 0.0898, B: 0.101, A: 1}

func buttonStyle() fern.Style {
	return fern.Style{
		RenderCommand:   fern.Value(fern.CommandQuad()),
		BackgroundColor: fern.Value(ButtonColor),
		BorderRadius:    fern.Value(fern.CornerAll(5.0)),
		Height:          fern.Value(fern.Pixels(45)),
		PaddingLeft:     fern.Value(fern.Stretch(1)),
		PaddingRight:    fern.Value(fern.Stretch(1)),
		PaddingTop:      fern.Value(fern.Stretch(1)),
		PaddingBottom:   fern.Value(fern.Stretch(1)),
	}
}

func updateButton(ctx *fern.WidgetContext, e fern.Entity) bool {
	if !ctx.Changed(e) {
		return false
	}
	styleOf(ctx, e).Apply(buttonStyle())
	buildChildren(ctx, e)
	return true
}

// buttonEvent activates on clicks anywhere inside the button. A handled
// activation stops propagation so enclosing buttons do not fire.
func buttonEvent(ctx *fern.EventDispatcherContext, ev fern.Event, e fern.Entity) fern.Event {
	activate := ev.Type == fern.EventClick ||
		(ev.Type == fern.EventKeyDown && (ev.Key == fern.KeyEnter || ev.Key == fern.KeySpace))
	if !activate {
		return ev
	}
	entry := ctx.World().Entry(e)
	if entry.HasComponent(ButtonComponent) {
		if fn := ButtonComponent.Get(entry).OnClick; fn != nil {
			fn(ctx, ev)
		}
	}
	ev.StopPropagation()
	return ev
}
