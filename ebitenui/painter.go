package ebitenui

import (
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/phanxgames/fern"
)

// ImageStore is an in-memory fern.AssetStore of Ebitengine images.
type ImageStore struct {
	mu     sync.RWMutex
	images map[fern.ImageHandle]*ebiten.Image
}

// NewImageStore creates an empty store.
func NewImageStore() *ImageStore {
	return &ImageStore{images: make(map[fern.ImageHandle]*ebiten.Image)}
}

// Add registers img under h, replacing any previous image.
func (s *ImageStore) Add(h fern.ImageHandle, img *ebiten.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[h] = img
}

// Image implements fern.AssetStore.
func (s *ImageStore) Image(h fern.ImageHandle) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[h]
	return img, ok
}

// whitePixel is scaled and tinted for solid rectangles.
var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(image.White)
	return img
}()

// Painter draws a primitive list onto an Ebitengine image. Corner radii are
// not drawn. Text is drawn only for fonts that are *TTFFont, and images
// only for assets that are *ebiten.Image.
type Painter struct {
	Assets fern.AssetStore
	Fonts  *fern.FontMapping

	op ebiten.DrawImageOptions
}

// NewPainter creates a painter. Either argument may be nil.
func NewPainter(assets fern.AssetStore, fonts *fern.FontMapping) *Painter {
	return &Painter{Assets: assets, Fonts: fonts}
}

// Draw paints ps in order. A clip primitive replaces the active clip
// region with its own rect until the next clip primitive.
func (p *Painter) Draw(screen *ebiten.Image, ps []fern.Primitive) {
	target := screen
	for i := range ps {
		prim := &ps[i]
		switch prim.Kind {
		case fern.PrimitiveClip:
			target = subImage(screen, prim.Layout)
		case fern.PrimitiveQuad:
			p.drawQuad(target, prim)
		case fern.PrimitiveText:
			p.drawText(target, prim)
		case fern.PrimitiveImage:
			if img, ok := p.image(prim.Handle); ok {
				p.drawScaled(target, img, prim.Layout.X, prim.Layout.Y, prim.Layout.Width, prim.Layout.Height)
			}
		case fern.PrimitiveTextureAtlas:
			if img, ok := p.image(prim.Handle); ok {
				tile := subImage(img, fern.Rect{
					X: prim.TilePosition.X, Y: prim.TilePosition.Y,
					Width: prim.TileSize.X, Height: prim.TileSize.Y,
				})
				p.drawScaled(target, tile, prim.Layout.X, prim.Layout.Y, prim.Layout.Width, prim.Layout.Height)
			}
		case fern.PrimitiveNinePatch:
			if img, ok := p.image(prim.Handle); ok {
				p.drawNinePatch(target, img, prim)
			}
		}
	}
}

func (p *Painter) image(h fern.ImageHandle) (*ebiten.Image, bool) {
	if p.Assets == nil {
		return nil, false
	}
	a, ok := p.Assets.Image(h)
	if !ok {
		return nil, false
	}
	img, ok := a.(*ebiten.Image)
	return img, ok && img != nil
}

func subImage(img *ebiten.Image, r fern.Rect) *ebiten.Image {
	return img.SubImage(image.Rect(
		int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height),
	)).(*ebiten.Image)
}

// setColor loads c premultiplied into the draw options.
func (p *Painter) setColor(c fern.Color) {
	a := float32(c.A)
	p.op.ColorScale.Reset()
	p.op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
}

func (p *Painter) fillRect(dst *ebiten.Image, x, y, w, h float64, c fern.Color) {
	if w <= 0 || h <= 0 || c.A <= 0 {
		return
	}
	p.op.GeoM.Reset()
	p.op.GeoM.Scale(w, h)
	p.op.GeoM.Translate(x, y)
	p.setColor(c)
	dst.DrawImage(whitePixel, &p.op)
}

func (p *Painter) drawQuad(dst *ebiten.Image, prim *fern.Primitive) {
	r := prim.Layout
	p.fillRect(dst, r.X, r.Y, r.Width, r.Height, prim.BackgroundColor)
	b := prim.Border
	p.fillRect(dst, r.X, r.Y, r.Width, b.Top, prim.BorderColor)
	p.fillRect(dst, r.X, r.Y+r.Height-b.Bottom, r.Width, b.Bottom, prim.BorderColor)
	p.fillRect(dst, r.X, r.Y+b.Top, b.Left, r.Height-b.Top-b.Bottom, prim.BorderColor)
	p.fillRect(dst, r.X+r.Width-b.Right, r.Y+b.Top, b.Right, r.Height-b.Top-b.Bottom, prim.BorderColor)
}

func (p *Painter) drawText(dst *ebiten.Image, prim *fern.Primitive) {
	if p.Fonts == nil {
		return
	}
	m, ok := p.Fonts.Get(prim.Font)
	if !ok {
		return
	}
	f, ok := m.(*TTFFont)
	if !ok {
		return
	}
	face := f.Face(prim.Properties.FontSize)
	lh := prim.Properties.LineHeight
	if lh <= 0 {
		lh = lineHeight(face)
	}
	var op text.DrawOptions
	op.GeoM.Translate(prim.Layout.X, prim.Layout.Y)
	a := float32(prim.Color.A)
	op.ColorScale.Scale(float32(prim.Color.R)*a, float32(prim.Color.G)*a, float32(prim.Color.B)*a, a)
	op.LineSpacing = lh
	switch prim.Properties.Alignment {
	case fern.TextAlignCenter:
		op.PrimaryAlign = text.AlignCenter
		op.GeoM.Translate(prim.Layout.Width/2, 0)
	case fern.TextAlignRight:
		op.PrimaryAlign = text.AlignEnd
		op.GeoM.Translate(prim.Layout.Width, 0)
	}
	text.Draw(dst, prim.Content, face, &op)
}

func (p *Painter) drawScaled(dst, img *ebiten.Image, x, y, w, h float64) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || w <= 0 || h <= 0 {
		return
	}
	p.op.GeoM.Reset()
	p.op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	p.op.GeoM.Translate(x, y)
	p.op.ColorScale.Reset()
	dst.DrawImage(img, &p.op)
}

// drawNinePatch stretches the edges and center of img to fill the layout
// rect while the corners keep their source size.
func (p *Painter) drawNinePatch(dst, img *ebiten.Image, prim *fern.Primitive) {
	for _, s := range ninePatchSlices(img.Bounds(), prim.Insets, prim.Layout) {
		p.drawScaled(dst, img.SubImage(s.src).(*ebiten.Image), s.dst.X, s.dst.Y, s.dst.Width, s.dst.Height)
	}
}

type patchSlice struct {
	src image.Rectangle
	dst fern.Rect
}

// ninePatchSlices pairs each of the nine source regions of b with its
// destination in r. Empty regions are omitted.
func ninePatchSlices(b image.Rectangle, in fern.Edge[float64], r fern.Rect) []patchSlice {
	l, t := int(in.Left), int(in.Top)
	rt, bt := int(in.Right), int(in.Bottom)
	srcX := [4]int{b.Min.X, b.Min.X + l, b.Max.X - rt, b.Max.X}
	srcY := [4]int{b.Min.Y, b.Min.Y + t, b.Max.Y - bt, b.Max.Y}
	dstX := [4]float64{r.X, r.X + in.Left, r.X + r.Width - in.Right, r.X + r.Width}
	dstY := [4]float64{r.Y, r.Y + in.Top, r.Y + r.Height - in.Bottom, r.Y + r.Height}

	out := make([]patchSlice, 0, 9)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			src := image.Rect(srcX[col], srcY[row], srcX[col+1], srcY[row+1])
			dst := fern.Rect{
				X: dstX[col], Y: dstY[row],
				Width: dstX[col+1] - dstX[col], Height: dstY[row+1] - dstY[row],
			}
			if src.Empty() || dst.Width <= 0 || dst.Height <= 0 {
				continue
			}
			out = append(out, patchSlice{src: src, dst: dst})
		}
	}
	return out
}
