package fern

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// StyleTween animates up to 4 numeric style properties of a widget at
// once. Call Update(dt) each frame; values are written to the widget's
// Style component and the widget is marked dirty. If the widget is
// despawned or loses its style, the tween stops.
//
// There is no global animation manager; callers drive Update themselves.
type StyleTween struct {
	ctx    *Context
	entity Entity
	tweens [4]*gween.Tween
	set    [4]func(s *Style, v float64)
	count  int
	Done   bool
}

// Update advances all tweens by dt seconds.
func (g *StyleTween) Update(dt float32) {
	if g.Done {
		return
	}
	w := g.ctx.world
	if !w.Valid(g.entity) || !w.Entry(g.entity).HasComponent(StyleComponent) {
		g.Done = true
		return
	}
	s := StyleComponent.Get(w.Entry(g.entity))

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.set[i](s, float64(val))
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.ctx.MarkDirty(g.entity)
}

func (g *StyleTween) add(from, to float64, duration float32, fn ease.TweenFunc, set func(*Style, float64)) {
	g.tweens[g.count] = gween.New(float32(from), float32(to), duration, fn)
	g.set[g.count] = set
	g.count++
}

func (c *Context) newStyleTween(e Entity) (*StyleTween, Style) {
	s, _ := styleOf(c.world, e)
	return &StyleTween{ctx: c, entity: e}, s
}

func pixelsOf(p StyleProp[Units]) float64 {
	return p.ResolveOr(Pixels(0)).ValueOr(0, 0)
}

// TweenSize animates Width and Height to pixel sizes.
func (c *Context) TweenSize(e Entity, toW, toH float64, duration float32, fn ease.TweenFunc) *StyleTween {
	g, s := c.newStyleTween(e)
	g.add(pixelsOf(s.Width), toW, duration, fn, func(s *Style, v float64) { s.Width = Value(Pixels(v)) })
	g.add(pixelsOf(s.Height), toH, duration, fn, func(s *Style, v float64) { s.Height = Value(Pixels(v)) })
	return g
}

// TweenOffset animates Left and Top to pixel offsets.
func (c *Context) TweenOffset(e Entity, toLeft, toTop float64, duration float32, fn ease.TweenFunc) *StyleTween {
	g, s := c.newStyleTween(e)
	g.add(pixelsOf(s.Left), toLeft, duration, fn, func(s *Style, v float64) { s.Left = Value(Pixels(v)) })
	g.add(pixelsOf(s.Top), toTop, duration, fn, func(s *Style, v float64) { s.Top = Value(Pixels(v)) })
	return g
}

// TweenBackground animates all four components of BackgroundColor.
func (c *Context) TweenBackground(e Entity, to Color, duration float32, fn ease.TweenFunc) *StyleTween {
	g, s := c.newStyleTween(e)
	from := s.BackgroundColor.ResolveOr(ColorTransparent)
	channel := func(get func(*Color) *float64) func(*Style, float64) {
		return func(s *Style, v float64) {
			col := s.BackgroundColor.ResolveOr(ColorTransparent)
			*get(&col) = v
			s.BackgroundColor = Value(col)
		}
	}
	g.add(from.R, to.R, duration, fn, channel(func(c *Color) *float64 { return &c.R }))
	g.add(from.G, to.G, duration, fn, channel(func(c *Color) *float64 { return &c.G }))
	g.add(from.B, to.B, duration, fn, channel(func(c *Color) *float64 { return &c.B }))
	g.add(from.A, to.A, duration, fn, channel(func(c *Color) *float64 { return &c.A }))
	return g
}

// TweenFontSize animates FontSize.
func (c *Context) TweenFontSize(e Entity, to float64, duration float32, fn ease.TweenFunc) *StyleTween {
	g, s := c.newStyleTween(e)
	g.add(s.FontSize.ResolveOr(14), to, duration, fn, func(s *Style, v float64) { s.FontSize = Value(v) })
	return g
}
