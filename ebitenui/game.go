// Package ebitenui hosts a fern Context in an Ebitengine window: it polls
// input into fern events, measures text with text/v2 and paints the
// primitive list.
//
//	ctx := fern.NewContext(donburi.NewWorld(), fern.Options{Fonts: fonts})
//	widgets.Register(ctx)
//	ctx.Add(widgets.NewApp(ctx.World(), fern.Style{}, ...), donburi.Null)
//	ebitenui.Run(ebitenui.NewGame(ctx, painter), ebitenui.RunConfig{Title: "demo"})
package ebitenui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/fern"
)

// Game implements ebiten.Game around a fern Context.
type Game struct {
	ctx     *fern.Context
	painter *Painter
	poller  Poller

	// ClearColor fills the screen before painting.
	ClearColor fern.Color
	// OnUpdate, if set, runs before input is polled each tick. A non-nil
	// error stops the game.
	OnUpdate func() error
	// OnDraw, if set, runs after the primitives are painted.
	OnDraw func(screen *ebiten.Image)
}

// NewGame creates a Game. A nil painter paints with the context's fonts
// and no assets.
func NewGame(ctx *fern.Context, painter *Painter) *Game {
	if painter == nil {
		painter = NewPainter(nil, ctx.Fonts())
	}
	return &Game{ctx: ctx, painter: painter, ClearColor: fern.Color{R: 0.118, G: 0.118, B: 0.157, A: 1}}
}

// Context returns the hosted context.
func (g *Game) Context() *fern.Context { return g.ctx }

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.OnUpdate != nil {
		if err := g.OnUpdate(); err != nil {
			return err
		}
	}
	g.ctx.QueueInput(g.poller.Poll()...)
	g.ctx.Update()
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	c := g.ClearColor
	screen.Fill(color.RGBA{
		R: uint8(c.R * c.A * 255), G: uint8(c.G * c.A * 255),
		B: uint8(c.B * c.A * 255), A: uint8(c.A * 255),
	})
	g.painter.Draw(screen, g.ctx.Primitives())
	if g.OnDraw != nil {
		g.OnDraw(screen)
	}
}

// Layout implements ebiten.Game. The window size becomes the layout bounds.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.ctx.SetWindowSize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	Resizable     bool
}

// Run opens a window and blocks until it closes.
func Run(g *Game, cfg RunConfig) error {
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		size := g.ctx.WindowSize()
		w, h = int(size.X), int(size.Y)
	}
	if w <= 0 || h <= 0 {
		w, h = 640, 480
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w, h)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(g)
}
