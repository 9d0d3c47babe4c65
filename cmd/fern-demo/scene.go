package main

import (
	"fmt"

	"github.com/phanxgames/fern"
	"github.com/phanxgames/fern/widgets"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
)

var (
	panelColor = fern.Color{R: 0.16, G: 0.17, B: 0.21, A: 1}
	swatches   = []fern.Color{
		{R: 0.91, G: 0.3, B: 0.24, A: 1},
		{R: 0.95, G: 0.61, B: 0.07, A: 1},
		{R: 0.18, G: 0.8, B: 0.44, A: 1},
		{R: 0.2, G: 0.6, B: 0.86, A: 1},
		{R: 0.61, G: 0.35, B: 0.71, A: 1},
	}
)

// scene is the demo UI: a title, a click counter and a button that cycles
// its background through the swatch colors.
type scene struct {
	ctx    *fern.Context
	clicks int
	label  fern.Entity
	button fern.Entity
	tweens []*fern.StyleTween
}

func newScene(ctx *fern.Context) *scene {
	w := ctx.World()
	s := &scene{ctx: ctx}

	title := widgets.NewText(w, fern.Style{}, widgets.TextData{Content: "fern", Size: 28})
	s.label = widgets.NewText(w, fern.Style{}, widgets.TextData{Content: s.caption()})
	s.button = widgets.NewButton(w, fern.Style{Width: fern.Value(fern.Pixels(160))}, s.onClick,
		widgets.NewText(w, fern.Style{}, widgets.TextData{Content: "Click me"}))

	var chips []fern.Entity
	for _, c := range swatches {
		chips = append(chips, widgets.NewBackground(w, fern.Style{
			BackgroundColor: fern.Value(c),
			BorderRadius:    fern.Value(fern.CornerAll(4.0)),
			Width:           fern.Value(fern.Pixels(48)),
			Height:          fern.Value(fern.Pixels(48)),
		}))
	}
	strip := widgets.NewClip(w, fern.Style{
		LayoutType: fern.Value(fern.LayoutRow),
		Height:     fern.Value(fern.Pixels(48)),
		ColBetween: fern.Value(fern.Pixels(8)),
	}, chips...)

	panel := widgets.NewBackground(w, fern.Style{
		BackgroundColor: fern.Value(panelColor),
		Padding:         fern.Value(fern.EdgeAll(fern.Pixels(24))),
		RowBetween:      fern.Value(fern.Pixels(12)),
		Width:           fern.Value(fern.Pixels(360)),
	}, title, s.label, s.button, strip)

	app := widgets.NewApp(w, fern.Style{
		Padding: fern.Value(fern.EdgeAll(fern.Stretch(1))),
	}, panel)
	ctx.Add(app, donburi.Null)
	return s
}

func (s *scene) caption() string {
	return fmt.Sprintf("Clicked %d times", s.clicks)
}

func (s *scene) onClick(*fern.EventDispatcherContext, fern.Event) {
	s.clicks++
	widgets.TextComponent.Get(s.ctx.World().Entry(s.label)).Content = s.caption()
	s.ctx.MarkDirty(s.label)
	to := swatches[(s.clicks-1)%len(swatches)]
	s.tweens = append(s.tweens, s.ctx.TweenBackground(s.button, to, 0.25, ease.OutQuad))
	s.ctx.Logger().Info("button clicked", "clicks", s.clicks)
}

// tick advances running tweens by dt seconds.
func (s *scene) tick(dt float32) {
	live := s.tweens[:0]
	for _, t := range s.tweens {
		t.Update(dt)
		if !t.Done {
			live = append(live, t)
		}
	}
	s.tweens = live
}
