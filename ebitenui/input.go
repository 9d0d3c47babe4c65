package ebitenui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/fern"
)

// keyMap maps Ebitengine keys onto the keys the dispatcher understands.
var keyMap = map[ebiten.Key]fern.Key{
	ebiten.KeyTab:         fern.KeyTab,
	ebiten.KeyEnter:       fern.KeyEnter,
	ebiten.KeyNumpadEnter: fern.KeyEnter,
	ebiten.KeyEscape:      fern.KeyEscape,
	ebiten.KeyBackspace:   fern.KeyBackspace,
	ebiten.KeyDelete:      fern.KeyDelete,
	ebiten.KeySpace:       fern.KeySpace,
	ebiten.KeyArrowLeft:   fern.KeyLeft,
	ebiten.KeyArrowRight:  fern.KeyRight,
	ebiten.KeyArrowUp:     fern.KeyUp,
	ebiten.KeyArrowDown:   fern.KeyDown,
	ebiten.KeyHome:        fern.KeyHome,
	ebiten.KeyEnd:         fern.KeyEnd,
}

// MapKey converts an Ebitengine key. Keys fern has no use for report false.
func MapKey(k ebiten.Key) (fern.Key, bool) {
	fk, ok := keyMap[k]
	return fk, ok
}

// frameInput is one tick of raw device state.
type frameInput struct {
	X, Y           int
	Left           bool
	WheelX, WheelY float64
	Chars          []rune
	Pressed        []ebiten.Key
	Released       []ebiten.Key
	Mods           fern.KeyModifiers
}

// Poller turns Ebitengine's polled input into fern input events. Only the
// left mouse button drives presses; touch is not handled.
type Poller struct {
	started      bool
	lastX, lastY int
	down         bool

	chars    []rune
	pressed  []ebiten.Key
	released []ebiten.Key
	out      []fern.InputEvent
}

// Poll samples the devices and returns this tick's events. The returned
// slice is reused by the next call.
func (p *Poller) Poll() []fern.InputEvent {
	x, y := ebiten.CursorPosition()
	wx, wy := ebiten.Wheel()
	p.chars = ebiten.AppendInputChars(p.chars[:0])
	p.pressed = inpututil.AppendJustPressedKeys(p.pressed[:0])
	p.released = inpututil.AppendJustReleasedKeys(p.released[:0])
	return p.translate(frameInput{
		X:        x,
		Y:        y,
		Left:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		WheelX:   wx,
		WheelY:   wy,
		Chars:    p.chars,
		Pressed:  p.pressed,
		Released: p.released,
		Mods:     readModifiers(),
	})
}

// translate diffs in against the previous tick. Events come out in the
// order move, button, scroll, keys, chars so a press always lands where
// the cursor is.
func (p *Poller) translate(in frameInput) []fern.InputEvent {
	p.out = p.out[:0]
	x, y := float64(in.X), float64(in.Y)

	if !p.started || in.X != p.lastX || in.Y != p.lastY {
		p.out = append(p.out, fern.InputEvent{Kind: fern.InputMouseMoved, X: x, Y: y, Modifiers: in.Mods})
		p.started = true
		p.lastX, p.lastY = in.X, in.Y
	}

	switch {
	case in.Left && !p.down:
		p.out = append(p.out, fern.InputEvent{Kind: fern.InputMouseLeftPress, X: x, Y: y, Modifiers: in.Mods})
	case !in.Left && p.down:
		p.out = append(p.out, fern.InputEvent{Kind: fern.InputMouseLeftRelease, X: x, Y: y, Modifiers: in.Mods})
	}
	p.down = in.Left

	// Ebitengine reports wheel-up as positive; fern scrolls content up on
	// negative values.
	if in.WheelX != 0 || in.WheelY != 0 {
		p.out = append(p.out, fern.InputEvent{
			Kind: fern.InputScroll, X: x, Y: y,
			DX: -in.WheelX, DY: -in.WheelY, Line: true,
			Modifiers: in.Mods,
		})
	}

	for _, k := range in.Pressed {
		if fk, ok := MapKey(k); ok {
			p.out = append(p.out, fern.InputEvent{Kind: fern.InputKeyboard, Key: fk, Pressed: true, Modifiers: in.Mods})
		}
	}
	for _, k := range in.Released {
		if fk, ok := MapKey(k); ok {
			p.out = append(p.out, fern.InputEvent{Kind: fern.InputKeyboard, Key: fk, Pressed: false, Modifiers: in.Mods})
		}
	}
	for _, r := range in.Chars {
		p.out = append(p.out, fern.InputEvent{Kind: fern.InputChar, Char: r, Modifiers: in.Mods})
	}
	return p.out
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() fern.KeyModifiers {
	var mods fern.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= fern.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= fern.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= fern.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= fern.ModMeta
	}
	return mods
}
