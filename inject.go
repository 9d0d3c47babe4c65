package fern

// Injected input is consumed one event per frame, so a click spans two
// Update calls. While injected events are pending, real pointer input is
// dropped.

// InjectMove queues a pointer move to (x, y).
func (c *Context) InjectMove(x, y float64) {
	c.inject(InputEvent{Kind: InputMouseMoved, X: x, Y: y})
}

// InjectPress queues a left-button press at (x, y).
func (c *Context) InjectPress(x, y float64) {
	c.inject(InputEvent{Kind: InputMouseLeftPress, X: x, Y: y})
}

// InjectRelease queues a left-button release at (x, y).
func (c *Context) InjectRelease(x, y float64) {
	c.inject(InputEvent{Kind: InputMouseLeftRelease, X: x, Y: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (c *Context) InjectClick(x, y float64) {
	c.InjectPress(x, y)
	c.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 linearly
// interpolated moves, and a release at (toX, toY). The sequence consumes
// frames frames, at least two.
func (c *Context) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	c.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		c.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	c.InjectRelease(toX, toY)
}

// InjectScroll queues a scroll at the current pointer position.
func (c *Context) InjectScroll(dx, dy float64, lines bool) {
	c.inject(InputEvent{Kind: InputScroll, DX: dx, DY: dy, Line: lines})
}

// InjectChar queues a typed character.
func (c *Context) InjectChar(r rune) {
	c.inject(InputEvent{Kind: InputChar, Char: r})
}

// InjectKey queues a key press or release.
func (c *Context) InjectKey(k Key, pressed bool, mods KeyModifiers) {
	c.inject(InputEvent{Kind: InputKeyboard, Key: k, Pressed: pressed, Modifiers: mods})
}

// PendingInjected returns the number of injected events not yet consumed.
func (c *Context) PendingInjected() int {
	return len(c.injectQueue)
}

func (c *Context) inject(ev InputEvent) {
	c.injectQueue = append(c.injectQueue, ev)
}

// processInjectedInput pops one injected event and dispatches it. It
// reports whether an event was consumed.
func (c *Context) processInjectedInput() bool {
	if len(c.injectQueue) == 0 {
		return false
	}
	ev := c.injectQueue[0]
	copy(c.injectQueue, c.injectQueue[1:])
	c.injectQueue = c.injectQueue[:len(c.injectQueue)-1]
	c.dispatcher.process(ev)
	return true
}
