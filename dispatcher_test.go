package fern

import (
	"slices"
	"strings"
	"testing"

	"github.com/yohamta/donburi"
)

type eventTrace struct {
	names map[Entity]string
	got   []string
}

func (tr *eventTrace) handler(next func(*EventDispatcherContext, Event, Entity) Event) func(*EventDispatcherContext, Event, Entity) Event {
	return func(c *EventDispatcherContext, ev Event, cur Entity) Event {
		tr.got = append(tr.got, tr.names[cur]+":"+ev.Type.String())
		if next != nil {
			return next(c, ev, cur)
		}
		return ev
	}
}

// only returns the recorded events of the given types, in order.
func (tr *eventTrace) only(types ...EventType) []string {
	var out []string
	for _, s := range tr.got {
		for _, typ := range types {
			if strings.HasSuffix(s, ":"+typ.String()) {
				out = append(out, s)
			}
		}
	}
	return out
}

func onEvent(ctx *Context, e Entity, h func(*EventDispatcherContext, Event, Entity) Event) {
	entry := ctx.World().Entry(e)
	if !entry.HasComponent(OnEventComponent) {
		entry.AddComponent(OnEventComponent)
	}
	OnEventComponent.SetValue(entry, OnEvent{Handler: h})
}

func assertTrace(t *testing.T, got []string, want ...string) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

// pointerScene lays out a 100x100 quad "a" at the origin with a 50x50
// child "b" in its top-left corner. Everything else hits the root.
func pointerScene(t *testing.T, aStyle Style) (*Context, Entity, Entity, *eventTrace) {
	t.Helper()
	ctx := newTestContext(t, Config{})
	b := element(t, ctx, quad(50, 50))
	a := element(t, ctx, aStyle, b)
	root := element(t, ctx, layoutStyle(), a)
	ctx.Add(root, donburi.Null)
	ctx.Update()

	tr := &eventTrace{names: map[Entity]string{root: "root", a: "a", b: "b"}}
	for _, e := range []Entity{root, a, b} {
		onEvent(ctx, e, tr.handler(nil))
	}
	return ctx, a, b, tr
}

func click(x, y float64) []InputEvent {
	return []InputEvent{
		{Kind: InputMouseLeftPress, X: x, Y: y},
		{Kind: InputMouseLeftRelease, X: x, Y: y},
	}
}

// --- Hit testing ---

func TestHitTestTopmost(t *testing.T) {
	ctx, a, b, _ := pointerScene(t, quad(100, 100))
	d := ctx.Dispatcher()
	root := ctx.Tree().Root()

	if got := d.hitTest(10, 10); got != b {
		t.Errorf("hit(10,10) = %v, want b", got)
	}
	if got := d.hitTest(75, 75); got != a {
		t.Errorf("hit(75,75) = %v, want a", got)
	}
	if got := d.hitTest(500, 500); got != root {
		t.Errorf("hit(500,500) = %v, want root", got)
	}
}

func TestHitTestPointerEvents(t *testing.T) {
	withMode := func(m PointerEvents) Style {
		s := quad(100, 100)
		s.PointerEvents = Value(m)
		return s
	}

	ctx, a, _, _ := pointerScene(t, withMode(PointerEventsNone))
	if got := ctx.Dispatcher().hitTest(10, 10); got != ctx.Tree().Root() {
		t.Errorf("none: hit = %v, want root", got)
	}

	ctx, _, b, _ := pointerScene(t, withMode(PointerEventsChildrenOnly))
	if got := ctx.Dispatcher().hitTest(10, 10); got != b {
		t.Errorf("children-only: hit(10,10) = %v, want b", got)
	}
	if got := ctx.Dispatcher().hitTest(75, 75); got != ctx.Tree().Root() {
		t.Errorf("children-only: hit(75,75) = %v, want root", got)
	}

	ctx, a, _, _ = pointerScene(t, withMode(PointerEventsSelfOnly))
	if got := ctx.Dispatcher().hitTest(10, 10); got != a {
		t.Errorf("self-only: hit = %v, want a", got)
	}
}

func TestHitTestRespectsClip(t *testing.T) {
	ctx := newTestContext(t, Config{})
	big := element(t, ctx, quad(100, 100))
	cs := clipStyle()
	cs.Width, cs.Height = Value(Pixels(50)), Value(Pixels(50))
	clip := element(t, ctx, cs, big)
	root := element(t, ctx, layoutStyle(), clip)
	ctx.Add(root, donburi.Null)
	ctx.Update()

	d := ctx.Dispatcher()
	if got := d.hitTest(10, 10); got != big {
		t.Errorf("inside clip: hit = %v, want child", got)
	}
	if got := d.hitTest(75, 75); got != root {
		t.Errorf("outside clip: hit = %v, want root", got)
	}
}

// --- Bubbling ---

func TestClickBubbles(t *testing.T) {
	ctx, _, _, tr := pointerScene(t, quad(100, 100))
	ctx.QueueInput(click(10, 10)...)
	ctx.Update()

	assertTrace(t, tr.only(EventMouseDown, EventClick, EventMouseUp),
		"b:mouse-down", "a:mouse-down", "root:mouse-down",
		"b:click", "a:click", "root:click",
		"b:mouse-up", "a:mouse-up", "root:mouse-up",
	)
	if ctx.Stats().Events == 0 {
		t.Error("dispatched events should be counted")
	}
}

func TestStopPropagation(t *testing.T) {
	ctx, _, b, tr := pointerScene(t, quad(100, 100))
	onEvent(ctx, b, tr.handler(func(_ *EventDispatcherContext, ev Event, _ Entity) Event {
		if ev.Type == EventClick {
			ev.StopPropagation()
		}
		return ev
	}))
	ctx.QueueInput(click(10, 10)...)
	ctx.Update()

	assertTrace(t, tr.only(EventClick), "b:click")
}

func TestHoverInOutDoNotBubble(t *testing.T) {
	ctx, _, _, tr := pointerScene(t, quad(100, 100))
	ctx.QueueInput(
		InputEvent{Kind: InputMouseMoved, X: 10, Y: 10},
		InputEvent{Kind: InputMouseMoved, X: 75, Y: 75},
	)
	ctx.Update()

	assertTrace(t, tr.only(EventMouseIn, EventMouseOut),
		"b:mouse-in", "b:mouse-out", "a:mouse-in")
	assertTrace(t, tr.only(EventHover),
		"b:hover", "a:hover", "root:hover", "a:hover", "root:hover")
}

// --- Capture ---

func TestCaptureHoldsUntilReleased(t *testing.T) {
	ctx, a, b, tr := pointerScene(t, quad(100, 100))
	w := ctx.World()
	addTag(w, b, Focusable)
	onEvent(ctx, b, tr.handler(func(c *EventDispatcherContext, ev Event, cur Entity) Event {
		switch ev.Type {
		case EventMouseDown:
			c.CaptureCursor(cur)
		case EventKeyDown:
			c.ReleaseCursor(cur)
		}
		return ev
	}))
	onEvent(ctx, a, tr.handler(func(c *EventDispatcherContext, ev Event, cur Entity) Event {
		if ev.Type == EventClick {
			c.ReleaseCursor(cur) // a does not hold the capture
		}
		return ev
	}))

	ctx.QueueInput(click(10, 10)...)
	ctx.QueueInput(InputEvent{Kind: InputMouseMoved, X: 500, Y: 500})
	ctx.Update()

	assertTrace(t, tr.only(EventClick), "b:click", "a:click", "root:click")
	assertTrace(t, tr.only(EventHover, EventMouseOut), "b:hover", "a:hover", "root:hover")
	if got, ok := ctx.Dispatcher().Captured(); !ok || got != b {
		t.Fatalf("captured = %v, %v, want b after release", got, ok)
	}

	ctx.QueueInput(InputEvent{Kind: InputKeyboard, Key: KeyEnter, Pressed: true})
	ctx.Update()
	if _, ok := ctx.Dispatcher().Captured(); ok {
		t.Error("capture should end once its holder releases it")
	}
}

// --- Drag ---

func TestDragPastDeadZone(t *testing.T) {
	ctx, _, b, tr := pointerScene(t, quad(100, 100))
	var deltas []float64
	onEvent(ctx, b, tr.handler(func(_ *EventDispatcherContext, ev Event, _ Entity) Event {
		if ev.Type == EventDragStart || ev.Type == EventDrag {
			deltas = append(deltas, ev.DeltaX)
		}
		return ev
	}))
	ctx.QueueInput(
		InputEvent{Kind: InputMouseLeftPress, X: 10, Y: 10},
		InputEvent{Kind: InputMouseMoved, X: 12, Y: 10},
		InputEvent{Kind: InputMouseMoved, X: 30, Y: 10},
		InputEvent{Kind: InputMouseMoved, X: 40, Y: 10},
		InputEvent{Kind: InputMouseLeftRelease, X: 40, Y: 10},
	)
	ctx.Update()

	assertTrace(t, tr.only(EventDragStart, EventDrag, EventDragEnd, EventClick),
		"b:drag-start", "a:drag-start", "root:drag-start",
		"b:drag", "a:drag", "root:drag",
		"b:drag-end", "a:drag-end", "root:drag-end",
	)
	if !slices.Equal(deltas, []float64{20, 10}) {
		t.Errorf("deltas = %v, want [20 10]", deltas)
	}
}

// --- Focus ---

func focusScene(t *testing.T) (*Context, []Entity, *eventTrace) {
	t.Helper()
	ctx := newTestContext(t, Config{})
	fs := []Entity{element(t, ctx, quad(20, 20)), element(t, ctx, quad(20, 20)), element(t, ctx, quad(20, 20))}
	root := element(t, ctx, layoutStyle(), fs...)
	ctx.Add(root, donburi.Null)
	ctx.Update()

	tr := &eventTrace{names: map[Entity]string{root: "root", fs[0]: "f0", fs[1]: "f1", fs[2]: "f2"}}
	for _, f := range fs {
		addTag(ctx.World(), f, Focusable)
		onEvent(ctx, f, tr.handler(nil))
	}
	return ctx, fs, tr
}

func TestTabCyclesFocus(t *testing.T) {
	ctx, fs, tr := focusScene(t)
	tab := InputEvent{Kind: InputKeyboard, Key: KeyTab, Pressed: true}
	back := InputEvent{Kind: InputKeyboard, Key: KeyTab, Pressed: true, Modifiers: ModShift}

	want := []Entity{fs[0], fs[1], fs[0], fs[2]}
	for i, in := range []InputEvent{tab, tab, back, back} {
		ctx.QueueInput(in)
		ctx.Update()
		if got, _ := ctx.Dispatcher().Focused(); got != want[i] {
			t.Fatalf("step %d: focused %v, want %v", i, got, want[i])
		}
	}
	assertTrace(t, tr.only(EventFocus, EventBlur)[:3], "f0:focus", "f0:blur", "f1:focus")
}

func TestPressFocusesAndBlurs(t *testing.T) {
	ctx, fs, tr := focusScene(t)
	ctx.QueueInput(click(5, 25)...) // f1
	ctx.Update()
	if got, _ := ctx.Dispatcher().Focused(); got != fs[1] {
		t.Fatalf("focused = %v, want f1", got)
	}

	ctx.QueueInput(click(500, 500)...)
	ctx.Update()
	if _, ok := ctx.Dispatcher().Focused(); ok {
		t.Error("pressing outside any focusable widget should blur")
	}
	assertTrace(t, tr.only(EventFocus, EventBlur), "f1:focus", "f1:blur")
}

func TestPreventDefaultKeepsFocus(t *testing.T) {
	ctx, fs, tr := focusScene(t)
	onEvent(ctx, fs[0], tr.handler(func(_ *EventDispatcherContext, ev Event, _ Entity) Event {
		if ev.Type == EventMouseDown {
			ev.PreventDefault()
		}
		return ev
	}))
	ctx.QueueInput(click(5, 5)...)
	ctx.Update()
	if _, ok := ctx.Dispatcher().Focused(); ok {
		t.Error("a prevented press must not focus")
	}
}

func TestCharInputGoesToFocused(t *testing.T) {
	ctx, fs, tr := focusScene(t)
	var typed []rune
	onEvent(ctx, fs[2], tr.handler(func(_ *EventDispatcherContext, ev Event, _ Entity) Event {
		if ev.Type == EventCharInput {
			typed = append(typed, ev.Char)
		}
		return ev
	}))

	ctx.QueueInput(InputEvent{Kind: InputChar, Char: 'x'})
	ctx.Update()
	if len(typed) != 0 {
		t.Fatal("characters without focus should be dropped")
	}

	ctx.QueueInput(click(5, 45)...)
	ctx.QueueInput(InputEvent{Kind: InputChar, Char: 'y'})
	ctx.Update()
	if string(typed) != "y" {
		t.Errorf("typed = %q, want %q", string(typed), "y")
	}
}

func TestDespawnForgetsFocus(t *testing.T) {
	ctx, fs, _ := focusScene(t)
	ctx.QueueInput(click(5, 5)...)
	ctx.Update()
	ctx.Remove(fs[0])
	if _, ok := ctx.Dispatcher().Focused(); ok {
		t.Error("despawned entity should lose focus")
	}
}

// --- World events ---

func TestInteractionEventsPublished(t *testing.T) {
	ctx, _, b, _ := pointerScene(t, quad(100, 100))
	var clicks []Event
	InteractionEventType.Subscribe(ctx.World(), func(_ donburi.World, ev Event) {
		if ev.Type == EventClick {
			clicks = append(clicks, ev)
		}
	})
	ctx.QueueInput(click(10, 10)...)
	ctx.Update()
	InteractionEventType.ProcessEvents(ctx.World())

	if len(clicks) != 1 || clicks[0].Target != b {
		t.Errorf("clicks = %+v, want one on b", clicks)
	}
}
