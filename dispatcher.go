package fern

import (
	"math"

	"github.com/yohamta/donburi"
)

const defaultDragDeadZone = 4.0 // pixels

// --- Raw input ---

// InputKind identifies a raw input event.
type InputKind uint8

const (
	InputMouseMoved InputKind = iota
	InputMouseLeftPress
	InputMouseLeftRelease
	InputScroll
	InputChar
	InputKeyboard
)

// KeyModifiers is a bitmask of held modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Key identifies a keyboard key the dispatcher understands. Hosts map their
// own key codes onto it.
type Key uint16

const (
	KeyUnknown Key = iota
	KeyTab
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeySpace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
)

// InputEvent is one raw input sample. Pointer kinds carry the cursor
// position in window coordinates.
type InputEvent struct {
	Kind InputKind
	X, Y float64

	// Scroll amount. Line is true when DX and DY count lines rather than
	// pixels.
	DX, DY float64
	Line   bool

	Char      rune
	Key       Key
	Pressed   bool // keyboard: pressed or released
	Modifiers KeyModifiers
}

// --- Typed events ---

// EventType identifies a dispatched UI event.
type EventType uint8

const (
	EventMouseIn EventType = iota
	EventMouseOut
	EventMouseDown
	EventMouseUp
	EventClick
	EventHover
	EventScroll
	EventCharInput
	EventKeyDown
	EventKeyUp
	EventFocus
	EventBlur
	EventDragStart
	EventDrag
	EventDragEnd
)

var eventNames = [...]string{
	"mouse-in", "mouse-out", "mouse-down", "mouse-up", "click", "hover",
	"scroll", "char-input", "key-down", "key-up", "focus", "blur",
	"drag-start", "drag", "drag-end",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event is a typed UI event. Target is the entity the event was aimed at;
// Current is the entity whose handler is running.
type Event struct {
	Type    EventType
	Target  Entity
	Current Entity

	X, Y float64

	// Drag
	StartX, StartY float64
	DeltaX, DeltaY float64

	// Scroll
	ScrollX, ScrollY float64
	ScrollLines      bool

	Char      rune
	Key       Key
	Modifiers KeyModifiers

	stopped   bool
	prevented bool
}

// StopPropagation keeps the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault suppresses the dispatcher's default action, such as
// focusing on press or cycling focus on Tab.
func (e *Event) PreventDefault() { e.prevented = true }

func (e Event) Stopped() bool          { return e.stopped }
func (e Event) DefaultPrevented() bool { return e.prevented }

// --- Handler context ---

// EventDispatcherContext is passed to OnEvent handlers.
type EventDispatcherContext struct {
	d *EventDispatcher
}

// Context returns the owning UI context.
func (c *EventDispatcherContext) Context() *Context { return c.d.ctx }

// World returns the host ECS world.
func (c *EventDispatcherContext) World() donburi.World { return c.d.ctx.world }

// CaptureCursor routes every following pointer event to e until released.
func (c *EventDispatcherContext) CaptureCursor(e Entity) { c.d.captured = e }

// ReleaseCursor ends a capture held by e. Releasing an entity that does not
// hold the capture does nothing.
func (c *EventDispatcherContext) ReleaseCursor(e Entity) {
	if c.d.captured == e {
		c.d.captured = donburi.Null
	}
}

// Captured returns the entity holding the cursor, if any.
func (c *EventDispatcherContext) Captured() (Entity, bool) {
	return c.d.captured, c.d.captured != donburi.Null
}

// SetFocus moves keyboard focus to e, firing Blur and Focus.
func (c *EventDispatcherContext) SetFocus(e Entity) { c.d.setFocus(e) }

// Focused returns the focused entity, if any.
func (c *EventDispatcherContext) Focused() (Entity, bool) {
	return c.d.focused, c.d.focused != donburi.Null
}

// --- Dispatcher ---

type pointerState struct {
	x, y           float64
	down           bool
	startX, startY float64
	lastX, lastY   float64
	pressTarget    Entity
	dragging       bool
}

// EventDispatcher turns raw input into typed events, hit tests them against
// the last solved layout, and bubbles them through OnEvent handlers.
type EventDispatcher struct {
	ctx      *Context
	captured Entity
	focused  Entity
	hover    Entity
	pointer  pointerState
	hitBuf   []Entity
}

func newEventDispatcher(ctx *Context) *EventDispatcher {
	return &EventDispatcher{ctx: ctx}
}

// Focused returns the focused entity, if any.
func (d *EventDispatcher) Focused() (Entity, bool) {
	return d.focused, d.focused != donburi.Null
}

// Captured returns the entity holding the cursor, if any.
func (d *EventDispatcher) Captured() (Entity, bool) {
	return d.captured, d.captured != donburi.Null
}

// forget drops every reference to a despawned entity.
func (d *EventDispatcher) forget(e Entity) {
	if d.captured == e {
		d.captured = donburi.Null
	}
	if d.focused == e {
		d.focused = donburi.Null
	}
	if d.hover == e {
		d.hover = donburi.Null
	}
	if d.pointer.pressTarget == e {
		d.pointer.pressTarget = donburi.Null
		d.pointer.dragging = false
	}
}

// process handles one raw input event.
func (d *EventDispatcher) process(in InputEvent) {
	switch in.Kind {
	case InputMouseMoved:
		d.move(in)
	case InputMouseLeftPress:
		d.move(in)
		d.press(in)
	case InputMouseLeftRelease:
		d.move(in)
		d.release(in)
	case InputScroll:
		target := d.pointerTarget(d.pointer.x, d.pointer.y)
		d.dispatch(Event{
			Type: EventScroll, Target: target,
			X: d.pointer.x, Y: d.pointer.y,
			ScrollX: in.DX, ScrollY: in.DY, ScrollLines: in.Line,
			Modifiers: in.Modifiers,
		}, true)
	case InputChar:
		d.dispatch(Event{Type: EventCharInput, Target: d.focused, Char: in.Char, Modifiers: in.Modifiers}, true)
	case InputKeyboard:
		d.key(in)
	}
}

// pointerTarget returns the captured entity, or the topmost hit.
func (d *EventDispatcher) pointerTarget(x, y float64) Entity {
	if d.captured != donburi.Null {
		return d.captured
	}
	return d.hitTest(x, y)
}

func (d *EventDispatcher) move(in InputEvent) {
	ps := &d.pointer
	ps.x, ps.y = in.X, in.Y
	target := d.pointerTarget(in.X, in.Y)

	if target != d.hover {
		if d.hover != donburi.Null {
			d.dispatch(Event{Type: EventMouseOut, Target: d.hover, X: in.X, Y: in.Y, Modifiers: in.Modifiers}, false)
		}
		if target != donburi.Null {
			d.dispatch(Event{Type: EventMouseIn, Target: target, X: in.X, Y: in.Y, Modifiers: in.Modifiers}, false)
		}
		d.hover = target
	}

	if in.Kind == InputMouseMoved && target != donburi.Null {
		d.dispatch(Event{Type: EventHover, Target: target, X: in.X, Y: in.Y, Modifiers: in.Modifiers}, true)
	}

	if !ps.down || ps.pressTarget == donburi.Null {
		return
	}
	if !ps.dragging {
		dx, dy := in.X-ps.startX, in.Y-ps.startY
		if math.Sqrt(dx*dx+dy*dy) < d.ctx.config.DragDeadZone {
			return
		}
		ps.dragging = true
		d.dispatch(d.dragEvent(EventDragStart, in), true)
	} else if in.X != ps.lastX || in.Y != ps.lastY {
		d.dispatch(d.dragEvent(EventDrag, in), true)
	}
	ps.lastX, ps.lastY = in.X, in.Y
}

func (d *EventDispatcher) dragEvent(t EventType, in InputEvent) Event {
	ps := &d.pointer
	return Event{
		Type: t, Target: ps.pressTarget,
		X: in.X, Y: in.Y,
		StartX: ps.startX, StartY: ps.startY,
		DeltaX: in.X - ps.lastX, DeltaY: in.Y - ps.lastY,
		Modifiers: in.Modifiers,
	}
}

func (d *EventDispatcher) press(in InputEvent) {
	ps := &d.pointer
	if ps.down {
		return
	}
	target := d.pointerTarget(in.X, in.Y)
	ps.down = true
	ps.startX, ps.startY = in.X, in.Y
	ps.lastX, ps.lastY = in.X, in.Y
	ps.pressTarget = target
	ps.dragging = false

	if target == donburi.Null {
		d.setFocus(donburi.Null)
		return
	}
	ev := d.dispatch(Event{Type: EventMouseDown, Target: target, X: in.X, Y: in.Y, Modifiers: in.Modifiers}, true)
	if !ev.prevented {
		d.setFocus(d.focusableFrom(target))
	}
}

func (d *EventDispatcher) release(in InputEvent) {
	ps := &d.pointer
	if !ps.down {
		return
	}
	target := d.pointerTarget(in.X, in.Y)
	if ps.dragging {
		d.dispatch(d.dragEvent(EventDragEnd, in), true)
	} else if ps.pressTarget != donburi.Null && ps.pressTarget == target {
		d.dispatch(Event{Type: EventClick, Target: target, X: in.X, Y: in.Y, Modifiers: in.Modifiers}, true)
	}
	if target != donburi.Null {
		d.dispatch(Event{Type: EventMouseUp, Target: target, X: in.X, Y: in.Y, Modifiers: in.Modifiers}, true)
	}
	ps.down = false
	ps.pressTarget = donburi.Null
	ps.dragging = false
}

func (d *EventDispatcher) key(in InputEvent) {
	t := EventKeyUp
	if in.Pressed {
		t = EventKeyDown
	}
	target := d.focused
	if target == donburi.Null {
		target = d.ctx.tree.Root()
	}
	ev := d.dispatch(Event{Type: t, Target: target, Key: in.Key, Modifiers: in.Modifiers}, true)
	if in.Pressed && in.Key == KeyTab && !ev.prevented {
		d.cycleFocus(in.Modifiers&ModShift != 0)
	}
}

// dispatch delivers ev to its target and, when bubble is set, to each
// ancestor in turn until a handler stops propagation. The final event is
// published to the host world.
func (d *EventDispatcher) dispatch(ev Event, bubble bool) Event {
	if ev.Target == donburi.Null {
		return ev
	}
	d.ctx.stats.Events++
	hctx := &EventDispatcherContext{d: d}
	w := d.ctx.world
	for cur := ev.Target; ; {
		ev.Current = cur
		if w.Valid(cur) {
			entry := w.Entry(cur)
			if entry.HasComponent(OnEventComponent) {
				if h := OnEventComponent.Get(entry).Handler; h != nil {
					ev = h(hctx, ev, cur)
				}
			}
		}
		if ev.stopped || !bubble {
			break
		}
		p, ok := d.ctx.tree.Parent(cur)
		if !ok {
			break
		}
		cur = p
	}
	InteractionEventType.Publish(w, ev)
	return ev
}

// --- Focus ---

func (d *EventDispatcher) setFocus(e Entity) {
	if e == d.focused {
		return
	}
	if old := d.focused; old != donburi.Null {
		d.focused = donburi.Null
		d.dispatch(Event{Type: EventBlur, Target: old}, false)
	}
	d.focused = e
	if e != donburi.Null {
		d.dispatch(Event{Type: EventFocus, Target: e}, false)
	}
}

// focusableFrom returns e or its nearest Focusable ancestor.
func (d *EventDispatcher) focusableFrom(e Entity) Entity {
	if hasTag(d.ctx.world, e, Focusable) {
		return e
	}
	for a := range d.ctx.tree.Ancestors(e) {
		if hasTag(d.ctx.world, a, Focusable) {
			return a
		}
	}
	return donburi.Null
}

// cycleFocus moves focus to the next Focusable widget in tree order, or
// the previous one when back is set, wrapping around.
func (d *EventDispatcher) cycleFocus(back bool) {
	var order []Entity
	for e := range d.ctx.tree.DownIter() {
		if hasTag(d.ctx.world, e, Focusable) {
			order = append(order, e)
		}
	}
	if len(order) == 0 {
		return
	}
	idx := -1
	for i, e := range order {
		if e == d.focused {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && back:
		idx = len(order) - 1
	case idx < 0:
		idx = 0
	case back:
		idx = (idx - 1 + len(order)) % len(order)
	default:
		idx = (idx + 1) % len(order)
	}
	d.setFocus(order[idx])
}

// --- Hit testing ---

// hitTest finds the topmost entity at (x, y) in the renderable tree.
func (d *EventDispatcher) hitTest(x, y float64) Entity {
	nodes := d.ctx.nodeTree
	if nodes == nil || nodes.Root() == donburi.Null {
		return donburi.Null
	}
	d.hitBuf = d.collect(nodes, nodes.Root(), x, y, nil, d.hitBuf[:0])

	// Paint order is pre-order, so the last hit is on top.
	if len(d.hitBuf) == 0 {
		return donburi.Null
	}
	return d.hitBuf[len(d.hitBuf)-1]
}

// collect appends every entity under (x, y) in paint order, honoring
// pointer-event modes and ancestor clips.
func (d *EventDispatcher) collect(nodes *Tree, e Entity, x, y float64, clip *Rect, buf []Entity) []Entity {
	n, ok := nodeOf(d.ctx.world, e)
	mode := PointerEventsAll
	if ok {
		mode = n.ResolvedStyle.PointerEvents.ResolveOr(PointerEventsAll)
	}
	if mode == PointerEventsNone {
		return buf
	}
	rect, _ := d.ctx.layout.Get(e)
	if ok && n.Primitive.Kind == PrimitiveClip {
		r := rect
		if clip != nil {
			r = intersect(*clip, rect)
		}
		clip = &r
	}
	inClip := clip == nil || clip.Contains(x, y)
	if ok && mode != PointerEventsChildrenOnly && inClip && rect.Contains(x, y) {
		buf = append(buf, e)
	}
	if mode == PointerEventsSelfOnly {
		return buf
	}
	for _, child := range nodes.Children(e) {
		buf = d.collect(nodes, child, x, y, clip, buf)
	}
	return buf
}

func intersect(a, b Rect) Rect {
	x0 := max(a.X, b.X)
	y0 := max(a.Y, b.Y)
	x1 := min(a.X+a.Width, b.X+b.Width)
	y1 := min(a.Y+a.Height, b.Y+b.Height)
	return Rect{X: x0, Y: y0, Width: max(0, x1-x0), Height: max(0, y1-y0), Z: b.Z}
}
