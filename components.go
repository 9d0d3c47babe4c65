package fern

import "github.com/yohamta/donburi"

// WidgetName is the registered type name of a widget entity.
type WidgetName string

// OnEvent handles a dispatched event for entity. The returned event is passed
// on to the next ancestor, so handlers can stop propagation or prevent the
// default action.
type OnEvent struct {
	Handler func(ctx *EventDispatcherContext, ev Event, entity Entity) Event
}

// OnLayout is called when the entity's solved rectangle changes.
type OnLayout struct {
	Handler func(ctx *Context, ev LayoutEvent)
}

// Children builds the child widgets of a container. Build runs inside the
// container's update routine and declares children through ctx.
type Children struct {
	Build func(ctx *WidgetContext, parent Entity)
}

// ChildList returns a Children that declares the given existing entities,
// in order. Passing the same entities every frame keeps their identity and
// state.
func ChildList(entities ...Entity) Children {
	list := append([]Entity(nil), entities...)
	return Children{Build: func(ctx *WidgetContext, parent Entity) {
		for _, e := range list {
			ctx.Add(e, parent)
		}
	}}
}

var (
	StyleComponent      = donburi.NewComponentType[Style]()
	WidgetNameComponent = donburi.NewComponentType[WidgetName]()
	NodeComponent       = donburi.NewComponentType[Node]()
	OnEventComponent    = donburi.NewComponentType[OnEvent]()
	OnLayoutComponent   = donburi.NewComponentType[OnLayout]()
	ChildrenComponent   = donburi.NewComponentType[Children]()
)

// Marker tags.
var (
	// Dirty marks a widget whose node must be recomputed.
	Dirty = donburi.NewTag()
	// Mounted marks a widget inserted during the current frame.
	Mounted = donburi.NewTag()
	// Focusable widgets receive focus when clicked and take part in Tab
	// cycling.
	Focusable = donburi.NewTag()
)

func hasTag(w donburi.World, e Entity, tag donburi.IComponentType) bool {
	if !w.Valid(e) {
		return false
	}
	return w.Entry(e).HasComponent(tag)
}

func addTag(w donburi.World, e Entity, tag donburi.IComponentType) {
	if !w.Valid(e) {
		return
	}
	entry := w.Entry(e)
	if !entry.HasComponent(tag) {
		entry.AddComponent(tag)
	}
}

func removeTag(w donburi.World, e Entity, tag donburi.IComponentType) {
	if !w.Valid(e) {
		return
	}
	entry := w.Entry(e)
	if entry.HasComponent(tag) {
		entry.RemoveComponent(tag)
	}
}

// styleOf returns the raw style of e, or the zero style when it has none.
func styleOf(w donburi.World, e Entity) (Style, bool) {
	if !w.Valid(e) {
		return Style{}, false
	}
	entry := w.Entry(e)
	if !entry.HasComponent(StyleComponent) {
		return Style{}, false
	}
	return *StyleComponent.Get(entry), true
}

// nodeOf returns the stored node of e.
func nodeOf(w donburi.World, e Entity) (Node, bool) {
	if !w.Valid(e) {
		return Node{}, false
	}
	entry := w.Entry(e)
	if !entry.HasComponent(NodeComponent) {
		return Node{}, false
	}
	return *NodeComponent.Get(entry), true
}

// setComponent adds or replaces a component value.
func setComponent[T any](w donburi.World, e Entity, c *donburi.ComponentType[T], v T) {
	if !w.Valid(e) {
		return
	}
	entry := w.Entry(e)
	if !entry.HasComponent(c) {
		entry.AddComponent(c)
	}
	c.SetValue(entry, v)
}
