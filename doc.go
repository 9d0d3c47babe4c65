// Package fern is a retained-mode UI framework that lives inside a
// [donburi] ECS world.
//
// Widgets are ordinary entities. Each carries a [WidgetName] naming the
// update routine that builds it, a [Style] component, and usually a
// [ChildrenComponent] declaring its children. Every frame the [Context]
// reconciles the widget tree, runs the layout loop and flattens the
// renderable tree into a list of paint-ready [Primitive] values. Hosts paint
// the list however they like; package ebitenui paints it with Ebitengine.
//
// # Quick start
//
//	world := donburi.NewWorld()
//	ctx := fern.NewContext(world, fern.Options{Fonts: fonts})
//	widgets.Register(ctx)
//
//	app := widgets.NewApp(world, fern.Style{},
//		widgets.NewText(world, fern.Style{}, widgets.TextData{Content: "hello"}),
//	)
//	ctx.Add(app, donburi.Null)
//
//	for running {
//		ctx.QueueInput(pollInput()...)
//		ctx.Update()
//		paint(ctx.Primitives())
//	}
//
// # Reconciliation
//
// A widget's routine runs when it is first mounted, when it was marked with
// [Context.MarkDirty], or when its routine reports a change. Routines
// declare children through [WidgetContext.Add]; the difference
// against the previous children is merged into the [Tree] and entities that
// no longer appear anywhere in it are despawned at the end of the pass.
// Routines can hand values to descendants with [WidgetContext.SetContext]
// and [WidgetContext.GetContext].
//
// # Layout
//
// Nodes with a render command take part in layout. The solver runs up to
// five times per frame: [OnLayout] handlers may change styles in response to
// a size or position change, and the loop stops early once a pass changes
// nothing. Text is measured through the [FontMeasurer] registered under its
// font name in the [FontMapping]; a text widget whose font is missing stays
// dirty until the font is added.
//
// # Styles
//
// Every [StyleProp] is unset, a value, the default, or inherit. Text
// properties and pointer events inherit from the nearest ancestor that has
// a render node; everything else falls back to [InitialStyle].
//
// # Primitives
//
// Primitives are emitted in pre-order with a running z-index. A clip sits
// 0.1 below its own z, and after each child subtree of a clip a copy of the
// clip is re-emitted 0.1 above the running z so the next sibling paints
// inside the same region.
//
// # Input
//
// Raw [InputEvent] values queued with [Context.QueueInput] are turned into
// typed [Event] values by the [EventDispatcher]. Pointer events go to the
// topmost hit widget, or to the widget that captured the cursor, and bubble
// to its ancestors. Keyboard events go to the focused widget; Tab and
// Shift+Tab move focus between [Focusable] widgets. Every event is also
// published on [InteractionEventType].
//
// For tests and scripted demos, the Inject methods and [Script] queue
// synthetic input that is consumed one event per frame.
//
// [donburi]: https://github.com/yohamta/donburi
package fern
