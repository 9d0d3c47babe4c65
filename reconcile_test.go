package fern

import (
	"fmt"
	"testing"

	"github.com/yohamta/donburi"
)

type counter struct{ N int }

var counterComponent = donburi.NewComponentType[counter]()

// counterRoutine spawns a fresh Text child showing the count whenever the
// counter changed.
func counterRoutine(ctx *WidgetContext, e Entity) bool {
	if !ctx.Changed(e) {
		return false
	}
	n := counterComponent.Get(ctx.World().Entry(e)).N
	text := ctx.Spawn("Text", e, StyleComponent)
	StyleComponent.SetValue(ctx.World().Entry(text), Style{
		RenderCommand: Value(CommandText(fmt.Sprintf("Count: %d", n))),
	})
	return true
}

func newCounter(w donburi.World) Entity {
	c := w.Create(counterComponent, WidgetNameComponent)
	WidgetNameComponent.SetValue(w.Entry(c), "Counter")
	return c
}

func textPrimitives(ps []Primitive) []Primitive {
	var out []Primitive
	for _, p := range ps {
		if p.Kind == PrimitiveText {
			out = append(out, p)
		}
	}
	return out
}

// --- End to end ---

func TestCounterReplacesText(t *testing.T) {
	ctx := newTestContext(t, Config{})
	ctx.AddWidgetSystem("Counter", counterRoutine)
	w := ctx.World()

	c := newCounter(w)
	root := element(t, ctx, layoutStyle(), c)
	ctx.Add(root, donburi.Null)
	ctx.Update()

	texts := textPrimitives(ctx.DrawablePrimitives())
	if len(texts) != 1 || texts[0].Content != "Count: 0" {
		t.Fatalf("texts = %+v, want one \"Count: 0\"", texts)
	}
	if texts[0].Layout.Width != 80 || texts[0].Layout.Height != 20 {
		t.Errorf("text layout = %+v, want 80x20", texts[0].Layout)
	}
	old := texts[0].Entity

	counterComponent.Get(w.Entry(c)).N = 1
	ctx.MarkDirty(c)
	ctx.Update()

	texts = textPrimitives(ctx.DrawablePrimitives())
	if len(texts) != 1 || texts[0].Content != "Count: 1" {
		t.Fatalf("texts = %+v, want one \"Count: 1\"", texts)
	}
	if texts[0].Entity == old {
		t.Error("text entity should have been replaced")
	}
	if w.Valid(old) || ctx.Tree().Contains(old) {
		t.Error("old text entity should be despawned")
	}
	if _, ok := ctx.Layout().Get(old); ok {
		t.Error("old layout slot should be removed")
	}
	if _, ok := ctx.WidgetType(old); ok {
		t.Error("old type binding should be removed")
	}
}

func TestUnchangedFrameKeepsChildren(t *testing.T) {
	ctx := newTestContext(t, Config{})
	ctx.AddWidgetSystem("Counter", counterRoutine)
	c := newCounter(ctx.World())
	root := element(t, ctx, layoutStyle(), c)
	ctx.Add(root, donburi.Null)
	ctx.Update()
	before := ctx.Tree().Children(c)

	ctx.Update()
	after := ctx.Tree().Children(c)
	if len(before) != 1 || len(after) != 1 || before[0] != after[0] {
		t.Errorf("children changed without a change: %v -> %v", before, after)
	}
}

// --- Reconciler ---

func TestRoutinesRunOncePerFramePreOrder(t *testing.T) {
	ctx := newTestContext(t, Config{})
	var order []Entity
	ctx.AddWidgetSystem("Trace", func(wc *WidgetContext, e Entity) bool {
		order = append(order, e)
		return elementRoutine(wc, e)
	})

	w := ctx.World()
	mk := func(children ...Entity) Entity {
		e := element(t, ctx, layoutStyle(), children...)
		WidgetNameComponent.SetValue(w.Entry(e), "Trace")
		return e
	}
	b1 := mk()
	b := mk(b1)
	a := mk()
	root := mk(a, b)
	ctx.Add(root, donburi.Null)
	ctx.Update()

	want := []Entity{root, a, b, b1}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestMountedOnlyOnInsertionFrame(t *testing.T) {
	ctx := newTestContext(t, Config{})
	var mounted []bool
	ctx.AddWidgetSystem("Watch", func(wc *WidgetContext, e Entity) bool {
		mounted = append(mounted, wc.IsMounted(e))
		return false
	})
	w := ctx.World()
	watched := w.Create(WidgetNameComponent)
	WidgetNameComponent.SetValue(w.Entry(watched), "Watch")
	root := element(t, ctx, layoutStyle(), watched)
	ctx.Add(root, donburi.Null)

	ctx.Update()
	ctx.Update()
	if len(mounted) != 2 || !mounted[0] || mounted[1] {
		t.Errorf("mounted = %v, want [true false]", mounted)
	}
	if w.Entry(watched).HasComponent(Mounted) {
		t.Error("Mounted should be cleared after the pass")
	}
}

func TestUnregisteredTypeStillDescends(t *testing.T) {
	ctx := newTestContext(t, Config{})
	var ran bool
	ctx.AddWidgetSystem("Leaf", func(*WidgetContext, Entity) bool { ran = true; return false })

	w := ctx.World()
	leaf := w.Create(WidgetNameComponent)
	WidgetNameComponent.SetValue(w.Entry(leaf), "Leaf")
	mid := element(t, ctx, layoutStyle(), leaf)
	root := element(t, ctx, layoutStyle(), mid)
	ctx.Add(root, donburi.Null)
	ctx.Update() // mid and leaf inserted

	// Drop the Element routine; mid's existing child is still visited.
	ctx.widgets = NewWidgetRegistry()
	ctx.AddWidgetSystem("Leaf", func(*WidgetContext, Entity) bool { ran = true; return false })
	ran = false
	ctx.Update()
	if !ran {
		t.Error("children of an unregistered widget should still be visited")
	}
	if !ctx.Tree().Contains(leaf) {
		t.Error("unregistered widget should keep its children")
	}
}

func TestRedeclaredChildrenReplacePrevious(t *testing.T) {
	ctx := newTestContext(t, Config{})
	w := ctx.World()
	a := element(t, ctx, quad(10, 10))
	b := element(t, ctx, quad(10, 10))
	root := element(t, ctx, layoutStyle(), a, b)
	ctx.Add(root, donburi.Null)
	ctx.Update()

	ChildrenComponent.SetValue(w.Entry(root), ChildList(b))
	ctx.MarkDirty(root)
	ctx.Update()

	assertChildren(t, ctx.Tree(), root, b)
	if w.Valid(a) {
		t.Error("removed child should be despawned")
	}
	if ctx.Stats().Despawned != 1 {
		t.Errorf("despawned = %d, want 1", ctx.Stats().Despawned)
	}
}

func TestReorderMarksMovedDirty(t *testing.T) {
	ctx := newTestContext(t, Config{})
	w := ctx.World()
	a := element(t, ctx, quad(10, 10))
	b := element(t, ctx, quad(10, 10))
	root := element(t, ctx, layoutStyle(), a, b)
	ctx.Add(root, donburi.Null)
	ctx.Update()

	ChildrenComponent.SetValue(w.Entry(root), ChildList(b, a))
	ctx.MarkDirty(root)
	ctx.Update()

	assertChildren(t, ctx.Tree(), root, b, a)
	if !w.Valid(a) || !w.Valid(b) {
		t.Error("moved children must survive")
	}
	ra, _ := ctx.Layout().Get(a)
	rb, _ := ctx.Layout().Get(b)
	if rb.Y != 0 || ra.Y != 10 {
		t.Errorf("after reorder a.Y = %v, b.Y = %v, want 10, 0", ra.Y, rb.Y)
	}
}

func TestNestedDeclarationMerged(t *testing.T) {
	ctx := newTestContext(t, Config{})
	w := ctx.World()
	leaf := w.Create(StyleComponent)
	StyleComponent.SetValue(w.Entry(leaf), quad(5, 5))
	mid := w.Create(StyleComponent)
	StyleComponent.SetValue(w.Entry(mid), layoutStyle())

	ctx.AddWidgetSystem("Nested", func(wc *WidgetContext, e Entity) bool {
		if !wc.Changed(e) {
			return false
		}
		wc.Add(mid, e)
		wc.Add(leaf, mid)
		return true
	})
	root := w.Create(StyleComponent)
	StyleComponent.SetValue(w.Entry(root), layoutStyle())
	ctx.AddWidget(root, "Nested", donburi.Null)
	ctx.Update()

	assertChildren(t, ctx.Tree(), root, mid)
	assertChildren(t, ctx.Tree(), mid, leaf)
	if _, ok := ctx.Layout().Get(leaf); !ok {
		t.Error("nested child should get a layout slot")
	}
}

func TestNestedDeclarationBottomUp(t *testing.T) {
	ctx := newTestContext(t, Config{})
	w := ctx.World()
	leaf := w.Create(StyleComponent)
	StyleComponent.SetValue(w.Entry(leaf), quad(5, 5))
	inner := w.Create(StyleComponent)
	StyleComponent.SetValue(w.Entry(inner), layoutStyle())
	outer := w.Create(StyleComponent)
	StyleComponent.SetValue(w.Entry(outer), layoutStyle())

	ctx.AddWidgetSystem("Nested", func(wc *WidgetContext, e Entity) bool {
		if !wc.Changed(e) {
			return false
		}
		wc.Add(leaf, inner)
		wc.Add(inner, outer)
		wc.Add(outer, e)
		return true
	})
	root := w.Create(StyleComponent)
	StyleComponent.SetValue(w.Entry(root), layoutStyle())
	ctx.AddWidget(root, "Nested", donburi.Null)
	ctx.Update()

	assertChildren(t, ctx.Tree(), root, outer)
	assertChildren(t, ctx.Tree(), outer, inner)
	assertChildren(t, ctx.Tree(), inner, leaf)
	if _, ok := ctx.Layout().Get(leaf); !ok {
		t.Error("deepest child should get a layout slot")
	}
	if !w.Valid(leaf) || !w.Valid(inner) {
		t.Error("children declared before their parent must survive")
	}
}

func TestReparentedChildNotRemounted(t *testing.T) {
	ctx := newTestContext(t, Config{})
	w := ctx.World()
	a := w.Create(StyleComponent)
	StyleComponent.SetValue(w.Entry(a), layoutStyle())
	b := w.Create(StyleComponent)
	StyleComponent.SetValue(w.Entry(b), layoutStyle())
	x := w.Create(StyleComponent)
	StyleComponent.SetValue(w.Entry(x), quad(5, 5))

	var mounted []bool
	ctx.AddWidgetSystem("Watch", func(wc *WidgetContext, e Entity) bool {
		mounted = append(mounted, wc.IsMounted(e))
		return false
	})
	underA := false
	ctx.AddWidgetSystem("Shuffle", func(wc *WidgetContext, e Entity) bool {
		if !wc.Changed(e) {
			return false
		}
		wc.Add(a, e)
		wc.Add(b, e)
		if underA {
			wc.Add(x, a)
		} else {
			wc.AddWidget(x, "Watch", b)
		}
		return true
	})
	root := w.Create(StyleComponent)
	StyleComponent.SetValue(w.Entry(root), layoutStyle())
	ctx.AddWidget(root, "Shuffle", donburi.Null)
	ctx.Update()

	// Moving to an earlier sibling merges the insertion before the removal.
	underA = true
	ctx.MarkDirty(root)
	ctx.Update()

	assertChildren(t, ctx.Tree(), a, x)
	assertChildren(t, ctx.Tree(), b)
	if !w.Valid(x) {
		t.Fatal("moved child must survive")
	}
	if len(mounted) != 2 || !mounted[0] || mounted[1] {
		t.Errorf("mounted = %v, want [true false]", mounted)
	}
	if name, _ := ctx.WidgetType(x); name != "Watch" {
		t.Errorf("type = %q, want Watch", name)
	}
}

func TestContextIntentsAppliedAfterRoutine(t *testing.T) {
	ctx := newTestContext(t, Config{})
	type theme struct{}
	w := ctx.World()

	var seen Entity
	var found bool
	ctx.AddWidgetSystem("Consumer", func(wc *WidgetContext, e Entity) bool {
		seen, found = ContextOf[theme](wc, e)
		return false
	})
	consumer := w.Create(WidgetNameComponent)
	WidgetNameComponent.SetValue(w.Entry(consumer), "Consumer")

	ctx.AddWidgetSystem("Provider", func(wc *WidgetContext, e Entity) bool {
		if !wc.IsMounted(e) {
			return false
		}
		SetContextOf[theme](wc, e, e)
		if wc.Context().Contexts().Len() != 0 {
			t.Error("context must not be registered before the routine returns")
		}
		wc.Add(consumer, e)
		return true
	})
	provider := w.Create(StyleComponent)
	ctx.AddWidget(provider, "Provider", donburi.Null)
	ctx.Update()

	if !found || seen != provider {
		t.Errorf("consumer saw %v, %v, want provider", seen, found)
	}

	ctx.Remove(provider)
	if ctx.Contexts().Len() != 0 {
		t.Error("despawn should drop context registrations")
	}
}

func TestFreezeDeletedClearsDirty(t *testing.T) {
	ctx := newTestContext(t, Config{})
	w := ctx.World()
	parent := w.Create(StyleComponent)
	gone := w.Create(StyleComponent)
	kept := w.Create(StyleComponent)
	ctx.MarkDirty(gone)
	ctx.MarkDirty(kept)

	ctx.FreezeDeleted(ChildDiff{Parent: parent, Changes: []ChildChange{
		{Entity: gone, Parent: parent, OldIndex: 0, Changes: []Change{ChangeDeleted}},
		{Entity: kept, Parent: parent, Index: 0, OldIndex: 1, Changes: []Change{ChangeMoved}},
	}})
	if w.Entry(gone).HasComponent(Dirty) {
		t.Error("deleted entity should lose Dirty")
	}
	if !w.Entry(kept).HasComponent(Dirty) {
		t.Error("moved entity should stay Dirty")
	}
}

func TestDepthWarningDoesNotLimitRecursion(t *testing.T) {
	ctx := newTestContext(t, Config{Debug: true, MaxTreeDepth: 2})
	leaf := element(t, ctx, quad(1, 1))
	chain := []Entity{leaf}
	for i := 0; i < 5; i++ {
		chain = append(chain, element(t, ctx, layoutStyle(), chain[len(chain)-1]))
	}
	ctx.Add(chain[len(chain)-1], donburi.Null)
	ctx.Update()
	if !ctx.Tree().Contains(leaf) {
		t.Error("deep trees should reconcile fully")
	}
}
