package fern

import "testing"

func TestLoadScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "snapshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "key", "key": "tab"},
			{"action": "snapshot", "label": "after-click"}
		]
	}`)

	s, err := LoadScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(s.steps))
	}
	if s.steps[0].Action != "snapshot" || s.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if s.steps[1].Action != "click" || s.steps[1].X != 100 || s.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if s.steps[2].Action != "wait" || s.steps[2].Frames != 3 {
		t.Error("step 2 mismatch")
	}
}

func TestParseScriptYAML(t *testing.T) {
	data := []byte(`
steps:
  - action: move
    x: 4
    y: 8
  - action: type
    text: hi
`)
	s, err := ParseScript(data, "yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.steps) != 2 || s.steps[0].Y != 8 || s.steps[1].Text != "hi" {
		t.Errorf("steps = %+v", s.steps)
	}
}

func TestParseScriptErrors(t *testing.T) {
	cases := []struct {
		name, format, data string
	}{
		{"invalid json", "json", `not json`},
		{"empty", "json", `{"steps": []}`},
		{"unknown action", "json", `{"steps": [{"action": "screenshot"}]}`},
		{"unknown key", "json", `{"steps": [{"action": "key", "key": "f13"}]}`},
		{"unknown format", "xml", `<steps/>`},
	}
	for _, tc := range cases {
		if _, err := ParseScript([]byte(tc.data), tc.format); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

// --- Stepping ---

func TestScriptStepClick(t *testing.T) {
	ctx := newTestContext(t, Config{})
	s, err := LoadScript([]byte(`{"steps": [{"action": "click", "x": 50, "y": 50}]}`))
	if err != nil {
		t.Fatal(err)
	}

	// First step: click queues press+release.
	s.step(ctx)
	if ctx.PendingInjected() != 2 {
		t.Fatalf("expected 2 queued events, got %d", ctx.PendingInjected())
	}
	if s.Done() {
		t.Error("script should not be done while injections are pending")
	}

	ctx.processInjectedInput()
	ctx.processInjectedInput()

	s.step(ctx)
	if !s.Done() {
		t.Error("script should be done after all steps ran and the queue drained")
	}
}

func TestScriptStepWait(t *testing.T) {
	ctx := newTestContext(t, Config{})
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "snapshot", "label": "done"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		s.step(ctx)
		if s.Done() {
			t.Fatalf("frame %d: should not be done during wait", i+1)
		}
	}
	s.step(ctx)
	if !s.Done() {
		t.Error("script should be done after the snapshot step")
	}
	if _, ok := s.Snapshot("done"); !ok {
		t.Error("expected snapshot 'done'")
	}
}

func TestScriptStepDrag(t *testing.T) {
	ctx := newTestContext(t, Config{})
	s, err := LoadScript([]byte(`{"steps": [{"action": "drag", "fromX": 10, "fromY": 10, "toX": 200, "toY": 200, "frames": 4}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.step(ctx)
	if ctx.PendingInjected() != 4 {
		t.Fatalf("expected 4 queued events for drag, got %d", ctx.PendingInjected())
	}
}

func TestScriptWaitsForInjectQueue(t *testing.T) {
	ctx := newTestContext(t, Config{})
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "type", "text": "abc"},
		{"action": "snapshot", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	s.step(ctx)
	if ctx.PendingInjected() != 3 {
		t.Fatalf("expected 3 events, got %d", ctx.PendingInjected())
	}
	s.step(ctx)
	if s.cursor != 1 {
		t.Errorf("cursor should still be 1, got %d", s.cursor)
	}

	ctx.injectQueue = ctx.injectQueue[:0]
	s.step(ctx)
	if _, ok := s.Snapshot("after"); !ok {
		t.Error("expected snapshot 'after'")
	}
	if !s.Done() {
		t.Error("script should be done")
	}
}

// --- End to end ---

func TestScriptDrivesFrames(t *testing.T) {
	ctx, _, _, tr := pointerScene(t, quad(100, 100))
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "snapshot", "label": "before"},
		{"action": "click", "x": 10, "y": 10},
		{"action": "snapshot", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	ctx.SetScript(s)

	for i := 0; i < 10 && !s.Done(); i++ {
		ctx.Update()
	}
	if !s.Done() {
		t.Fatal("script did not finish")
	}
	assertTrace(t, tr.only(EventClick), "b:click", "a:click", "root:click")

	before, _ := s.Snapshot("before")
	after, _ := s.Snapshot("after")
	if len(before) != 2 || len(after) != 2 {
		t.Errorf("snapshots hold %d and %d primitives, want 2 quads each", len(before), len(after))
	}
}
