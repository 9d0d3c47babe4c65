package fern

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string  `json:"action" yaml:"action"`
	Label  string  `json:"label,omitempty" yaml:"label,omitempty"`
	X      float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y      float64 `json:"y,omitempty" yaml:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty" yaml:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty" yaml:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty" yaml:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty" yaml:"toY,omitempty"`
	Frames int     `json:"frames,omitempty" yaml:"frames,omitempty"`
	Text   string  `json:"text,omitempty" yaml:"text,omitempty"`
	Key    string  `json:"key,omitempty" yaml:"key,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `json:"steps" yaml:"steps"`
}

// Script sequences injected input and primitive snapshots across frames.
// Attach it with Context.SetScript; it advances once per Update.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	snapshots map[string][]Primitive
}

var scriptKeys = map[string]Key{
	"tab":       KeyTab,
	"enter":     KeyEnter,
	"escape":    KeyEscape,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"space":     KeySpace,
	"left":      KeyLeft,
	"right":     KeyRight,
	"up":        KeyUp,
	"down":      KeyDown,
	"home":      KeyHome,
	"end":       KeyEnd,
}

// LoadScript parses a JSON script.
func LoadScript(data []byte) (*Script, error) {
	return ParseScript(data, "json")
}

// ParseScript parses a script in the given format, "json" or "yaml".
func ParseScript(data []byte, format string) (*Script, error) {
	var f scriptFile
	switch format {
	case "json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("fern: parse script: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("fern: parse script: %w", err)
		}
	default:
		return nil, fmt.Errorf("fern: unknown script format %q", format)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("fern: parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "click", "move", "drag", "wait", "snapshot", "type", "scroll":
		case "key":
			if _, ok := scriptKeys[st.Key]; !ok {
				return nil, fmt.Errorf("fern: parse script: step %d: unknown key %q", i, st.Key)
			}
		default:
			return nil, fmt.Errorf("fern: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps, snapshots: make(map[string][]Primitive)}, nil
}

// SetScript attaches s to the context. Pass nil to detach.
func (c *Context) SetScript(s *Script) {
	c.script = s
}

// Done reports whether every step has run.
func (s *Script) Done() bool {
	return s.done
}

// Snapshot returns the drawable primitives captured under label.
func (s *Script) Snapshot(label string) ([]Primitive, bool) {
	p, ok := s.snapshots[label]
	return p, ok
}

// step advances the script by one frame. Called at the start of Update.
func (s *Script) step(c *Context) {
	if s.done {
		return
	}
	// Let pending injections drain before advancing.
	if len(c.injectQueue) > 0 {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "snapshot":
		s.snapshots[st.Label] = c.DrawablePrimitives()
	case "click":
		c.InjectClick(st.X, st.Y)
	case "move":
		c.InjectMove(st.X, st.Y)
	case "drag":
		c.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "scroll":
		c.InjectScroll(st.X, st.Y, false)
	case "type":
		for _, r := range st.Text {
			c.InjectChar(r)
		}
	case "key":
		k := scriptKeys[st.Key]
		c.InjectKey(k, true, 0)
		c.InjectKey(k, false, 0)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 && len(c.injectQueue) == 0 {
		s.done = true
	}
}
