package ebitenui

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/phanxgames/fern"
	"golang.org/x/image/font/gofont/goregular"
)

// TTFFont measures and draws text with Ebitengine's text/v2. Faces are
// created lazily per font size.
type TTFFont struct {
	source *text.GoTextFaceSource
	size   float64

	mu    sync.Mutex
	faces map[float64]*text.GoTextFace
}

// LoadTTFFont parses TrueType or OpenType data. size is used when a
// measurement does not name one.
func LoadTTFFont(ttfData []byte, size float64) (*TTFFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("ebitenui: failed to parse TTF data: %w", err)
	}
	if size <= 0 {
		size = 14
	}
	return &TTFFont{source: source, size: size, faces: make(map[float64]*text.GoTextFace)}, nil
}

// DefaultFont loads Go Regular at 14px.
func DefaultFont() (*TTFFont, error) {
	return LoadTTFFont(goregular.TTF, 14)
}

// Face returns the face for a font size. Zero or negative uses the load
// size.
func (f *TTFFont) Face(size float64) *text.GoTextFace {
	if size <= 0 {
		size = f.size
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	face, ok := f.faces[size]
	if !ok {
		face = &text.GoTextFace{Source: f.source, Size: size}
		f.faces[size] = face
	}
	return face
}

func lineHeight(face *text.GoTextFace) float64 {
	m := face.Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

// Measure lays out content line by line, wrapping at spaces when
// props.MaxSize.X is positive. Glyph rects ignore kerning.
func (f *TTFFont) Measure(content string, props fern.TextProperties) fern.TextLayout {
	face := f.Face(props.FontSize)
	lh := props.LineHeight
	if lh <= 0 {
		lh = lineHeight(face)
	}
	m := face.Metrics()
	glyphH := m.HAscent + m.HDescent

	var lines []string
	for _, para := range strings.Split(content, "\n") {
		lines = append(lines, wrapLine(para, face, props.MaxSize.X)...)
	}

	widths := make([]float64, len(lines))
	var maxW float64
	for i, l := range lines {
		widths[i] = text.Advance(l, face)
		maxW = max(maxW, widths[i])
	}
	alignW := maxW
	if props.MaxSize.X > 0 {
		alignW = props.MaxSize.X
	}

	out := fern.TextLayout{Lines: len(lines), Size: fern.Vec2{X: maxW, Y: float64(len(lines)) * lh}}
	for li, l := range lines {
		var x float64
		switch props.Alignment {
		case fern.TextAlignCenter:
			x = (alignW - widths[li]) / 2
		case fern.TextAlignRight:
			x = alignW - widths[li]
		}
		for _, r := range l {
			adv := text.Advance(string(r), face)
			out.Glyphs = append(out.Glyphs, fern.GlyphRect{
				Rune: r, X: x, Y: float64(li) * lh, Width: adv, Height: glyphH,
			})
			x += adv
		}
	}
	return out
}

// wrapLine splits s at spaces so no line is wider than maxW. A single word
// wider than maxW gets a line of its own.
func wrapLine(s string, face *text.GoTextFace, maxW float64) []string {
	if maxW <= 0 || text.Advance(s, face) <= maxW {
		return []string{s}
	}
	var lines []string
	var cur string
	for _, w := range strings.Split(s, " ") {
		next := w
		if cur != "" {
			next = cur + " " + w
		}
		if cur != "" && text.Advance(next, face) > maxW {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur = next
	}
	return append(lines, cur)
}
