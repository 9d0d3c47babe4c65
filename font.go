package fern

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// TextAlign controls horizontal alignment of measured lines.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // align text to the left edge (default)
	TextAlignCenter                  // center text horizontally
	TextAlignRight                   // align text to the right edge
)

// TextProperties are the inputs to a text measurement.
type TextProperties struct {
	FontSize   float64
	LineHeight float64
	Alignment  TextAlign
	// MaxSize bounds the layout; a positive width enables word wrapping.
	MaxSize Vec2
}

// GlyphRect is one laid-out glyph relative to the text's top-left corner.
type GlyphRect struct {
	Rune                rune
	X, Y, Width, Height float64
}

// TextLayout is a measured block of text.
type TextLayout struct {
	Glyphs []GlyphRect
	Lines  int
	Size   Vec2
}

// FontMeasurer measures text for layout. Implementations must be safe for
// concurrent reads.
type FontMeasurer interface {
	Measure(content string, props TextProperties) TextLayout
}

// FontMapping resolves font names to measurers. Text widgets stay dirty
// until their font is registered.
type FontMapping struct {
	mu    sync.RWMutex
	fonts map[string]FontMeasurer
}

// NewFontMapping creates an empty mapping.
func NewFontMapping() *FontMapping {
	return &FontMapping{fonts: make(map[string]FontMeasurer)}
}

// Add registers f under name, replacing any previous font.
func (m *FontMapping) Add(name string, f FontMeasurer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fonts == nil {
		m.fonts = make(map[string]FontMeasurer)
	}
	m.fonts[name] = f
}

// Get returns the font registered under name.
func (m *FontMapping) Get(name string) (FontMeasurer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.fonts[name]
	return f, ok
}

// --- BitmapFont ---

// glyph holds the metrics of one BMFont character in exported pixels.
type glyph struct {
	width, height    float64
	xOffset, yOffset float64
	xAdvance         float64
}

// BitmapFont measures text from BMFont glyph metrics. Metrics are scaled by
// the requested font size relative to the size the font was exported at.
type BitmapFont struct {
	size       float64
	lineHeight float64
	base       float64

	glyphs   map[rune]glyph
	kernings map[[2]rune]float64
}

// LineHeight returns the unscaled distance between baselines.
func (f *BitmapFont) LineHeight() float64 {
	return f.lineHeight
}

// Size returns the size the font was exported at.
func (f *BitmapFont) Size() float64 {
	return f.size
}

// Base returns the unscaled distance from the top of a line to the
// baseline.
func (f *BitmapFont) Base() float64 {
	return f.base
}

func (f *BitmapFont) kern(first, second rune) float64 {
	return f.kernings[[2]rune{first, second}]
}

type lineLayout struct {
	glyphs []GlyphRect
	width  float64
}

// Measure lays out content, wrapping at word boundaries when
// props.MaxSize.X is positive. Runes without a glyph are skipped.
func (f *BitmapFont) Measure(content string, props TextProperties) TextLayout {
	scale := 1.0
	if props.FontSize > 0 && f.size > 0 {
		scale = props.FontSize / f.size
	}
	lh := props.LineHeight
	if lh <= 0 {
		lh = f.lineHeight * scale
	}
	wrap := props.MaxSize.X

	var lines []lineLayout
	var cur lineLayout
	var word []GlyphRect
	var wordStart int
	var cursorX float64
	var prev rune
	var hasPrev bool

	flush := func() {
		lines = append(lines, cur)
		cur = lineLayout{}
		cursorX = 0
		hasPrev = false
	}

	for i := 0; i < len(content); {
		r, size := utf8.DecodeRuneInString(content[i:])
		i += size

		if r == '\n' {
			cur.glyphs = append(cur.glyphs, word...)
			cur.width = cursorX
			word = word[:0]
			wordStart = i
			flush()
			continue
		}

		g, ok := f.glyphs[r]
		if !ok {
			hasPrev = false
			continue
		}
		var kern float64
		if hasPrev {
			kern = f.kern(prev, r) * scale
		}
		gr := GlyphRect{
			Rune:   r,
			X:      cursorX + kern + g.xOffset*scale,
			Y:      g.yOffset * scale,
			Width:  g.width * scale,
			Height: g.height * scale,
		}
		advance := g.xAdvance*scale + kern

		if r == ' ' {
			cur.glyphs = append(cur.glyphs, word...)
			cur.glyphs = append(cur.glyphs, gr)
			word = word[:0]
			wordStart = i
			cursorX += advance
			cur.width = cursorX
		} else {
			if wrap > 0 && cursorX+advance > wrap && len(cur.glyphs) > 0 {
				flush()
				word = word[:0]
				i = wordStart
				continue
			}
			word = append(word, gr)
			cursorX += advance
		}
		prev = r
		hasPrev = true
	}
	cur.glyphs = append(cur.glyphs, word...)
	cur.width = cursorX
	if len(cur.glyphs) > 0 || len(lines) == 0 {
		lines = append(lines, cur)
	}

	var maxW float64
	for _, l := range lines {
		maxW = max(maxW, l.width)
	}
	alignW := maxW
	if wrap > 0 {
		alignW = wrap
	}

	out := TextLayout{Lines: len(lines), Size: Vec2{X: maxW, Y: float64(len(lines)) * lh}}
	for li, l := range lines {
		var dx float64
		switch props.Alignment {
		case TextAlignCenter:
			dx = (alignW - l.width) / 2
		case TextAlignRight:
			dx = alignW - l.width
		}
		for _, g := range l.glyphs {
			g.X += dx
			g.Y += float64(li) * lh
			out.Glyphs = append(out.Glyphs, g)
		}
	}
	return out
}

// LoadBitmapFont parses BMFont .fnt text-format data. Only the metrics
// needed for measuring are kept; page and source rect fields are ignored.
func LoadBitmapFont(fntData []byte) (*BitmapFont, error) {
	f := &BitmapFont{
		glyphs:   make(map[rune]glyph),
		kernings: make(map[[2]rune]float64),
	}
	sc := bufio.NewScanner(bytes.NewReader(fntData))
	for sc.Scan() {
		tag, fields, ok := parseFntLine(sc.Text())
		if !ok {
			continue
		}
		switch tag {
		case "info":
			f.size = math.Abs(fields.num("size"))
		case "common":
			f.lineHeight = fields.num("lineHeight")
			f.base = fields.num("base")
		case "char":
			f.glyphs[rune(fields.num("id"))] = glyph{
				width:    fields.num("width"),
				height:   fields.num("height"),
				xOffset:  fields.num("xoffset"),
				yOffset:  fields.num("yoffset"),
				xAdvance: fields.num("xadvance"),
			}
		case "kerning":
			pair := [2]rune{rune(fields.num("first")), rune(fields.num("second"))}
			f.kernings[pair] = fields.num("amount")
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fern: read .fnt data: %w", err)
	}
	if f.lineHeight == 0 {
		return nil, fmt.Errorf("fern: .fnt data missing common lineHeight")
	}
	if len(f.glyphs) == 0 {
		return nil, fmt.Errorf("fern: .fnt data has no char definitions")
	}
	return f, nil
}

// fntFields are the key=value pairs of one .fnt line.
type fntFields map[string]string

// num parses a numeric field; missing or malformed values are zero.
func (m fntFields) num(key string) float64 {
	v, _ := strconv.ParseFloat(m[key], 64)
	return v
}

// parseFntLine splits a .fnt line into its tag and fields. Quoted values
// lose their quotes. Blank lines report false.
func parseFntLine(line string) (string, fntFields, bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil, false
	}
	fields := make(fntFields, len(parts)-1)
	for _, p := range parts[1:] {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		fields[k] = strings.Trim(v, `"`)
	}
	return parts[0], fields, true
}
