package fern

import "testing"

// Minimal BMFont .fnt text data with ASCII glyphs for "ABCDEFGHIJ" + space.
const testFntData = `info face="TestFont" size=32 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=0,0
common lineHeight=40 base=30 scaleW=256 scaleH=256 pages=1 packed=0
page id=0 file="test.png"
chars count=11
char id=32  x=0   y=0   width=0   height=0   xoffset=0   yoffset=0   xadvance=10  page=0
char id=65  x=0   y=0   width=20  height=30  xoffset=1   yoffset=2   xadvance=22  page=0
char id=66  x=20  y=0   width=18  height=30  xoffset=1   yoffset=2   xadvance=20  page=0
char id=67  x=38  y=0   width=19  height=30  xoffset=1   yoffset=2   xadvance=21  page=0
char id=68  x=57  y=0   width=20  height=30  xoffset=1   yoffset=2   xadvance=22  page=0
char id=69  x=77  y=0   width=16  height=30  xoffset=1   yoffset=2   xadvance=18  page=0
char id=70  x=93  y=0   width=15  height=30  xoffset=1   yoffset=2   xadvance=17  page=0
char id=71  x=108 y=0   width=20  height=30  xoffset=1   yoffset=2   xadvance=22  page=0
char id=72  x=128 y=0   width=20  height=30  xoffset=1   yoffset=2   xadvance=22  page=0
char id=73  x=148 y=0   width=8   height=30  xoffset=1   yoffset=2   xadvance=10  page=0
char id=74  x=156 y=0   width=12  height=30  xoffset=0   yoffset=2   xadvance=14  page=0
kernings count=2
kerning first=65 second=66 amount=-2
kerning first=65 second=67 amount=-1
`

func loadTestFont(t *testing.T) *BitmapFont {
	t.Helper()
	f, err := LoadBitmapFont([]byte(testFntData))
	if err != nil {
		t.Fatalf("LoadBitmapFont: %v", err)
	}
	return f
}

// --- LoadBitmapFont ---

func TestLoadBitmapFont_Metrics(t *testing.T) {
	f := loadTestFont(t)
	if f.LineHeight() != 40 {
		t.Errorf("LineHeight = %v, want 40", f.LineHeight())
	}
	if f.Size() != 32 {
		t.Errorf("Size = %v, want 32", f.Size())
	}
	if _, ok := f.glyphs['A']; !ok {
		t.Error("glyph A missing")
	}
	if _, ok := f.glyphs['Z']; ok {
		t.Error("glyph Z should not exist")
	}
}

func TestLoadBitmapFont_InvalidData(t *testing.T) {
	if _, err := LoadBitmapFont([]byte("not valid fnt data at all")); err == nil {
		t.Error("expected error for garbage data")
	}
	noChars := "common lineHeight=40 base=30\n"
	if _, err := LoadBitmapFont([]byte(noChars)); err == nil {
		t.Error("expected error for missing chars")
	}
}

// --- Measure ---

func TestBitmapFontMeasureKerning(t *testing.T) {
	f := loadTestFont(t)
	l := f.Measure("AB", TextProperties{})
	// 22 + 20 - 2 kerning
	if l.Size != (Vec2{40, 40}) {
		t.Errorf("Size = %+v, want {40 40}", l.Size)
	}
	if len(l.Glyphs) != 2 || l.Glyphs[1].X != 21 {
		t.Errorf("glyphs = %+v", l.Glyphs)
	}
}

func TestBitmapFontMeasureScalesWithFontSize(t *testing.T) {
	f := loadTestFont(t)
	l := f.Measure("AB", TextProperties{FontSize: 16})
	if l.Size != (Vec2{20, 20}) {
		t.Errorf("Size = %+v, want {20 20}", l.Size)
	}
}

func TestBitmapFontMeasureWraps(t *testing.T) {
	f := loadTestFont(t)
	l := f.Measure("AB AB", TextProperties{MaxSize: Vec2{X: 50}})
	if l.Lines != 2 {
		t.Fatalf("Lines = %d, want 2", l.Lines)
	}
	if l.Size.Y != 80 {
		t.Errorf("height = %v, want 80", l.Size.Y)
	}
	last := l.Glyphs[len(l.Glyphs)-1]
	if last.Y < 40 {
		t.Errorf("last glyph should be on the second line: %+v", last)
	}
}

func TestBitmapFontMeasureNewlines(t *testing.T) {
	f := loadTestFont(t)
	l := f.Measure("A\nBC\n", TextProperties{LineHeight: 10})
	if l.Lines != 2 || l.Size.Y != 20 {
		t.Errorf("Lines = %d, Size = %+v", l.Lines, l.Size)
	}
}

func TestFontMapping(t *testing.T) {
	m := NewFontMapping()
	if _, ok := m.Get(DefaultFont); ok {
		t.Error("empty mapping should not resolve")
	}
	m.Add(DefaultFont, loadTestFont(t))
	if _, ok := m.Get(DefaultFont); !ok {
		t.Error("registered font should resolve")
	}
}
