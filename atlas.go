package fern

import (
	"encoding/json"
	"fmt"
)

// AtlasTile is a named sub-rectangle of an atlas page.
type AtlasTile struct {
	Page     ImageHandle
	Position Vec2 // top-left corner within the page
	Size     Vec2
	// SourceSize is the untrimmed size as authored.
	SourceSize Vec2
	Rotated    bool
}

// Atlas maps tile names to regions of one or more page images, as exported
// by TexturePacker.
type Atlas struct {
	Pages []ImageHandle
	tiles map[string]AtlasTile
}

// Tile returns the tile registered under name.
func (a *Atlas) Tile(name string) (AtlasTile, bool) {
	t, ok := a.tiles[name]
	return t, ok
}

// Len returns the number of tiles.
func (a *Atlas) Len() int { return len(a.tiles) }

// Command returns a texture-atlas render command drawing the named tile.
func (a *Atlas) Command(name string) (RenderCommand, bool) {
	t, ok := a.tiles[name]
	if !ok {
		return RenderCommand{}, false
	}
	return CommandTextureAtlas(t.Page, t.Position, t.Size), true
}

// LoadAtlas parses TexturePacker JSON data. pages names the page images in
// order; the hash format uses only the first. Both the hash format (a
// single "frames" object) and the array format (a "textures" array with
// per-page frames) are supported.
func LoadAtlas(jsonData []byte, pages []ImageHandle) (*Atlas, error) {
	var shape struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
		Meta     struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &shape); err != nil {
		return nil, fmt.Errorf("fern: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		Pages: pages,
		tiles: make(map[string]AtlasTile),
	}

	switch {
	case shape.Textures != nil:
		if err := parseArrayFormat(shape.Textures, atlas); err != nil {
			return nil, err
		}
	case shape.Frames != nil:
		if len(atlas.Pages) == 0 && shape.Meta.Image != "" {
			atlas.Pages = []ImageHandle{ImageHandle(shape.Meta.Image)}
		}
		if err := parseHashFrames(shape.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("fern: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame      jsonRect `json:"frame"`
	Rotated    bool     `json:"rotated"`
	SourceSize jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func (a *Atlas) page(i int) ImageHandle {
	if i < len(a.Pages) {
		return a.Pages[i]
	}
	return ""
}

func parseHashFrames(raw json.RawMessage, page int, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("fern: failed to parse atlas frames: %w", err)
	}
	for name, f := range frames {
		atlas.tiles[name] = frameToTile(f, atlas.page(page))
	}
	return nil
}

// parseArrayFormat reads [{"image": "...", "frames": {...}}, ...]. Pages
// without a handle fall back to their image file name.
func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("fern: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		h := atlas.page(i)
		if h == "" {
			h = ImageHandle(tex.Image)
		}
		for name, f := range tex.Frames {
			atlas.tiles[name] = frameToTile(f, h)
		}
	}
	return nil
}

func frameToTile(f jsonFrame, page ImageHandle) AtlasTile {
	return AtlasTile{
		Page:       page,
		Position:   Vec2{X: float64(f.Frame.X), Y: float64(f.Frame.Y)},
		Size:       Vec2{X: float64(f.Frame.W), Y: float64(f.Frame.H)},
		SourceSize: Vec2{X: float64(f.SourceSize.W), Y: float64(f.SourceSize.H)},
		Rotated:    f.Rotated,
	}
}
