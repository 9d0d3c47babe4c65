package fern

import (
	"strings"
	"testing"
)

// --- Test JSON fixtures ---

const singlePageJSON = `{
  "frames": {
    "hero.png": {
      "frame": {"x": 0, "y": 0, "w": 64, "h": 64},
      "rotated": false,
      "sourceSize": {"w": 64, "h": 64}
    },
    "enemy.png": {
      "frame": {"x": 64, "y": 0, "w": 32, "h": 48},
      "rotated": false,
      "sourceSize": {"w": 32, "h": 48}
    },
    "rotated.png": {
      "frame": {"x": 200, "y": 0, "w": 48, "h": 32},
      "rotated": true,
      "sourceSize": {"w": 32, "h": 48}
    }
  },
  "meta": {"image": "atlas.png"}
}`

const multiPageJSON = `{
  "textures": [
    {
      "image": "atlas-0.png",
      "frames": {
        "page0_sprite.png": {"frame": {"x": 0, "y": 0, "w": 64, "h": 64}, "sourceSize": {"w": 64, "h": 64}}
      }
    },
    {
      "image": "atlas-1.png",
      "frames": {
        "page1_sprite.png": {"frame": {"x": 10, "y": 20, "w": 50, "h": 50}, "sourceSize": {"w": 50, "h": 50}}
      }
    }
  ]
}`

// --- LoadAtlas ---

func TestLoadAtlas_SinglePage(t *testing.T) {
	a, err := LoadAtlas([]byte(singlePageJSON), []ImageHandle{"ui"})
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if a.Len() != 3 {
		t.Fatalf("Len = %d, want 3", a.Len())
	}
	tile, ok := a.Tile("enemy.png")
	if !ok {
		t.Fatal("enemy.png missing")
	}
	if tile.Page != "ui" || tile.Position != (Vec2{64, 0}) || tile.Size != (Vec2{32, 48}) {
		t.Errorf("tile = %+v", tile)
	}
	if r, _ := a.Tile("rotated.png"); !r.Rotated {
		t.Error("rotated flag lost")
	}
}

func TestLoadAtlas_MultiPageFallsBackToImageName(t *testing.T) {
	a, err := LoadAtlas([]byte(multiPageJSON), []ImageHandle{"first"})
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if tile, _ := a.Tile("page0_sprite.png"); tile.Page != "first" {
		t.Errorf("page 0 handle = %q, want first", tile.Page)
	}
	if tile, _ := a.Tile("page1_sprite.png"); tile.Page != "atlas-1.png" {
		t.Errorf("page 1 handle = %q, want atlas-1.png", tile.Page)
	}
}

func TestLoadAtlas_Errors(t *testing.T) {
	if _, err := LoadAtlas([]byte(`not json`), nil); err == nil {
		t.Error("expected error for invalid JSON")
	}
	_, err := LoadAtlas([]byte(`{"meta": {}}`), nil)
	if err == nil || !strings.Contains(err.Error(), "neither") {
		t.Errorf("err = %v, want missing-key error", err)
	}
}

func TestAtlasCommand(t *testing.T) {
	a, err := LoadAtlas([]byte(singlePageJSON), []ImageHandle{"ui"})
	if err != nil {
		t.Fatal(err)
	}
	cmd, ok := a.Command("hero.png")
	if !ok {
		t.Fatal("hero.png missing")
	}
	if cmd.Kind != RenderTextureAtlas || cmd.Handle != "ui" || cmd.Size != (Vec2{64, 64}) {
		t.Errorf("cmd = %+v", cmd)
	}
	if _, ok := a.Command("missing.png"); ok {
		t.Error("unknown tile should not resolve")
	}
}
