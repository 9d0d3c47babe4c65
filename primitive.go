package fern

// ImageHandle is an opaque key for an image owned by the host's asset
// store.
type ImageHandle string

// AssetStore resolves image handles. Renderers receive it explicitly; the
// core never loads assets itself.
type AssetStore interface {
	Image(h ImageHandle) (any, bool)
}

// PrimitiveKind identifies the variant held by a Primitive.
type PrimitiveKind uint8

const (
	PrimitiveEmpty PrimitiveKind = iota
	PrimitiveClip
	PrimitiveQuad
	PrimitiveText
	PrimitiveImage
	PrimitiveTextureAtlas
	PrimitiveNinePatch
)

var primitiveNames = [...]string{
	"empty", "clip", "quad", "text", "image", "texture-atlas", "nine-patch",
}

func (k PrimitiveKind) String() string {
	if int(k) < len(primitiveNames) {
		return primitiveNames[k]
	}
	return "unknown"
}

// Primitive is one paint-ready element. Fields not used by Kind are zero.
// The primitive list is in paint order, back to front.
type Primitive struct {
	Kind   PrimitiveKind
	Entity Entity
	Layout Rect

	// Quad
	BackgroundColor Color
	BorderColor     Color
	Border          Edge[float64]
	BorderRadius    Corner[float64] // also Image

	// Text
	Color      Color
	Content    string
	Font       string
	Properties TextProperties
	TextLayout TextLayout

	// Image, TextureAtlas, NinePatch
	Handle ImageHandle

	// TextureAtlas tile, in source pixels.
	TilePosition Vec2
	TileSize     Vec2

	// NinePatch insets.
	Insets Edge[float64]
}

// PrimitiveFromStyle maps a resolved style to its primitive stub. Layout is
// filled in later from the layout cache.
func PrimitiveFromStyle(s *Style) Primitive {
	cmd := s.RenderCommand.Resolve()
	fontSize := s.FontSize.ResolveOr(14)

	switch cmd.Kind {
	case RenderClip:
		return Primitive{Kind: PrimitiveClip}
	case RenderQuad:
		return Primitive{
			Kind:            PrimitiveQuad,
			BackgroundColor: s.BackgroundColor.ResolveOr(ColorTransparent),
			BorderColor:     s.BorderColor.ResolveOr(ColorTransparent),
			Border:          s.Border.Resolve(),
			BorderRadius:    s.BorderRadius.Resolve(),
		}
	case RenderText:
		return Primitive{
			Kind:    PrimitiveText,
			Color:   s.Color.ResolveOr(ColorWhite),
			Content: cmd.Content,
			Font:    s.Font.ResolveOr(DefaultFont),
			Properties: TextProperties{
				FontSize:   fontSize,
				LineHeight: s.LineHeight.ResolveOr(fontSize * 1.2),
			},
		}
	case RenderImage:
		return Primitive{
			Kind:         PrimitiveImage,
			BorderRadius: s.BorderRadius.Resolve(),
			Handle:       cmd.Handle,
		}
	case RenderTextureAtlas:
		return Primitive{
			Kind:         PrimitiveTextureAtlas,
			Handle:       cmd.Handle,
			TilePosition: cmd.Position,
			TileSize:     cmd.Size,
		}
	case RenderNinePatch:
		return Primitive{
			Kind:   PrimitiveNinePatch,
			Handle: cmd.Handle,
			Insets: cmd.Insets,
		}
	default:
		// Empty and Layout
		return Primitive{Kind: PrimitiveEmpty}
	}
}
