package strata

// Color is an RGB color with components in [0, 1]. Sprites carry no alpha;
// transparency comes from the atlas texture.
type Color struct {
	R, G, B float64
}

// ColorWhite is the default sprite color (no tint).
var ColorWhite = Color{1, 1, 1}

// Vec2 is a 2D point in unscaled logical pixels.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// SpriteKind tags a sprite's variant. A sprite's kind never changes.
type SpriteKind uint8

const (
	SpriteImage    SpriteKind = iota // textured quad from an atlas region
	SpriteTriangle                   // flat-colored triangle sampling the white region
	SpriteLine                       // composite of two triangles; never drawn directly
)

func (k SpriteKind) String() string {
	switch k {
	case SpriteImage:
		return "image"
	case SpriteTriangle:
		return "triangle"
	case SpriteLine:
		return "line"
	default:
		return "unknown"
	}
}

// LayerKind selects the geometry a layer packs: quads of image sprites or
// triangles of polygon sprites.
type LayerKind uint8

const (
	LayerImage   LayerKind = iota // 4 vertices, 6 indices per sprite
	LayerPolygon                  // 3 vertices, 3 indices per sprite
)

func (k LayerKind) String() string {
	switch k {
	case LayerImage:
		return "image"
	case LayerPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// accepts reports whether a leaf sprite of kind sk may live in a layer of kind k.
func (k LayerKind) accepts(sk SpriteKind) bool {
	switch k {
	case LayerImage:
		return sk == SpriteImage
	case LayerPolygon:
		return sk == SpriteTriangle
	}
	return false
}

// verticesPerSprite returns how many vertices one member occupies.
func (k LayerKind) verticesPerSprite() int {
	if k == LayerPolygon {
		return 3
	}
	return 4
}

// indicesPerSprite returns how many indices one member occupies.
func (k LayerKind) indicesPerSprite() int {
	if k == LayerPolygon {
		return 3
	}
	return 6
}
