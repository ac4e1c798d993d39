package strata

import "fmt"

// ImageSprite draws an atlas region as an axis-aligned quad.
type ImageSprite struct {
	id        SpriteID
	layer     string
	region    *AtlasRegion
	x, y      float64
	scale     float64
	depth     float64
	xflip     bool
	rotation  int
	color     Color
	ratio     Vec2
	destroyed bool
}

// NewImageSprite returns an image sprite at (x, y) with scale 1, ratio (1, 1),
// no flip, no rotation and a white color. region may be nil.
func NewImageSprite(id SpriteID, layerID string, region *AtlasRegion, x, y float64) ImageSprite {
	return ImageSprite{
		id:     id,
		layer:  layerID,
		region: region,
		x:      x,
		y:      y,
		scale:  1,
		color:  ColorWhite,
		ratio:  Vec2{1, 1},
	}
}

// ImagePatch lists the fields an update may change. Unset fields keep their
// current value.
type ImagePatch struct {
	Region   Opt[*AtlasRegion]
	X, Y     Opt[float64]
	Scale    Opt[float64]
	Depth    Opt[float64]
	XFlip    Opt[bool]
	Rotation Opt[int] // quarter turns clockwise; normalized into [0, 3]
	Color    Opt[Color]
	Ratio    Opt[Vec2]
}

// WithChanges applies p. When every resolved field equals the current one it
// returns s itself and false.
func (s ImageSprite) WithChanges(p ImagePatch) (ImageSprite, bool) {
	next := s
	next.region = p.Region.Or(s.region)
	next.x = p.X.Or(s.x)
	next.y = p.Y.Or(s.y)
	next.scale = p.Scale.Or(s.scale)
	next.depth = p.Depth.Or(s.depth)
	next.xflip = p.XFlip.Or(s.xflip)
	next.rotation = normalizeRotation(p.Rotation.Or(s.rotation))
	next.color = p.Color.Or(s.color)
	next.ratio = p.Ratio.Or(s.ratio)
	if next == s {
		return s, false
	}
	return next, true
}

func normalizeRotation(r int) int {
	r %= 4
	if r < 0 {
		r += 4
	}
	return r
}

func (s ImageSprite) ID() SpriteID         { return s.id }
func (s ImageSprite) Kind() SpriteKind     { return SpriteImage }
func (s ImageSprite) LayerID() string      { return s.layer }
func (s ImageSprite) Depth() float64       { return s.depth }
func (s ImageSprite) Destroyed() bool      { return s.destroyed }
func (s ImageSprite) Region() *AtlasRegion { return s.region }
func (s ImageSprite) X() float64           { return s.x }
func (s ImageSprite) Y() float64           { return s.y }
func (s ImageSprite) Pos() Vec2            { return Vec2{s.x, s.y} }
func (s ImageSprite) Scale() float64       { return s.scale }
func (s ImageSprite) XFlip() bool          { return s.xflip }
func (s ImageSprite) Color() Color         { return s.color }
func (s ImageSprite) Ratio() Vec2          { return s.ratio }

// Rotation returns the number of clockwise quarter turns, 0 through 3.
func (s ImageSprite) Rotation() int { return s.rotation }

// MarkForRemoval returns a copy flagged as destroyed. Passing it to
// Engine.UpdateSprite removes the sprite.
func (s ImageSprite) MarkForRemoval() ImageSprite {
	s.destroyed = true
	return s
}

// unrotatedSize is the drawn size before applying quarter turns.
func (s ImageSprite) unrotatedSize() (w, h float64) {
	if s.region == nil {
		return 0, 0
	}
	return float64(s.region.W) * s.scale * s.ratio.X, float64(s.region.H) * s.scale * s.ratio.Y
}

// Width returns the drawn width. Odd rotations swap width and height.
func (s ImageSprite) Width() float64 {
	w, _ := s.Size()
	return w
}

// Height returns the drawn height. Odd rotations swap width and height.
func (s ImageSprite) Height() float64 {
	_, h := s.Size()
	return h
}

// Size returns the drawn width and height.
func (s ImageSprite) Size() (w, h float64) {
	w, h = s.unrotatedSize()
	if s.rotation%2 == 1 {
		return h, w
	}
	return w, h
}

// Emit writes 4 vertices, 4 texture coordinates, 4 colors and 6 indices at
// slot i. A sprite without a region still emits zero-area geometry so slot
// indices stay stable.
func (s ImageSprite) Emit(i int, vertices, texCoords, colors []float32, indices []uint32) {
	x, y := float32(s.x), float32(s.y)
	fw, fh := s.Size()
	w, h := float32(fw), float32(fh)

	v := vertices[i*8 : i*8+8]
	v[0], v[1] = x, y
	v[2], v[3] = x, y+h
	v[4], v[5] = x+w, y+h
	v[6], v[7] = x+w, y

	if colors != nil {
		writeColors(colors, i*12, 4, s.color)
	}

	t := texCoords[i*8 : i*8+8]
	if s.region == nil {
		clear(t)
	} else {
		corners := s.texCorners()
		copy(t, corners[:])
	}

	base := uint32(4 * i)
	ind := indices[i*6 : i*6+6]
	ind[0], ind[1], ind[2] = base, base+1, base+2
	ind[3], ind[4], ind[5] = base, base+2, base+3
}

// texCorners returns the texture coordinates for the four vertices in emit
// order. The flip is applied before the rotation.
func (s ImageSprite) texCorners() [8]float32 {
	u1, v1, u2, v2 := s.region.UV()
	c := [8]float32{
		u1, v2,
		u1, v1,
		u2, v1,
		u2, v2,
	}
	if s.xflip {
		c[0], c[2] = u2, u2
		c[4], c[6] = u1, u1
	}
	// Each quarter turn shifts the corner list left by one corner.
	for r := 0; r < s.rotation; r++ {
		c = [8]float32{c[2], c[3], c[4], c[5], c[6], c[7], c[0], c[1]}
	}
	return c
}

func (s ImageSprite) String() string {
	return fmt.Sprintf("ImageSprite(%d, %s, %v, %g, %g, scale=%g, depth=%g, xflip=%t, rot=%d)",
		s.id, s.layer, s.region, s.x, s.y, s.scale, s.depth, s.xflip, s.rotation)
}
