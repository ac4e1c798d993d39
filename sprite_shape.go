package strata

import (
	"fmt"
	"math"
)

// TriangleSprite is a flat-colored triangle. It samples the center of the
// atlas white region so it batches through the same texture path as images.
type TriangleSprite struct {
	id        SpriteID
	layer     string
	white     *AtlasRegion
	pts       [3]Vec2
	depth     float64
	color     Color
	destroyed bool
}

// NewTriangleSprite builds a triangle. white is the atlas white region; a nil
// region makes the triangle sample texture coordinate (0, 0).
func NewTriangleSprite(id SpriteID, layerID string, white *AtlasRegion, p1, p2, p3 Vec2, depth float64, color Color) TriangleSprite {
	return TriangleSprite{
		id:    id,
		layer: layerID,
		white: white,
		pts:   [3]Vec2{p1, p2, p3},
		depth: depth,
		color: color,
	}
}

// NewTriangleFromPoints is NewTriangleSprite taking a point slice. It panics
// unless pts holds exactly three points.
func NewTriangleFromPoints(id SpriteID, layerID string, white *AtlasRegion, pts []Vec2, depth float64, color Color) TriangleSprite {
	if len(pts) != 3 {
		panic(fmt.Sprintf("strata: triangle needs 3 points, got %d", len(pts)))
	}
	return NewTriangleSprite(id, layerID, white, pts[0], pts[1], pts[2], depth, color)
}

// TrianglePatch lists the fields a triangle update may change.
type TrianglePatch struct {
	P1, P2, P3 Opt[Vec2]
	Depth      Opt[float64]
	Color      Opt[Color]
}

// WithChanges applies p, returning t itself and false when nothing differs.
func (t TriangleSprite) WithChanges(p TrianglePatch) (TriangleSprite, bool) {
	next := t
	next.pts = [3]Vec2{p.P1.Or(t.pts[0]), p.P2.Or(t.pts[1]), p.P3.Or(t.pts[2])}
	next.depth = p.Depth.Or(t.depth)
	next.color = p.Color.Or(t.color)
	if next == t {
		return t, false
	}
	return next, true
}

func (t TriangleSprite) ID() SpriteID     { return t.id }
func (t TriangleSprite) Kind() SpriteKind { return SpriteTriangle }
func (t TriangleSprite) LayerID() string  { return t.layer }
func (t TriangleSprite) Depth() float64   { return t.depth }
func (t TriangleSprite) Destroyed() bool  { return t.destroyed }
func (t TriangleSprite) Color() Color     { return t.color }
func (t TriangleSprite) Points() [3]Vec2  { return t.pts }

// Area returns the triangle's unsigned area.
func (t TriangleSprite) Area() float64 {
	a, b, c := t.pts[0], t.pts[1], t.pts[2]
	return math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
}

// Emit writes 3 vertices, 3 texture coordinates, 3 colors and 3 indices at slot i.
func (t TriangleSprite) Emit(i int, vertices, texCoords, colors []float32, indices []uint32) {
	var u, v float32
	if t.white != nil {
		u, v = t.white.Center()
	}
	for j, p := range t.pts {
		vertices[i*6+j*2] = float32(p.X)
		vertices[i*6+j*2+1] = float32(p.Y)
		texCoords[i*6+j*2] = u
		texCoords[i*6+j*2+1] = v
		indices[i*3+j] = uint32(i*3 + j)
	}
	if colors != nil {
		writeColors(colors, i*9, 3, t.color)
	}
}

// LineSprite is a thick segment drawn as two triangles forming a rectangle.
// It owns both triangles; each has its own ID and is what layers store.
type LineSprite struct {
	id        SpriteID
	layer     string
	white     *AtlasRegion
	p1, p2    Vec2
	thickness float64
	depth     float64
	color     Color
	destroyed bool
	tris      [2]TriangleSprite
}

// NewLineSprite builds a line from p1 to p2. childIDs are the identities of
// the two triangles the line decomposes into.
func NewLineSprite(id SpriteID, childIDs [2]SpriteID, layerID string, white *AtlasRegion, p1, p2 Vec2, thickness, depth float64, color Color) LineSprite {
	l := LineSprite{
		id:        id,
		layer:     layerID,
		white:     white,
		p1:        p1,
		p2:        p2,
		thickness: thickness,
		depth:     depth,
		color:     color,
	}
	for k := range l.tris {
		l.tris[k] = TriangleSprite{id: childIDs[k], layer: layerID, white: white}
	}
	return l.rebuildChildren()
}

// NewLineFromPoints is NewLineSprite taking a point slice. It panics unless
// pts holds exactly two points.
func NewLineFromPoints(id SpriteID, childIDs [2]SpriteID, layerID string, white *AtlasRegion, pts []Vec2, thickness, depth float64, color Color) LineSprite {
	if len(pts) != 2 {
		panic(fmt.Sprintf("strata: line needs 2 points, got %d", len(pts)))
	}
	return NewLineSprite(id, childIDs, layerID, white, pts[0], pts[1], thickness, depth, color)
}

// LinePatch lists the fields a line update may change.
type LinePatch struct {
	P1, P2    Opt[Vec2]
	Thickness Opt[float64]
	Depth     Opt[float64]
	Color     Opt[Color]
}

// WithChanges applies p and recomputes both triangles. It returns l itself
// and false when nothing differs.
func (l LineSprite) WithChanges(p LinePatch) (LineSprite, bool) {
	next := l
	next.p1 = p.P1.Or(l.p1)
	next.p2 = p.P2.Or(l.p2)
	next.thickness = p.Thickness.Or(l.thickness)
	next.depth = p.Depth.Or(l.depth)
	next.color = p.Color.Or(l.color)
	if next == l {
		return l, false
	}
	return next.rebuildChildren(), true
}

// rebuildChildren recomputes the rectangle r1..r4 around p1->p2 and splits it
// into (r1, r2, r4) and (r3, r4, r2). Odd thicknesses put the floor half on
// the "up" side and the ceiling half on the "down" side. A zero-length line
// collapses both triangles onto p1.
func (l LineSprite) rebuildChildren() LineSprite {
	var r1, r2, r3, r4 Vec2
	d := l.p2.Sub(l.p1)
	length := math.Hypot(d.X, d.Y)
	if length == 0 {
		r1, r2, r3, r4 = l.p1, l.p1, l.p1, l.p1
	} else {
		upLen := math.Floor(l.thickness / 2)
		downLen := l.thickness - upLen
		// (-dy, dx) is d rotated by 90 degrees.
		nx, ny := -d.Y/length, d.X/length
		up := Vec2{nx * upLen, ny * upLen}
		down := Vec2{-nx * downLen, -ny * downLen}
		r1 = l.p1.Add(up)
		r2 = l.p2.Add(up)
		r3 = l.p2.Add(down)
		r4 = l.p1.Add(down)
	}
	l.tris[0], _ = l.tris[0].WithChanges(TrianglePatch{
		P1: Set(r1), P2: Set(r2), P3: Set(r4),
		Depth: Set(l.depth), Color: Set(l.color),
	})
	l.tris[1], _ = l.tris[1].WithChanges(TrianglePatch{
		P1: Set(r3), P2: Set(r4), P3: Set(r2),
		Depth: Set(l.depth), Color: Set(l.color),
	})
	return l
}

func (l LineSprite) ID() SpriteID       { return l.id }
func (l LineSprite) Kind() SpriteKind   { return SpriteLine }
func (l LineSprite) LayerID() string    { return l.layer }
func (l LineSprite) Depth() float64     { return l.depth }
func (l LineSprite) Destroyed() bool    { return l.destroyed }
func (l LineSprite) Color() Color       { return l.color }
func (l LineSprite) Thickness() float64 { return l.thickness }

// Points returns the line's endpoints.
func (l LineSprite) Points() (p1, p2 Vec2) { return l.p1, l.p2 }

// Children returns the two triangles the line is drawn with.
func (l LineSprite) Children() []Leaf {
	return []Leaf{l.tris[0], l.tris[1]}
}

// Triangles returns the two triangles as concrete values.
func (l LineSprite) Triangles() [2]TriangleSprite { return l.tris }

// MarkForRemoval returns a copy flagged as destroyed.
func (l LineSprite) MarkForRemoval() LineSprite {
	l.destroyed = true
	for k := range l.tris {
		l.tris[k].destroyed = true
	}
	return l
}

// MarkForRemoval returns a copy flagged as destroyed.
func (t TriangleSprite) MarkForRemoval() TriangleSprite {
	t.destroyed = true
	return t
}
