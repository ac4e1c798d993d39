package strata

import "image"

// DrawBatch is one layer's draw request: four flat arrays and the draw-time
// transform. Screen position of a vertex is (v + Offset) * PixelScale.
//
// The slices alias the layer's packed arrays and are only valid until the
// next rebuild.
type DrawBatch struct {
	LayerID    string
	Kind       LayerKind
	Vertices   []float32 // xy pairs in logical pixels
	TexCoords  []float32 // normalized uv pairs, bottom-left origin
	Colors     []float32 // rgb triples; nil when the layer has color disabled
	Indices    []uint32  // triangle list
	Offset     Vec2
	PixelScale float64
}

// Transform maps a logical-pixel vertex to screen pixels.
func (b *DrawBatch) Transform(x, y float32) (float32, float32) {
	s := float32(b.PixelScale)
	return (x + float32(b.Offset.X)) * s, (y + float32(b.Offset.Y)) * s
}

// Backend is the graphics collaborator an Engine draws through.
type Backend interface {
	// SetAtlas uploads the shared atlas texture.
	SetAtlas(img image.Image, size image.Point) error
	// Clear fills the frame with c. Called once per frame before any Draw.
	Clear(c Color)
	// Draw issues one indexed draw call for the batch using the atlas texture.
	Draw(b *DrawBatch)
}
