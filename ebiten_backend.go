package strata

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenBackend draws layer batches onto an ebiten image with one
// DrawTriangles32 call per layer.
type EbitenBackend struct {
	// ScreenshotDir is where Screenshot writes PNGs. Empty means
	// DefaultScreenshotDir.
	ScreenshotDir string

	target    *ebiten.Image
	atlas     *ebiten.Image
	atlasSize image.Point
	verts     []ebiten.Vertex // reused conversion buffer, high-water mark

	drawCalls int
	shots     []string
}

// NewEbitenBackend returns a backend with no target; call SetTarget each frame.
func NewEbitenBackend() *EbitenBackend {
	return &EbitenBackend{}
}

// SetTarget sets the image subsequent Clear and Draw calls render into.
func (b *EbitenBackend) SetTarget(target *ebiten.Image) {
	b.target = target
	b.drawCalls = 0
}

// SetAtlas uploads img as the shared atlas texture.
func (b *EbitenBackend) SetAtlas(img image.Image, size image.Point) error {
	if img == nil {
		return fmt.Errorf("strata: ebiten backend: nil atlas image")
	}
	if b.atlas != nil {
		b.atlas.Deallocate()
	}
	b.atlas = ebiten.NewImageFromImage(img)
	b.atlasSize = size
	return nil
}

// Clear fills the target with c.
func (b *EbitenBackend) Clear(c Color) {
	if b.target == nil {
		return
	}
	b.target.Fill(c.toRGBA())
}

// Draw converts the batch to ebiten vertices and submits it.
func (b *EbitenBackend) Draw(batch *DrawBatch) {
	if b.target == nil || b.atlas == nil || len(batch.Indices) == 0 {
		return
	}
	b.verts = batchVertices(b.verts[:0], batch, b.atlasSize)

	var op ebiten.DrawTrianglesOptions
	op.Blend = ebiten.BlendSourceOver
	b.target.DrawTriangles32(b.verts, batch.Indices, b.atlas, &op)
	b.drawCalls++
}

// DrawCalls returns how many draw calls were issued since the last SetTarget.
func (b *EbitenBackend) DrawCalls() int { return b.drawCalls }

// batchVertices converts the flat arrays of a batch into ebiten vertices,
// appending to dst. Texture coordinates go from normalized bottom-left origin
// to ebiten's top-left pixel space. A missing color stream means white.
func batchVertices(dst []ebiten.Vertex, batch *DrawBatch, atlasSize image.Point) []ebiten.Vertex {
	n := len(batch.Vertices) / 2
	aw, ah := float32(atlasSize.X), float32(atlasSize.Y)
	for i := 0; i < n; i++ {
		dx, dy := batch.Transform(batch.Vertices[i*2], batch.Vertices[i*2+1])
		v := ebiten.Vertex{
			DstX:   dx,
			DstY:   dy,
			SrcX:   batch.TexCoords[i*2] * aw,
			SrcY:   (1 - batch.TexCoords[i*2+1]) * ah,
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		}
		if batch.Colors != nil {
			v.ColorR = batch.Colors[i*3]
			v.ColorG = batch.Colors[i*3+1]
			v.ColorB = batch.Colors[i*3+2]
		}
		dst = append(dst, v)
	}
	return dst
}
