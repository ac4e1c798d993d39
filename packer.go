package strata

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"slices"

	"golang.org/x/image/draw"
)

// whiteRegionSize is the side of the reserved white block. Larger than one
// pixel so linear filtering at its center never picks up neighbours.
const whiteRegionSize = 4

// Source is one named image to place in the atlas.
type Source struct {
	Name  string
	Image image.Image
}

// PackResult is what a Packer hands back: where every source landed, the
// final surface size, and the composited surface itself.
type PackResult struct {
	Rects map[string]image.Rectangle
	Size  image.Point
	Image *image.RGBA
}

// Packer assembles named image sources into one shared surface.
type Packer interface {
	Pack(sources []Source) (*PackResult, error)
}

// ShelfPacker packs sources into horizontal shelves, tallest first. It always
// reserves a white block under WhiteRegionName.
type ShelfPacker struct {
	// MaxWidth bounds the surface width. Zero means 2048.
	MaxWidth int
	// Padding is the gap in pixels between packed sources.
	Padding int
	// PowerOfTwo rounds the final surface size up to powers of two.
	PowerOfTwo bool
}

type packItem struct {
	name string
	img  image.Image
	size image.Point
}

// Pack places every source and composites them onto a new RGBA surface.
func (p ShelfPacker) Pack(sources []Source) (*PackResult, error) {
	maxW := p.MaxWidth
	if maxW <= 0 {
		maxW = 2048
	}

	items := make([]packItem, 0, len(sources)+1)
	seen := make(map[string]bool, len(sources)+1)
	for _, src := range sources {
		if src.Name == WhiteRegionName {
			return nil, fmt.Errorf("strata: source name %q is reserved", src.Name)
		}
		if seen[src.Name] {
			return nil, fmt.Errorf("strata: source %q: %w", src.Name, ErrDuplicateSource)
		}
		seen[src.Name] = true
		if src.Image == nil {
			return nil, fmt.Errorf("strata: source %q has no image", src.Name)
		}
		sz := src.Image.Bounds().Size()
		if sz.X > maxW {
			return nil, fmt.Errorf("strata: source %q is %dpx wide, max %d: %w", src.Name, sz.X, maxW, ErrAtlasTooSmall)
		}
		items = append(items, packItem{name: src.Name, img: src.Image, size: sz})
	}
	items = append(items, packItem{
		name: WhiteRegionName,
		img:  image.NewUniform(color.White),
		size: image.Pt(whiteRegionSize, whiteRegionSize),
	})

	// Tallest first keeps shelves tight; names break ties so output is
	// deterministic across runs.
	slices.SortStableFunc(items, func(a, b packItem) int {
		if c := cmp.Compare(b.size.Y, a.size.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})

	rects := make(map[string]image.Rectangle, len(items))
	x, y, shelfH, usedW := 0, 0, 0, 0
	for _, it := range items {
		if x > 0 && x+it.size.X > maxW {
			y += shelfH + p.Padding
			x, shelfH = 0, 0
		}
		rects[it.name] = image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+it.size.X, y+it.size.Y)}
		x += it.size.X + p.Padding
		usedW = max(usedW, x-p.Padding)
		shelfH = max(shelfH, it.size.Y)
	}

	size := image.Pt(max(usedW, 1), max(y+shelfH, 1))
	if p.PowerOfTwo {
		size = image.Pt(nextPowerOfTwo(size.X), nextPowerOfTwo(size.Y))
	}

	surface := image.NewRGBA(image.Rectangle{Max: size})
	for _, it := range items {
		dst := rects[it.name]
		draw.Draw(surface, dst, it.img, it.img.Bounds().Min, draw.Src)
	}

	logger().Info("atlas packed", "sources", len(sources), "width", size.X, "height", size.Y)
	return &PackResult{Rects: rects, Size: size, Image: surface}, nil
}

// BuildAtlas packs sources with p and finalizes the resulting atlas.
func BuildAtlas(p Packer, sources []Source) (*Atlas, error) {
	res, err := p.Pack(sources)
	if err != nil {
		return nil, err
	}
	return NewAtlas(res)
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
