package strata

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"sort"
)

// WhiteRegionName names the solid white region reserved in every packed atlas.
// Triangles sample its center so their vertex color alone decides appearance.
const WhiteRegionName = "__strata_white__"

// ErrNoAtlasSize is returned when a region is built before the atlas
// dimensions are known.
var ErrNoAtlasSize = errors.New("strata: no atlas size bound")

// AtlasRegion is one packed rectangle of the shared atlas texture.
//
// X, Y, W and H are in atlas pixels with the origin at the top-left, which is
// how packers lay sources out. Texture sampling uses a bottom-left origin, so
// the texture-space corners flip the vertical axis. Regions never change once
// built; sprites hold them by pointer.
type AtlasRegion struct {
	X, Y, W, H int

	atlasW, atlasH     int
	tx1, ty1, tx2, ty2 float64 // pixel-space texture corners, bottom-left origin
}

// NewAtlasRegion builds a region for the pixel rectangle (x, y, w, h) inside
// an atlas of the given size. The size must be known up front because the
// texture-space corners depend on the final atlas height.
func NewAtlasRegion(x, y, w, h int, atlasSize image.Point) (*AtlasRegion, error) {
	if atlasSize.X <= 0 || atlasSize.Y <= 0 {
		return nil, fmt.Errorf("strata: region (%d,%d %dx%d): %w", x, y, w, h, ErrNoAtlasSize)
	}
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > atlasSize.X || y+h > atlasSize.Y {
		return nil, fmt.Errorf("strata: region (%d,%d %dx%d) outside %dx%d atlas: %w",
			x, y, w, h, atlasSize.X, atlasSize.Y, ErrAtlasTooSmall)
	}
	return &AtlasRegion{
		X: x, Y: y, W: w, H: h,
		atlasW: atlasSize.X,
		atlasH: atlasSize.Y,
		tx1:    float64(x),
		tx2:    float64(x + w),
		ty1:    float64(atlasSize.Y - (y + h)),
		ty2:    float64(atlasSize.Y - y),
	}, nil
}

// Rect returns the region's pixel rectangle (top-left origin).
func (r *AtlasRegion) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Width returns the region width in atlas pixels.
func (r *AtlasRegion) Width() int { return r.W }

// Height returns the region height in atlas pixels.
func (r *AtlasRegion) Height() int { return r.H }

// AtlasSize returns the size of the atlas the region was finalized against.
func (r *AtlasRegion) AtlasSize() image.Point {
	return image.Pt(r.atlasW, r.atlasH)
}

// PixelUV returns the texture-space corners in atlas pixels with the
// vertical axis flipped: v1 is the bottom edge, v2 the top edge.
func (r *AtlasRegion) PixelUV() (u1, v1, u2, v2 float64) {
	return r.tx1, r.ty1, r.tx2, r.ty2
}

// UV returns the normalized texture-space corners.
func (r *AtlasRegion) UV() (u1, v1, u2, v2 float32) {
	w, h := float64(r.atlasW), float64(r.atlasH)
	return float32(r.tx1 / w), float32(r.ty1 / h), float32(r.tx2 / w), float32(r.ty2 / h)
}

// Center returns the normalized texture coordinate of the region's center.
func (r *AtlasRegion) Center() (u, v float32) {
	return float32((r.tx1 + r.tx2) / 2 / float64(r.atlasW)),
		float32((r.ty1 + r.ty2) / 2 / float64(r.atlasH))
}

func (r *AtlasRegion) String() string {
	return fmt.Sprintf("AtlasRegion(%d, %d, %d, %d)", r.X, r.Y, r.W, r.H)
}

// Atlas is the shared texture surface plus its named regions.
type Atlas struct {
	size    image.Point
	img     image.Image
	regions map[string]*AtlasRegion
	white   *AtlasRegion
}

// NewAtlas finalizes every rectangle of a pack result into an AtlasRegion.
func NewAtlas(res *PackResult) (*Atlas, error) {
	if res == nil {
		return nil, fmt.Errorf("strata: nil pack result")
	}
	a := &Atlas{
		size:    res.Size,
		img:     res.Image,
		regions: make(map[string]*AtlasRegion, len(res.Rects)),
	}
	for name, rect := range res.Rects {
		if err := a.define(name, rect); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Atlas) define(name string, rect image.Rectangle) error {
	r, err := NewAtlasRegion(rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy(), a.size)
	if err != nil {
		return fmt.Errorf("strata: atlas region %q: %w", name, err)
	}
	a.regions[name] = r
	if name == WhiteRegionName {
		a.white = r
	}
	return nil
}

// Region returns the region for name, or nil when the atlas has none.
// A nil region is valid on an image sprite: it renders with zero size.
func (a *Atlas) Region(name string) *AtlasRegion {
	if r, ok := a.regions[name]; ok {
		return r
	}
	logger().Warn("atlas region not found", "name", name)
	return nil
}

// Lookup returns the region for name and whether it exists.
func (a *Atlas) Lookup(name string) (*AtlasRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// White returns the reserved white region, or nil if the atlas has none.
func (a *Atlas) White() *AtlasRegion { return a.white }

// Size returns the atlas dimensions in pixels.
func (a *Atlas) Size() image.Point { return a.size }

// Image returns the atlas surface. It may be nil for atlases loaded from
// metadata whose page image is supplied separately.
func (a *Atlas) Image() image.Image { return a.img }

// Names returns the region names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for name := range a.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadAtlas parses TexturePacker JSON for a single page and finalizes its
// regions. Both the hash format (a "frames" object) and the array format (a
// "textures" list holding exactly one page) are accepted. The atlas size comes
// from "meta.size", or from the page image bounds when meta is absent.
func LoadAtlas(jsonData []byte, page image.Image) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
		Meta     struct {
			Size jsonSize `json:"size"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("strata: failed to parse atlas JSON: %w", err)
	}

	var frames map[string]jsonFrame
	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("strata: failed to parse atlas textures array: %w", err)
		}
		if len(textures) != 1 {
			return nil, fmt.Errorf("strata: atlas has %d pages, want exactly 1", len(textures))
		}
		frames = textures[0].Frames
		if probe.Meta.Size.W == 0 {
			probe.Meta.Size = textures[0].Size
		}
	case probe.Frames != nil:
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("strata: failed to parse atlas frames: %w", err)
		}
	default:
		return nil, fmt.Errorf("strata: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	size := image.Pt(probe.Meta.Size.W, probe.Meta.Size.H)
	if size.X == 0 || size.Y == 0 {
		if page == nil {
			return nil, fmt.Errorf("strata: atlas JSON has no meta.size and no page image: %w", ErrNoAtlasSize)
		}
		size = page.Bounds().Size()
	}

	a := &Atlas{
		size:    size,
		img:     page,
		regions: make(map[string]*AtlasRegion, len(frames)),
	}
	for name, f := range frames {
		if f.Rotated {
			return nil, fmt.Errorf("strata: atlas frame %q is stored rotated; repack without rotation", name)
		}
		rect := image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H)
		if err := a.define(name, rect); err != nil {
			return nil, err
		}
	}
	return a, nil
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
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Size   jsonSize             `json:"size"`
	Frames map[string]jsonFrame `json:"frames"`
}
