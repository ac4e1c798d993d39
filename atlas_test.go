package strata

import (
	"errors"
	"image"
	"strings"
	"testing"
)

// --- Test JSON fixtures ---

const singlePageJSON = `{
  "frames": {
    "hero.png": {
      "frame": {"x": 0, "y": 0, "w": 64, "h": 64},
      "rotated": false
    },
    "enemy.png": {
      "frame": {"x": 64, "y": 0, "w": 32, "h": 48},
      "rotated": false
    }
  },
  "meta": {
    "image": "atlas.png",
    "size": {"w": 256, "h": 128}
  }
}`

const arrayJSON = `{
  "textures": [
    {
      "image": "atlas-0.png",
      "size": {"w": 128, "h": 128},
      "frames": {
        "page0_sprite.png": {"frame": {"x": 10, "y": 20, "w": 50, "h": 50}, "rotated": false}
      }
    }
  ]
}`

func assertFloat(t *testing.T, label string, got, want float64) {
	t.Helper()
	if diff := got - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}

func assertFloat32(t *testing.T, label string, got, want float32) {
	t.Helper()
	if diff := got - want; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}

// --- AtlasRegion ---

func TestAtlasRegionFlipsVerticalAxis(t *testing.T) {
	r, err := NewAtlasRegion(64, 16, 16, 16, image.Pt(128, 64))
	if err != nil {
		t.Fatalf("NewAtlasRegion: %v", err)
	}
	u1, v1, u2, v2 := r.PixelUV()
	assertFloat(t, "u1", u1, 64)
	assertFloat(t, "v1", v1, 32)
	assertFloat(t, "u2", u2, 80)
	assertFloat(t, "v2", v2, 48)

	nu1, nv1, nu2, nv2 := r.UV()
	assertFloat32(t, "norm u1", nu1, 0.5)
	assertFloat32(t, "norm v1", nv1, 0.5)
	assertFloat32(t, "norm u2", nu2, 0.625)
	assertFloat32(t, "norm v2", nv2, 0.75)
}

func TestAtlasRegionAccessors(t *testing.T) {
	r, err := NewAtlasRegion(8, 4, 16, 32, image.Pt(64, 64))
	if err != nil {
		t.Fatalf("NewAtlasRegion: %v", err)
	}
	if r.Width() != 16 || r.Height() != 32 {
		t.Errorf("size = %dx%d, want 16x32", r.Width(), r.Height())
	}
	if got, want := r.Rect(), image.Rect(8, 4, 24, 36); got != want {
		t.Errorf("Rect = %v, want %v", got, want)
	}
	if got := r.AtlasSize(); got != image.Pt(64, 64) {
		t.Errorf("AtlasSize = %v, want (64,64)", got)
	}
}

func TestAtlasRegionCenter(t *testing.T) {
	r, err := NewAtlasRegion(120, 0, 4, 4, image.Pt(128, 64))
	if err != nil {
		t.Fatalf("NewAtlasRegion: %v", err)
	}
	u, v := r.Center()
	assertFloat32(t, "u", u, 122.0/128)
	assertFloat32(t, "v", v, 62.0/64)
}

func TestAtlasRegionNoSize(t *testing.T) {
	_, err := NewAtlasRegion(0, 0, 16, 16, image.Point{})
	if !errors.Is(err, ErrNoAtlasSize) {
		t.Errorf("err = %v, want ErrNoAtlasSize", err)
	}
	if err != nil && !strings.HasPrefix(err.Error(), "strata: region (0,0 16x16)") {
		t.Errorf("err = %q, want strata: prefix", err)
	}
}

func TestAtlasRegionOutOfBounds(t *testing.T) {
	_, err := NewAtlasRegion(60, 0, 16, 16, image.Pt(64, 64))
	if !errors.Is(err, ErrAtlasTooSmall) {
		t.Errorf("err = %v, want ErrAtlasTooSmall", err)
	}
}

// --- Atlas ---

func TestNewAtlasFromPackResult(t *testing.T) {
	res := &PackResult{
		Size: image.Pt(64, 32),
		Rects: map[string]image.Rectangle{
			"floor":         image.Rect(0, 0, 16, 16),
			WhiteRegionName: image.Rect(16, 0, 20, 4),
		},
	}
	a, err := NewAtlas(res)
	if err != nil {
		t.Fatalf("NewAtlas: %v", err)
	}
	if a.White() == nil {
		t.Fatal("White() = nil, want reserved region")
	}
	if r := a.Region("floor"); r == nil || r.W != 16 {
		t.Errorf("Region(floor) = %v, want 16px region", r)
	}
	if got := a.Names(); len(got) != 2 || got[0] != WhiteRegionName || got[1] != "floor" {
		t.Errorf("Names = %v", got)
	}
}

func TestNewAtlasRejectsOversizedRect(t *testing.T) {
	res := &PackResult{
		Size:  image.Pt(16, 16),
		Rects: map[string]image.Rectangle{"big": image.Rect(0, 0, 32, 32)},
	}
	if _, err := NewAtlas(res); !errors.Is(err, ErrAtlasTooSmall) {
		t.Errorf("err = %v, want ErrAtlasTooSmall", err)
	}
}

func TestAtlasRegionMissingReturnsNil(t *testing.T) {
	a, err := LoadAtlas([]byte(singlePageJSON), nil)
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if r := a.Region("nonexistent.png"); r != nil {
		t.Errorf("missing region = %v, want nil", r)
	}
	if _, ok := a.Lookup("nonexistent.png"); ok {
		t.Error("Lookup(missing) ok = true")
	}
}

// --- LoadAtlas ---

func TestLoadAtlas_HashFormat(t *testing.T) {
	a, err := LoadAtlas([]byte(singlePageJSON), nil)
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if got := a.Size(); got != image.Pt(256, 128) {
		t.Errorf("Size = %v, want (256,128)", got)
	}
	r := a.Region("enemy.png")
	if r.X != 64 || r.Y != 0 || r.W != 32 || r.H != 48 {
		t.Errorf("enemy.png = %v, want (64,0,32,48)", r)
	}
	_, v1, _, v2 := r.PixelUV()
	assertFloat(t, "v1", v1, 80)
	assertFloat(t, "v2", v2, 128)
}

func TestLoadAtlas_ArrayFormat(t *testing.T) {
	a, err := LoadAtlas([]byte(arrayJSON), nil)
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	r := a.Region("page0_sprite.png")
	if r == nil || r.X != 10 || r.Y != 20 {
		t.Errorf("page0_sprite = %v, want origin (10,20)", r)
	}
}

func TestLoadAtlas_SizeFromPage(t *testing.T) {
	data := `{"frames": {"a": {"frame": {"x": 0, "y": 0, "w": 8, "h": 8}}}}`
	page := image.NewRGBA(image.Rect(0, 0, 32, 16))
	a, err := LoadAtlas([]byte(data), page)
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if a.Size() != image.Pt(32, 16) {
		t.Errorf("Size = %v, want (32,16)", a.Size())
	}
	if a.Image() != page {
		t.Error("Image() is not the page")
	}
}

func TestLoadAtlas_NoSize(t *testing.T) {
	data := `{"frames": {"a": {"frame": {"x": 0, "y": 0, "w": 8, "h": 8}}}}`
	if _, err := LoadAtlas([]byte(data), nil); !errors.Is(err, ErrNoAtlasSize) {
		t.Errorf("err = %v, want ErrNoAtlasSize", err)
	}
}

func TestLoadAtlas_RotatedFrameRejected(t *testing.T) {
	data := `{"frames": {"r": {"frame": {"x": 0, "y": 0, "w": 8, "h": 4}, "rotated": true}},
	          "meta": {"size": {"w": 16, "h": 16}}}`
	if _, err := LoadAtlas([]byte(data), nil); err == nil || !strings.Contains(err.Error(), "rotated") {
		t.Errorf("err = %v, want rotated error", err)
	}
}

func TestLoadAtlas_InvalidJSON(t *testing.T) {
	if _, err := LoadAtlas([]byte(`{invalid`), nil); err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}

func TestLoadAtlas_NoFramesOrTextures(t *testing.T) {
	_, err := LoadAtlas([]byte(`{"meta":{}}`), nil)
	if err == nil {
		t.Fatal("expected error for JSON with no frames/textures, got nil")
	}
	if !strings.Contains(err.Error(), "neither") {
		t.Errorf("error message = %q, want mention of neither", err.Error())
	}
}

// --- Benchmarks ---

func BenchmarkLoadAtlas(b *testing.B) {
	data := []byte(singlePageJSON)
	for i := 0; i < b.N; i++ {
		_, _ = LoadAtlas(data, nil)
	}
}
