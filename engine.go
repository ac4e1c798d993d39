package strata

import (
	"fmt"
	"time"
)

// Engine owns the ordered layers, the shared sprite lookup and the atlas, and
// turns sprite updates into one batched draw per layer each frame.
//
// All calls for a frame must finish before RenderLayers, and RenderLayers
// must finish before the next frame's updates. The Engine is not safe for
// concurrent use.
type Engine struct {
	backend Backend
	ids     IDAllocator

	layers    []*Layer // ascending depth rank, insertion order on ties
	layerByID map[string]*Layer
	sprites   SpriteLookup

	atlas      *Atlas
	clearColor Color
	pixelScale float64
	viewW      int
	viewH      int

	debug bool
	frame uint64
	batch DrawBatch
}

// NewEngine creates an engine drawing through backend.
func NewEngine(backend Backend) *Engine {
	return &Engine{
		backend:    backend,
		layerByID:  make(map[string]*Layer),
		sprites:    make(SpriteLookup),
		pixelScale: 1,
	}
}

// AddLayer registers a layer. Layers are drawn in ascending cfg.Depth; layers
// with equal depth draw in the order they were added.
func (e *Engine) AddLayer(cfg LayerConfig) (*Layer, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("strata: layer needs an ID")
	}
	if _, ok := e.layerByID[cfg.ID]; ok {
		return nil, fmt.Errorf("strata: layer %q: %w", cfg.ID, ErrDuplicateLayer)
	}
	l := NewLayer(cfg)
	pos := len(e.layers)
	for i, other := range e.layers {
		if other.depthRank > l.depthRank {
			pos = i
			break
		}
	}
	e.layers = append(e.layers, nil)
	copy(e.layers[pos+1:], e.layers[pos:])
	e.layers[pos] = l
	e.layerByID[cfg.ID] = l
	logger().Info("layer added", "layer", cfg.ID, "kind", cfg.Kind.String(), "depth", cfg.Depth)
	return l, nil
}

// Layer returns the layer with the given ID.
func (e *Engine) Layer(id string) (*Layer, bool) {
	l, ok := e.layerByID[id]
	return l, ok
}

// Layers returns the layers in draw order. The returned slice MUST NOT be mutated.
func (e *Engine) Layers() []*Layer {
	return e.layers
}

// SetAtlas binds the shared atlas and uploads its surface to the backend.
// Atlases without a surface (metadata only) skip the upload.
func (e *Engine) SetAtlas(a *Atlas) error {
	if a == nil {
		return fmt.Errorf("strata: nil atlas")
	}
	if img := a.Image(); img != nil && e.backend != nil {
		if err := e.backend.SetAtlas(img, a.Size()); err != nil {
			return fmt.Errorf("strata: upload atlas: %w", err)
		}
	}
	e.atlas = a
	logger().Info("atlas bound", "width", a.Size().X, "height", a.Size().Y, "regions", len(a.regions))
	return nil
}

// Atlas returns the bound atlas, or nil.
func (e *Engine) Atlas() *Atlas { return e.atlas }

// White returns the white region triangles and lines sample, or nil when no
// atlas is bound.
func (e *Engine) White() *AtlasRegion {
	if e.atlas == nil {
		return nil
	}
	return e.atlas.White()
}

// IDs exposes the engine's identity allocator for callers that build sprites
// with the New* constructors.
func (e *Engine) IDs() *IDAllocator { return &e.ids }

// CreateImage allocates an image sprite on layerID, applies p and registers it.
func (e *Engine) CreateImage(layerID string, p ImagePatch) ImageSprite {
	s, _ := NewImageSprite(e.ids.Next(), layerID, nil, 0, 0).WithChanges(p)
	e.UpdateSprite(s)
	return s
}

// UpdateImage applies p to the registered image sprite id. The sprite is only
// marked dirty when something changed. It panics if id is not an image sprite.
func (e *Engine) UpdateImage(id SpriteID, p ImagePatch) (ImageSprite, bool) {
	cur, ok := e.sprites[id].(ImageSprite)
	if !ok {
		panic(fmt.Sprintf("strata: sprite %d is not a registered image sprite", id))
	}
	next, changed := cur.WithChanges(p)
	if changed {
		e.UpdateSprite(next)
	}
	return next, changed
}

// CreateTriangle allocates and registers a triangle on layerID.
func (e *Engine) CreateTriangle(layerID string, p1, p2, p3 Vec2, depth float64, color Color) TriangleSprite {
	t := NewTriangleSprite(e.ids.Next(), layerID, e.White(), p1, p2, p3, depth, color)
	e.UpdateSprite(t)
	return t
}

// UpdateTriangle applies p to the registered triangle id.
func (e *Engine) UpdateTriangle(id SpriteID, p TrianglePatch) (TriangleSprite, bool) {
	cur, ok := e.sprites[id].(TriangleSprite)
	if !ok {
		panic(fmt.Sprintf("strata: sprite %d is not a registered triangle", id))
	}
	next, changed := cur.WithChanges(p)
	if changed {
		e.UpdateSprite(next)
	}
	return next, changed
}

// CreateLine allocates a line and its two triangles and registers them on layerID.
func (e *Engine) CreateLine(layerID string, p1, p2 Vec2, thickness, depth float64, color Color) LineSprite {
	id := e.ids.Next()
	children := [2]SpriteID{e.ids.Next(), e.ids.Next()}
	l := NewLineSprite(id, children, layerID, e.White(), p1, p2, thickness, depth, color)
	e.UpdateSprite(l)
	return l
}

// UpdateLine applies p to the registered line id.
func (e *Engine) UpdateLine(id SpriteID, p LinePatch) (LineSprite, bool) {
	cur, ok := e.sprites[id].(LineSprite)
	if !ok {
		panic(fmt.Sprintf("strata: sprite %d is not a registered line", id))
	}
	next, changed := cur.WithChanges(p)
	if changed {
		e.UpdateSprite(next)
	}
	return next, changed
}

// UpdateSprite registers s or replaces its previous value. Composites are
// expanded: their children join the composite's layer under their own IDs.
// A destroyed sprite is removed instead. Passing a value identical to the
// registered one is a no-op and leaves the layer clean.
func (e *Engine) UpdateSprite(s Sprite) {
	if s.Destroyed() {
		e.RemoveSprite(s.ID())
		return
	}
	layer := e.mustLayer(s)
	e.checkIdentity(s)

	switch v := s.(type) {
	case Composite:
		children := v.Children()
		for _, c := range children {
			if layer.pendingRemoval(c.ID()) {
				logger().Warn("ignoring update of sprite removed this frame", "sprite", v.ID(), "layer", layer.id)
				return
			}
		}
		e.sprites[v.ID()] = v
		for _, c := range children {
			e.updateLeaf(layer, c)
		}
	case Leaf:
		if layer.pendingRemoval(v.ID()) {
			logger().Warn("ignoring update of sprite removed this frame", "sprite", v.ID(), "layer", layer.id)
			return
		}
		e.updateLeaf(layer, v)
	default:
		panic(fmt.Sprintf("strata: sprite %d (%T) is neither a leaf nor a composite", s.ID(), s))
	}
}

// checkIdentity panics if s changes the layer or kind registered for its ID.
// A sprite keeps both for its whole lifetime.
func (e *Engine) checkIdentity(s Sprite) {
	cur, ok := e.sprites[s.ID()]
	if !ok {
		return
	}
	if cur.LayerID() != s.LayerID() {
		panic(fmt.Sprintf("strata: sprite %d moved from layer %q to %q", s.ID(), cur.LayerID(), s.LayerID()))
	}
	if cur.Kind() != s.Kind() {
		panic(fmt.Sprintf("strata: sprite %d changed kind from %s to %s", s.ID(), cur.Kind(), s.Kind()))
	}
}

func (e *Engine) updateLeaf(layer *Layer, leaf Leaf) {
	id := leaf.ID()
	if !layer.kind.accepts(leaf.Kind()) {
		panic(fmt.Sprintf("strata: layer %q (%s) cannot hold %s sprite %d", layer.id, layer.kind, leaf.Kind(), id))
	}
	e.checkIdentity(leaf)
	if cur, ok := e.sprites[id]; ok && layer.Contains(id) && sameSprite(cur, leaf) {
		return
	}
	layer.Update(id)
	e.sprites[id] = leaf
}

// Remove unregisters s. See RemoveSprite.
func (e *Engine) Remove(s Sprite) {
	e.RemoveSprite(s.ID())
}

// RemoveSprite unregisters the sprite id, and the children of a composite.
// Unknown IDs are ignored.
func (e *Engine) RemoveSprite(id SpriteID) {
	s, ok := e.sprites[id]
	if !ok {
		return
	}
	layer := e.mustLayer(s)
	if c, ok := s.(Composite); ok {
		for _, child := range c.Children() {
			layer.Remove(child.ID())
			delete(e.sprites, child.ID())
		}
	} else {
		layer.Remove(id)
	}
	delete(e.sprites, id)
}

// Sprite returns the registered value for id.
func (e *Engine) Sprite(id SpriteID) (Sprite, bool) {
	s, ok := e.sprites[id]
	return s, ok
}

// SetLayerOffset translates a layer at draw time and cancels any scroll in
// progress on it.
func (e *Engine) SetLayerOffset(id string, x, y float64) error {
	l, ok := e.layerByID[id]
	if !ok {
		return fmt.Errorf("strata: set offset of %q: %w", id, ErrUnknownLayer)
	}
	l.scroll = nil
	l.SetOffset(x, y)
	return nil
}

// SetClearColor sets the color the frame is cleared to.
func (e *Engine) SetClearColor(c Color) { e.clearColor = c }

// ClearColor returns the frame clear color.
func (e *Engine) ClearColor() Color { return e.clearColor }

// SetPixelScale sets how many screen pixels one logical pixel covers. It only
// changes the draw transform; no layer is rebuilt.
func (e *Engine) SetPixelScale(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	e.pixelScale = scale
}

// PixelScale returns the current pixel scale.
func (e *Engine) PixelScale() float64 { return e.pixelScale }

// Resize records the new viewport size and pixel scale.
func (e *Engine) Resize(w, h int, pixelScale float64) {
	e.viewW, e.viewH = w, h
	e.SetPixelScale(pixelScale)
}

// ViewSize returns the viewport size in screen pixels.
func (e *Engine) ViewSize() (w, h int) { return e.viewW, e.viewH }

// ScreenToWorld converts a screen position to unscaled logical pixels.
func (e *Engine) ScreenToWorld(sx, sy float64) Vec2 {
	return Vec2{sx / e.pixelScale, sy / e.pixelScale}
}

// RenderLayers clears the frame, rebuilds every dirty layer and issues one
// draw per layer in ascending depth rank.
func (e *Engine) RenderLayers() {
	var stats frameStats
	if e.backend != nil {
		e.backend.Clear(e.clearColor)
	}

	for _, l := range e.layers {
		if l.IsDirty() {
			var t0 time.Time
			if e.debug {
				t0 = time.Now()
			}
			l.Rebuild(e.sprites)
			if e.debug {
				stats.rebuildTime += time.Since(t0)
			}
			stats.rebuilt++
		}
		if e.backend == nil || len(l.indices) == 0 {
			continue
		}
		e.batch = DrawBatch{
			LayerID:    l.id,
			Kind:       l.kind,
			Vertices:   l.vertices,
			TexCoords:  l.texCoords,
			Colors:     l.colors,
			Indices:    l.indices,
			Offset:     l.offset,
			PixelScale: e.pixelScale,
		}
		e.backend.Draw(&e.batch)
		stats.drawCalls++
	}

	if e.debug {
		stats.sprites = e.CountSprites()
		e.debugLog(stats)
	}
	e.frame++
}

// CountSprites returns the number of compiled sprites across all layers.
// Pending updates are not counted until their layer is rebuilt.
func (e *Engine) CountSprites() int {
	n := 0
	for _, l := range e.layers {
		n += l.Len()
	}
	return n
}

// Frame returns how many frames RenderLayers has completed.
func (e *Engine) Frame() uint64 { return e.frame }

// SetDebugMode enables per-frame rebuild and draw statistics at debug level.
func (e *Engine) SetDebugMode(enabled bool) { e.debug = enabled }

// DebugMode reports whether debug mode is on.
func (e *Engine) DebugMode() bool { return e.debug }

func (e *Engine) mustLayer(s Sprite) *Layer {
	l, ok := e.layerByID[s.LayerID()]
	if !ok {
		panic(fmt.Sprintf("strata: sprite %d routed to unknown layer %q", s.ID(), s.LayerID()))
	}
	return l
}

// sameSprite reports whether a and b are the same value of a known sprite type.
// Other types always compare unequal so the update is applied.
func sameSprite(a, b Sprite) bool {
	switch x := a.(type) {
	case ImageSprite:
		y, ok := b.(ImageSprite)
		return ok && x == y
	case TriangleSprite:
		y, ok := b.(TriangleSprite)
		return ok && x == y
	case LineSprite:
		y, ok := b.(LineSprite)
		return ok && x == y
	}
	return false
}
