package strata

import (
	"cmp"
	"fmt"
	"slices"
)

// LayerConfig describes a layer when it is added to an Engine.
type LayerConfig struct {
	// ID names the layer; sprites refer to it through LayerID.
	ID string
	// Kind selects quads (LayerImage) or triangles (LayerPolygon).
	Kind LayerKind
	// Depth orders layers for drawing, lowest first. Equal depths draw in
	// the order they were added.
	Depth int
	// Sort draws members in descending sprite depth. Unsorted layers keep
	// insertion order.
	Sort bool
	// Color enables the per-vertex color stream.
	Color bool
	// Offset translates the layer at draw time.
	Offset Vec2
}

// SpriteLookup maps identities to the latest sprite values. The Engine owns
// one shared by all layers.
type SpriteLookup map[SpriteID]Sprite

// Layer is an independently compiled batch of sprites drawn with one call.
//
// Members move through three queues between rebuilds: to-add for new
// identities, dirty for members whose values changed, and to-remove. Rebuild
// folds the queues into the member list and repacks every member's geometry.
type Layer struct {
	id        string
	kind      LayerKind
	depthRank int
	sorted    bool
	colored   bool
	offset    Vec2
	scroll    *scrollAnim

	members   []SpriteID
	memberSet map[SpriteID]struct{}
	toAdd     []SpriteID
	toRemove  []SpriteID
	removeSet map[SpriteID]struct{}
	dirty     []SpriteID

	vertices  []float32
	texCoords []float32
	colors    []float32
	indices   []uint32

	leaves   []Leaf // scratch for sorting, reused across rebuilds
	rebuilds uint64
}

// NewLayer creates an empty layer. Layers are normally created through
// Engine.AddLayer.
func NewLayer(cfg LayerConfig) *Layer {
	return &Layer{
		id:        cfg.ID,
		kind:      cfg.Kind,
		depthRank: cfg.Depth,
		sorted:    cfg.Sort,
		colored:   cfg.Color,
		offset:    cfg.Offset,
		memberSet: make(map[SpriteID]struct{}),
		removeSet: make(map[SpriteID]struct{}),
	}
}

func (l *Layer) ID() string         { return l.id }
func (l *Layer) Kind() LayerKind    { return l.kind }
func (l *Layer) DepthRank() int     { return l.depthRank }
func (l *Layer) Sorted() bool       { return l.sorted }
func (l *Layer) ColorEnabled() bool { return l.colored }
func (l *Layer) Offset() Vec2       { return l.offset }

// SetOffset sets the draw-time translation. Geometry is not touched, so
// panning never forces a rebuild.
func (l *Layer) SetOffset(x, y float64) {
	l.offset = Vec2{x, y}
}

// Update marks id as new or changed.
func (l *Layer) Update(id SpriteID) {
	if _, ok := l.memberSet[id]; ok {
		l.dirty = append(l.dirty, id)
		return
	}
	l.memberSet[id] = struct{}{}
	l.toAdd = append(l.toAdd, id)
}

// Remove schedules id for removal at the next rebuild. Unknown IDs are ignored.
func (l *Layer) Remove(id SpriteID) {
	if _, ok := l.memberSet[id]; !ok {
		return
	}
	delete(l.memberSet, id)
	l.removeSet[id] = struct{}{}
	l.toRemove = append(l.toRemove, id)
}

// Contains reports whether id is a member or pending addition.
func (l *Layer) Contains(id SpriteID) bool {
	_, ok := l.memberSet[id]
	return ok
}

// pendingRemoval reports whether id was removed since the last rebuild.
func (l *Layer) pendingRemoval(id SpriteID) bool {
	_, ok := l.removeSet[id]
	return ok
}

// IsDirty reports whether any queue is non-empty.
func (l *Layer) IsDirty() bool {
	return len(l.dirty)+len(l.toAdd)+len(l.toRemove) > 0
}

// Len returns the number of compiled members. Pending additions and removals
// are not counted until the next rebuild.
func (l *Layer) Len() int { return len(l.members) }

// Members returns the compiled member order. The returned slice MUST NOT be mutated.
func (l *Layer) Members() []SpriteID { return l.members }

// Vertices returns packed xy positions. The returned slice MUST NOT be mutated.
func (l *Layer) Vertices() []float32 { return l.vertices }

// TexCoords returns packed normalized uv pairs. The returned slice MUST NOT be mutated.
func (l *Layer) TexCoords() []float32 { return l.texCoords }

// Colors returns packed rgb triples, or nil when color is disabled.
// The returned slice MUST NOT be mutated.
func (l *Layer) Colors() []float32 { return l.colors }

// Indices returns packed triangle indices. The returned slice MUST NOT be mutated.
func (l *Layer) Indices() []uint32 { return l.indices }

// Rebuilds returns how many times the layer has been rebuilt.
func (l *Layer) Rebuilds() uint64 { return l.rebuilds }

// Rebuild folds the pending queues into the member list, sorts if enabled,
// resizes the packed arrays to the member count and re-emits every member.
//
// It panics if a member is missing from lookup or is not a leaf of the
// layer's kind: both mean the caller's lookup table has drifted from layer
// membership.
func (l *Layer) Rebuild(lookup SpriteLookup) {
	if len(l.toRemove) > 0 {
		for _, id := range l.toRemove {
			delete(l.memberSet, id)
		}
		removed := func(id SpriteID) bool {
			_, ok := l.removeSet[id]
			return ok
		}
		l.members = slices.DeleteFunc(l.members, removed)
		// An add followed by a remove before any rebuild nets to nothing.
		l.toAdd = slices.DeleteFunc(l.toAdd, removed)
		l.toRemove = l.toRemove[:0]
		clear(l.removeSet)
	}

	if len(l.toAdd) > 0 {
		l.members = append(l.members, l.toAdd...)
		l.toAdd = l.toAdd[:0]
	}
	l.dirty = l.dirty[:0]

	n := len(l.members)
	l.leaves = slices.Grow(l.leaves[:0], n)
	for _, id := range l.members {
		l.leaves = append(l.leaves, l.resolve(lookup, id))
	}

	if l.sorted {
		slices.SortStableFunc(l.leaves, func(a, b Leaf) int {
			return cmp.Compare(b.Depth(), a.Depth())
		})
		for i, leaf := range l.leaves {
			l.members[i] = leaf.ID()
		}
	}

	nv := n * l.kind.verticesPerSprite()
	l.vertices = resizeFloats(l.vertices, nv*2)
	l.texCoords = resizeFloats(l.texCoords, nv*2)
	if l.colored {
		l.colors = resizeFloats(l.colors, nv*3)
	} else {
		l.colors = nil
	}
	l.indices = resizeIndices(l.indices, n*l.kind.indicesPerSprite())

	for i, leaf := range l.leaves {
		leaf.Emit(i, l.vertices, l.texCoords, l.colors, l.indices)
	}

	clear(l.leaves)
	l.leaves = l.leaves[:0]
	l.rebuilds++
}

func (l *Layer) resolve(lookup SpriteLookup, id SpriteID) Leaf {
	s, ok := lookup[id]
	if !ok {
		panic(fmt.Sprintf("strata: layer %q: sprite %d missing from lookup", l.id, id))
	}
	leaf, ok := s.(Leaf)
	if !ok || !l.kind.accepts(leaf.Kind()) {
		panic(fmt.Sprintf("strata: layer %q (%s) cannot hold %s sprite %d", l.id, l.kind, s.Kind(), id))
	}
	return leaf
}

func resizeFloats(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}

func resizeIndices(buf []uint32, n int) []uint32 {
	if cap(buf) < n {
		return make([]uint32, n)
	}
	return buf[:n]
}
