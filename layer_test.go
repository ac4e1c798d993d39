package strata

import (
	"slices"
	"testing"
)

func newTestLayer(kind LayerKind, sorted bool) *Layer {
	return NewLayer(LayerConfig{ID: "test", Kind: kind, Sort: sorted, Color: true})
}

func addImage(t *testing.T, l *Layer, lookup SpriteLookup, id SpriteID, depth float64) ImageSprite {
	t.Helper()
	s := NewImageSprite(id, l.ID(), testRegion(t, 0, 0, 16, 16), float64(id), 0)
	s, _ = s.WithChanges(ImagePatch{Depth: Set(depth)})
	lookup[id] = s
	l.Update(id)
	return s
}

func TestLayerStartsClean(t *testing.T) {
	l := newTestLayer(LayerImage, true)
	if l.IsDirty() || l.Len() != 0 {
		t.Errorf("new layer: dirty=%v len=%d", l.IsDirty(), l.Len())
	}
}

func TestLayerDirtyLifecycle(t *testing.T) {
	l := newTestLayer(LayerImage, true)
	lookup := SpriteLookup{}
	addImage(t, l, lookup, 1, 0)
	if !l.IsDirty() {
		t.Fatal("dirty = false after Update")
	}
	if l.Len() != 0 {
		t.Errorf("Len = %d before rebuild, want 0", l.Len())
	}

	l.Rebuild(lookup)
	if l.IsDirty() || l.Len() != 1 {
		t.Errorf("after rebuild: dirty=%v len=%d", l.IsDirty(), l.Len())
	}

	l.Update(1)
	if !l.IsDirty() {
		t.Error("dirty = false after updating a member")
	}
	l.Rebuild(lookup)

	l.Remove(1)
	if !l.IsDirty() {
		t.Error("dirty = false after Remove")
	}
	l.Rebuild(lookup)
	if l.IsDirty() || l.Len() != 0 {
		t.Errorf("after remove: dirty=%v len=%d", l.IsDirty(), l.Len())
	}
}

func TestLayerArraySizes(t *testing.T) {
	tests := []struct {
		kind             LayerKind
		verts, inds, col int
	}{
		{LayerImage, 8, 6, 12},
		{LayerPolygon, 6, 3, 9},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			l := newTestLayer(tt.kind, false)
			lookup := SpriteLookup{}
			for id := SpriteID(1); id <= 3; id++ {
				if tt.kind == LayerImage {
					lookup[id] = NewImageSprite(id, "test", nil, 0, 0)
				} else {
					lookup[id] = NewTriangleSprite(id, "test", nil, Vec2{}, Vec2{1, 0}, Vec2{0, 1}, 0, ColorWhite)
				}
				l.Update(id)
			}
			l.Rebuild(lookup)
			if got := len(l.Vertices()); got != 3*tt.verts {
				t.Errorf("vertices = %d, want %d", got, 3*tt.verts)
			}
			if got := len(l.TexCoords()); got != 3*tt.verts {
				t.Errorf("texcoords = %d, want %d", got, 3*tt.verts)
			}
			if got := len(l.Colors()); got != 3*tt.col {
				t.Errorf("colors = %d, want %d", got, 3*tt.col)
			}
			if got := len(l.Indices()); got != 3*tt.inds {
				t.Errorf("indices = %d, want %d", got, 3*tt.inds)
			}
		})
	}
}

func TestLayerColorDisabled(t *testing.T) {
	l := NewLayer(LayerConfig{ID: "test", Kind: LayerImage})
	lookup := SpriteLookup{1: NewImageSprite(1, "test", nil, 0, 0)}
	l.Update(1)
	l.Rebuild(lookup)
	if l.Colors() != nil {
		t.Errorf("Colors = %v, want nil", l.Colors())
	}
}

func TestLayerRoundTripToEmpty(t *testing.T) {
	l := newTestLayer(LayerImage, true)
	lookup := SpriteLookup{}
	for id := SpriteID(1); id <= 5; id++ {
		addImage(t, l, lookup, id, float64(id))
	}
	l.Rebuild(lookup)
	for id := SpriteID(1); id <= 5; id++ {
		l.Remove(id)
	}
	l.Rebuild(lookup)
	if len(l.Vertices()) != 0 || len(l.TexCoords()) != 0 || len(l.Colors()) != 0 || len(l.Indices()) != 0 {
		t.Errorf("arrays not empty: v=%d t=%d c=%d i=%d",
			len(l.Vertices()), len(l.TexCoords()), len(l.Colors()), len(l.Indices()))
	}
	if l.Len() != 0 {
		t.Errorf("Len = %d, want 0", l.Len())
	}
}

func TestLayerRebuildIdempotent(t *testing.T) {
	l := newTestLayer(LayerImage, true)
	lookup := SpriteLookup{}
	for id := SpriteID(1); id <= 4; id++ {
		addImage(t, l, lookup, id, float64(id%2))
	}
	l.Rebuild(lookup)
	members := slices.Clone(l.Members())
	verts := slices.Clone(l.Vertices())
	inds := slices.Clone(l.Indices())

	l.Rebuild(lookup)
	if !slices.Equal(members, l.Members()) {
		t.Errorf("members changed: %v -> %v", members, l.Members())
	}
	if !slices.Equal(verts, l.Vertices()) || !slices.Equal(inds, l.Indices()) {
		t.Error("packed arrays changed on a no-op rebuild")
	}
}

func TestLayerSortDescendingDepthStable(t *testing.T) {
	l := newTestLayer(LayerImage, true)
	lookup := SpriteLookup{}
	addImage(t, l, lookup, 1, 1)
	addImage(t, l, lookup, 2, 1)
	addImage(t, l, lookup, 3, 5)
	addImage(t, l, lookup, 4, -2)
	l.Rebuild(lookup)

	want := []SpriteID{3, 1, 2, 4}
	if !slices.Equal(l.Members(), want) {
		t.Fatalf("members = %v, want %v", l.Members(), want)
	}

	// A non-depth update keeps the existing tie order.
	s := lookup[1].(ImageSprite)
	lookup[1], _ = s.WithChanges(ImagePatch{X: Set(100.0)})
	l.Update(1)
	l.Rebuild(lookup)
	if !slices.Equal(l.Members(), want) {
		t.Errorf("members after update = %v, want %v", l.Members(), want)
	}

	// Slot order must match member order in the packed vertices.
	if got := l.Vertices()[8]; got != 100 {
		t.Errorf("slot 1 x = %v, want 100 (sprite 1)", got)
	}
}

func TestLayerUnsortedKeepsInsertionOrder(t *testing.T) {
	l := newTestLayer(LayerImage, false)
	lookup := SpriteLookup{}
	addImage(t, l, lookup, 1, 0)
	addImage(t, l, lookup, 2, 10)
	l.Rebuild(lookup)
	if want := []SpriteID{1, 2}; !slices.Equal(l.Members(), want) {
		t.Errorf("members = %v, want %v", l.Members(), want)
	}
}

func TestLayerAddThenRemoveBeforeRebuild(t *testing.T) {
	l := newTestLayer(LayerImage, true)
	lookup := SpriteLookup{}
	addImage(t, l, lookup, 1, 0)
	l.Remove(1)
	delete(lookup, 1)
	l.Rebuild(lookup)
	if l.Len() != 0 || l.Contains(1) {
		t.Errorf("len=%d contains=%v, want empty", l.Len(), l.Contains(1))
	}
	if l.IsDirty() {
		t.Error("dirty after rebuild")
	}
}

func TestLayerRemoveUnknownIgnored(t *testing.T) {
	l := newTestLayer(LayerImage, true)
	l.Remove(42)
	if l.IsDirty() {
		t.Error("removing an unknown id dirtied the layer")
	}
}

func TestLayerRemoveThenUpdateStaysRemoved(t *testing.T) {
	l := newTestLayer(LayerImage, true)
	lookup := SpriteLookup{}
	addImage(t, l, lookup, 1, 0)
	l.Rebuild(lookup)

	l.Remove(1)
	l.Update(1)
	l.Rebuild(lookup)
	if l.Len() != 0 || l.Contains(1) {
		t.Errorf("len=%d contains=%v, want removed", l.Len(), l.Contains(1))
	}
}

func TestLayerPendingRemovalClearedByRebuild(t *testing.T) {
	l := newTestLayer(LayerImage, true)
	lookup := SpriteLookup{}
	addImage(t, l, lookup, 1, 0)
	addImage(t, l, lookup, 2, 0)
	l.Rebuild(lookup)

	l.Remove(1)
	if !l.pendingRemoval(1) || l.pendingRemoval(2) {
		t.Errorf("pendingRemoval(1)=%v pendingRemoval(2)=%v, want true false", l.pendingRemoval(1), l.pendingRemoval(2))
	}
	delete(lookup, 1)
	l.Rebuild(lookup)
	if l.pendingRemoval(1) {
		t.Error("pendingRemoval(1) still true after rebuild")
	}
	if !slices.Equal(l.Members(), []SpriteID{2}) {
		t.Errorf("members = %v, want [2]", l.Members())
	}
}

func TestLayerRebuildMissingLookupPanics(t *testing.T) {
	l := newTestLayer(LayerImage, true)
	l.Update(7)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for sprite missing from lookup")
		}
	}()
	l.Rebuild(SpriteLookup{})
}

func TestLayerRebuildWrongKindPanics(t *testing.T) {
	l := newTestLayer(LayerPolygon, true)
	lookup := SpriteLookup{1: NewImageSprite(1, "test", nil, 0, 0)}
	l.Update(1)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for image sprite in polygon layer")
		}
	}()
	l.Rebuild(lookup)
}

func TestLayerOffsetDoesNotDirty(t *testing.T) {
	l := newTestLayer(LayerImage, true)
	l.SetOffset(5, -3)
	if l.IsDirty() {
		t.Error("SetOffset dirtied the layer")
	}
	if l.Offset() != (Vec2{5, -3}) {
		t.Errorf("Offset = %v", l.Offset())
	}
}

func BenchmarkLayerRebuild(b *testing.B) {
	l := newTestLayer(LayerImage, true)
	lookup := SpriteLookup{}
	r := testRegion(b, 0, 0, 16, 16)
	for id := SpriteID(1); id <= 10000; id++ {
		s := NewImageSprite(id, "test", r, float64(id%100), float64(id/100))
		s, _ = s.WithChanges(ImagePatch{Depth: Set(float64(id % 7))})
		lookup[id] = s
		l.Update(id)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Update(1)
		l.Rebuild(lookup)
	}
}
