package strata

// Sprite is a logical draw object. Sprites are values: updating one produces
// a new value with the same ID, and an update that changes nothing returns
// the original value with changed == false.
type Sprite interface {
	ID() SpriteID
	Kind() SpriteKind
	LayerID() string
	Depth() float64
	Destroyed() bool
}

// Leaf is a sprite with geometry of its own. A layer writes each leaf into
// its packed arrays with Emit.
type Leaf interface {
	Sprite

	// Emit writes the sprite's geometry at the given slot. colors may be nil
	// when the layer has color disabled.
	Emit(slot int, vertices, texCoords, colors []float32, indices []uint32)
}

// Composite is a sprite defined purely by owned leaves. Composites are never
// emitted; the engine registers their children instead.
type Composite interface {
	Sprite
	Children() []Leaf
}

// Opt is an optional patch field: either unset, or set to a value.
type Opt[T any] struct {
	val T
	set bool
}

// Set returns an Opt holding v.
func Set[T any](v T) Opt[T] {
	return Opt[T]{val: v, set: true}
}

// Get returns the value and whether it was set.
func (o Opt[T]) Get() (T, bool) {
	return o.val, o.set
}

// IsSet reports whether the field was set.
func (o Opt[T]) IsSet() bool { return o.set }

// Or returns the value if set, otherwise def.
func (o Opt[T]) Or(def T) T {
	if o.set {
		return o.val
	}
	return def
}

// writeColors fills n consecutive RGB triples starting at float offset off.
func writeColors(colors []float32, off, n int, c Color) {
	r, g, b := float32(c.R), float32(c.G), float32(c.B)
	for j := 0; j < n; j++ {
		colors[off+j*3] = r
		colors[off+j*3+1] = g
		colors[off+j*3+2] = b
	}
}
