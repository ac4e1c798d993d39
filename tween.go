package strata

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// imageField selects which ImageSprite field a tween channel drives.
type imageField uint8

const (
	fieldX imageField = iota
	fieldY
	fieldScale
	fieldDepth
)

// SpriteTween animates up to 4 fields of a registered image sprite. Create
// one with TweenPosition, TweenScale or TweenDepth and call Update(dt) each
// frame. Every step goes through Engine.UpdateImage, so frames where the
// values do not move leave the layer clean. If the sprite is removed the
// tween stops.
//
// There is no global tween manager; callers update tweens themselves.
type SpriteTween struct {
	engine *Engine
	id     SpriteID
	tweens [4]*gween.Tween
	fields [4]imageField
	count  int
	Done   bool
}

// Update advances the tween by dt seconds and pushes the new values.
func (t *SpriteTween) Update(dt float32) {
	if t.Done {
		return
	}
	if _, ok := t.engine.sprites[t.id].(ImageSprite); !ok {
		t.Done = true
		return
	}

	var p ImagePatch
	allDone := true
	for i := 0; i < t.count; i++ {
		val, finished := t.tweens[i].Update(dt)
		v := float64(val)
		switch t.fields[i] {
		case fieldX:
			p.X = Set(v)
		case fieldY:
			p.Y = Set(v)
		case fieldScale:
			p.Scale = Set(v)
		case fieldDepth:
			p.Depth = Set(v)
		}
		if !finished {
			allDone = false
		}
	}
	t.Done = allDone
	t.engine.UpdateImage(t.id, p)
}

// TweenPosition moves image sprite id to (toX, toY). A nil fn means linear.
func TweenPosition(e *Engine, id SpriteID, toX, toY float64, duration float32, fn ease.TweenFunc) *SpriteTween {
	s := mustImage(e, id)
	fn = easeOr(fn)
	t := &SpriteTween{engine: e, id: id, count: 2}
	t.tweens[0] = gween.New(float32(s.x), float32(toX), duration, fn)
	t.tweens[1] = gween.New(float32(s.y), float32(toY), duration, fn)
	t.fields[0], t.fields[1] = fieldX, fieldY
	return t
}

// TweenScale animates image sprite id's scale to to.
func TweenScale(e *Engine, id SpriteID, to float64, duration float32, fn ease.TweenFunc) *SpriteTween {
	s := mustImage(e, id)
	fn = easeOr(fn)
	t := &SpriteTween{engine: e, id: id, count: 1}
	t.tweens[0] = gween.New(float32(s.scale), float32(to), duration, fn)
	t.fields[0] = fieldScale
	return t
}

// TweenDepth animates image sprite id's depth to to. In a sorted layer this
// reorders the sprite as it passes its neighbours.
func TweenDepth(e *Engine, id SpriteID, to float64, duration float32, fn ease.TweenFunc) *SpriteTween {
	s := mustImage(e, id)
	fn = easeOr(fn)
	t := &SpriteTween{engine: e, id: id, count: 1}
	t.tweens[0] = gween.New(float32(s.depth), float32(to), duration, fn)
	t.fields[0] = fieldDepth
	return t
}

func easeOr(fn ease.TweenFunc) ease.TweenFunc {
	if fn == nil {
		return ease.Linear
	}
	return fn
}

func mustImage(e *Engine, id SpriteID) ImageSprite {
	s, ok := e.sprites[id].(ImageSprite)
	if !ok {
		panic("strata: tween target is not a registered image sprite")
	}
	return s
}
