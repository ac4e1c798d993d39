package strata

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for a layer's X and Y offset.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// ScrollLayerTo animates a layer's offset to (x, y) over duration seconds.
// Advance it with Tick. Like SetLayerOffset, scrolling never rebuilds geometry.
func (e *Engine) ScrollLayerTo(id string, x, y float64, duration float32, easeFn ease.TweenFunc) error {
	l, ok := e.layerByID[id]
	if !ok {
		return fmt.Errorf("strata: scroll %q: %w", id, ErrUnknownLayer)
	}
	easeFn = easeOr(easeFn)
	l.scroll = &scrollAnim{
		tweenX: gween.New(float32(l.offset.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(l.offset.Y), float32(y), duration, easeFn),
	}
	return nil
}

// Scrolling reports whether the layer has a scroll in progress.
func (l *Layer) Scrolling() bool {
	return l.scroll != nil
}

// Tick advances time-based engine state (layer scrolls) by dt seconds.
func (e *Engine) Tick(dt float32) {
	for _, l := range e.layers {
		l.updateScroll(dt)
	}
}

func (l *Layer) updateScroll(dt float32) {
	s := l.scroll
	if s == nil {
		return
	}
	if !s.doneX {
		x, done := s.tweenX.Update(dt)
		l.offset.X = float64(x)
		s.doneX = done
	}
	if !s.doneY {
		y, done := s.tweenY.Update(dt)
		l.offset.Y = float64(y)
		s.doneY = done
	}
	if s.doneX && s.doneY {
		l.scroll = nil
	}
}
