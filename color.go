package strata

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB8 converts 8-bit channels to a Color.
func RGB8(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

// ColorFromHSV builds a Color from hue in [0, 360) and saturation and value
// in [0, 1].
func ColorFromHSV(h, s, v float64) Color {
	return fromColorful(colorful.Hsv(h, s, v))
}

// ParseHexColor parses "#rrggbb".
func ParseHexColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("strata: parse color %q: %w", s, err)
	}
	return fromColorful(c), nil
}

// Darken scales every channel by (1 - amount), clamped to [0, 1].
func (c Color) Darken(amount float64) Color {
	k := 1 - amount
	return Color{clamp01(c.R * k), clamp01(c.G * k), clamp01(c.B * k)}
}

// Lighten is Darken with a negated amount.
func (c Color) Lighten(amount float64) Color {
	return c.Darken(-amount)
}

// Blend interpolates from c to o in RGB space; t=0 is c, t=1 is o.
func (c Color) Blend(o Color, t float64) Color {
	return fromColorful(c.colorful().BlendRgb(o.colorful(), t))
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return c.colorful().Clamped().Hex()
}

// HSV returns hue in [0, 360) and saturation and value in [0, 1].
func (c Color) HSV() (h, s, v float64) {
	return c.colorful().Hsv()
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func fromColorful(c colorful.Color) Color {
	c = c.Clamped()
	return Color{c.R, c.G, c.B}
}

// toRGBA converts to an opaque 8-bit color.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: 255,
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
