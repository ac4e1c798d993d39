package strata

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the YAML engine setup: window, pixel scale, clear color and layers.
//
//	window:
//	  title: Demo Game
//	  width: 800
//	  height: 600
//	  optimal_width: 640
//	  optimal_height: 300
//	  optimal_pixel_scale: 2
//	clear_color: "#a8a8a8"
//	layers:
//	  - {id: floors, kind: image, depth: 0, sort: false}
//	  - {id: entities, kind: image, depth: 20}
type Config struct {
	Window     WindowConfig `yaml:"window"`
	PixelScale float64      `yaml:"pixel_scale"`
	ClearColor string       `yaml:"clear_color"`
	Debug      bool         `yaml:"debug"`
	Layers     []LayerSpec  `yaml:"layers"`
}

// WindowConfig maps onto RunConfig.
type WindowConfig struct {
	Title             string  `yaml:"title"`
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	TPS               int     `yaml:"tps"`
	Resizable         bool    `yaml:"resizable"`
	ShowFPS           bool    `yaml:"show_fps"`
	OptimalWidth      int     `yaml:"optimal_width"`
	OptimalHeight     int     `yaml:"optimal_height"`
	OptimalPixelScale float64 `yaml:"optimal_pixel_scale"`
	MinPixelScale     float64 `yaml:"min_pixel_scale"`
}

// LayerSpec is a layer entry. Sort and Color default to true when omitted.
type LayerSpec struct {
	ID     string     `yaml:"id"`
	Kind   LayerKind  `yaml:"kind"`
	Depth  int        `yaml:"depth"`
	Sort   *bool      `yaml:"sort"`
	Color  *bool      `yaml:"color"`
	Offset [2]float64 `yaml:"offset"`
}

// LayerConfig resolves defaults.
func (s LayerSpec) LayerConfig() LayerConfig {
	cfg := LayerConfig{
		ID:     s.ID,
		Kind:   s.Kind,
		Depth:  s.Depth,
		Sort:   true,
		Color:  true,
		Offset: Vec2{s.Offset[0], s.Offset[1]},
	}
	if s.Sort != nil {
		cfg.Sort = *s.Sort
	}
	if s.Color != nil {
		cfg.Color = *s.Color
	}
	return cfg
}

// UnmarshalYAML accepts "image" or "polygon".
func (k *LayerKind) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "image":
		*k = LayerImage
	case "polygon", "shape":
		*k = LayerPolygon
	default:
		return fmt.Errorf("line %d: unknown layer kind %q", n.Line, s)
	}
	return nil
}

// MarshalYAML writes the kind by name.
func (k LayerKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// ParseConfig decodes YAML configuration.
func ParseConfig(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("strata: parse config: %w", err)
	}
	seen := make(map[string]bool, len(c.Layers))
	for i, l := range c.Layers {
		if l.ID == "" {
			return nil, fmt.Errorf("strata: config layer %d has no id", i)
		}
		if seen[l.ID] {
			return nil, fmt.Errorf("strata: config layer %q: %w", l.ID, ErrDuplicateLayer)
		}
		seen[l.ID] = true
	}
	return &c, nil
}

// LoadConfig reads and decodes a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("strata: read config: %w", err)
	}
	return ParseConfig(data)
}

// RunConfig converts the window section for Run.
func (c *Config) RunConfig() RunConfig {
	w := c.Window
	return RunConfig{
		Title:             w.Title,
		Width:             w.Width,
		Height:            w.Height,
		TPS:               w.TPS,
		Resizable:         w.Resizable,
		ShowFPS:           w.ShowFPS,
		PixelScale:        c.PixelScale,
		OptimalWidth:      w.OptimalWidth,
		OptimalHeight:     w.OptimalHeight,
		OptimalPixelScale: w.OptimalPixelScale,
		MinPixelScale:     w.MinPixelScale,
	}
}

// ApplyConfig adds the configured layers and sets pixel scale, clear color
// and debug mode.
func (e *Engine) ApplyConfig(c *Config) error {
	if c.ClearColor != "" {
		col, err := ParseHexColor(c.ClearColor)
		if err != nil {
			return err
		}
		e.SetClearColor(col)
	}
	if c.PixelScale > 0 {
		e.SetPixelScale(c.PixelScale)
	}
	e.SetDebugMode(c.Debug)
	for _, spec := range c.Layers {
		if _, err := e.AddLayer(spec.LayerConfig()); err != nil {
			return err
		}
	}
	return nil
}
