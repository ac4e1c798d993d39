package strata

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports an Engine's compiled layer state to Prometheus.
//
// The Engine is single-threaded, so the collector never reads it during a
// scrape. Call Observe from the goroutine driving the engine (once per frame
// is typical); Collect reports the last observed snapshot.
type Collector struct {
	engine *Engine

	mu      sync.Mutex
	layers  []layerSnapshot
	sprites int
	frames  uint64

	layerSprites  *prometheus.Desc
	layerRebuilds *prometheus.Desc
	layerDirty    *prometheus.Desc
	spritesDesc   *prometheus.Desc
	framesDesc    *prometheus.Desc
}

type layerSnapshot struct {
	id       string
	sprites  int
	rebuilds uint64
	dirty    bool
}

// NewCollector returns a collector for e.
func NewCollector(e *Engine) *Collector {
	return &Collector{
		engine: e,
		layerSprites: prometheus.NewDesc("strata_layer_sprites",
			"Compiled sprites in the layer.", []string{"layer"}, nil),
		layerRebuilds: prometheus.NewDesc("strata_layer_rebuilds_total",
			"Times the layer's packed arrays were rebuilt.", []string{"layer"}, nil),
		layerDirty: prometheus.NewDesc("strata_layer_dirty",
			"1 if the layer has pending changes.", []string{"layer"}, nil),
		spritesDesc: prometheus.NewDesc("strata_sprites",
			"Compiled sprites across all layers.", nil, nil),
		framesDesc: prometheus.NewDesc("strata_frames_total",
			"Frames rendered.", nil, nil),
	}
}

// Observe snapshots the engine state for the next scrape.
func (c *Collector) Observe() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layers = c.layers[:0]
	for _, l := range c.engine.layers {
		c.layers = append(c.layers, layerSnapshot{
			id:       l.id,
			sprites:  l.Len(),
			rebuilds: l.rebuilds,
			dirty:    l.IsDirty(),
		})
	}
	c.sprites = c.engine.CountSprites()
	c.frames = c.engine.frame
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.layerSprites
	ch <- c.layerRebuilds
	ch <- c.layerDirty
	ch <- c.spritesDesc
	ch <- c.framesDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.layers {
		ch <- prometheus.MustNewConstMetric(c.layerSprites, prometheus.GaugeValue, float64(l.sprites), l.id)
		ch <- prometheus.MustNewConstMetric(c.layerRebuilds, prometheus.CounterValue, float64(l.rebuilds), l.id)
		dirty := 0.0
		if l.dirty {
			dirty = 1
		}
		ch <- prometheus.MustNewConstMetric(c.layerDirty, prometheus.GaugeValue, dirty, l.id)
	}
	ch <- prometheus.MustNewConstMetric(c.spritesDesc, prometheus.GaugeValue, float64(c.sprites))
	ch <- prometheus.MustNewConstMetric(c.framesDesc, prometheus.CounterValue, float64(c.frames))
}
