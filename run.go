package strata

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures Run.
type RunConfig struct {
	Title  string
	Width  int // initial window width in screen pixels
	Height int // initial window height in screen pixels
	TPS    int // ticks per second; zero means ebiten's default (60)

	// PixelScale is the fixed pixel scale used when OptimalWidth is zero.
	PixelScale float64
	// OptimalWidth and OptimalHeight describe the window size at which
	// OptimalPixelScale looks right. When set, the pixel scale follows the
	// window as it is resized, never dropping below MinPixelScale.
	OptimalWidth      int
	OptimalHeight     int
	OptimalPixelScale float64
	MinPixelScale     float64

	Resizable bool
	// ShowFPS draws frame rate, tick rate and compiled sprite count in the
	// top-left corner after every layer.
	ShowFPS bool

	// Update runs game logic once per tick, before the frame is drawn.
	// Return ebiten.Termination to end the loop cleanly.
	Update func() error
}

// PixelScaleFor returns the pixel scale for a window of w by h screen pixels.
func (c RunConfig) PixelScaleFor(w, h int) float64 {
	if c.OptimalWidth <= 0 || c.OptimalHeight <= 0 {
		if c.PixelScale > 0 {
			return c.PixelScale
		}
		return 1
	}
	opt := c.OptimalPixelScale
	if opt <= 0 {
		opt = 1
	}
	ratio := math.Min(float64(w)/float64(c.OptimalWidth), float64(h)/float64(c.OptimalHeight))
	scale := math.Floor(opt * ratio)
	return math.Max(scale, math.Max(c.MinPixelScale, 1))
}

// Run opens a window and drives e until the window closes or Update returns
// an error. e must have been created with an *EbitenBackend.
func Run(e *Engine, cfg RunConfig) error {
	backend, ok := e.backend.(*EbitenBackend)
	if !ok {
		return fmt.Errorf("strata: Run needs an *EbitenBackend, engine has %T", e.backend)
	}
	tps := cfg.TPS
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(tps)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := &game{
		engine:  e,
		backend: backend,
		cfg:     cfg,
		dt:      float32(1 / float64(tps)),
		fps:     fpsMonitor{target: tps},
	}
	logger().Info("starting game loop", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height, "tps", tps)
	return ebiten.RunGame(g)
}

// game adapts an Engine to ebiten.Game.
type game struct {
	engine  *Engine
	backend *EbitenBackend
	cfg     RunConfig
	dt      float32
	fps     fpsMonitor
	outW    int
	outH    int
}

func (g *game) Update() error {
	g.engine.Tick(g.dt)
	if g.cfg.Update != nil {
		if err := g.cfg.Update(); err != nil {
			return err
		}
	}
	if g.engine.debug {
		g.fps.tick(ebiten.ActualFPS(), g.engine.CountSprites())
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.backend.SetTarget(screen)
	g.engine.RenderLayers()
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nSprites: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), g.engine.CountSprites()))
	}
	g.backend.flushScreenshots()
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outW || outsideHeight != g.outH {
		g.outW, g.outH = outsideWidth, outsideHeight
		g.engine.Resize(outsideWidth, outsideHeight, g.cfg.PixelScaleFor(outsideWidth, outsideHeight))
	}
	return outsideWidth, outsideHeight
}
