package strata

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPixelScaleFor(t *testing.T) {
	cfg := RunConfig{OptimalWidth: 640, OptimalHeight: 300, OptimalPixelScale: 2, MinPixelScale: 1}
	tests := []struct {
		w, h int
		want float64
	}{
		{640, 300, 2},
		{1280, 600, 4},
		{1280, 300, 2},  // height-limited
		{960, 450, 3},   // 1.5x
		{320, 150, 1},   // clamped to min
		{100, 100, 1},   // clamped to min
		{1920, 1200, 6}, // width-limited: 3x
	}
	for _, tt := range tests {
		if got := cfg.PixelScaleFor(tt.w, tt.h); got != tt.want {
			t.Errorf("PixelScaleFor(%d,%d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestPixelScaleForFixed(t *testing.T) {
	if got := (RunConfig{PixelScale: 3}).PixelScaleFor(10, 10); got != 3 {
		t.Errorf("fixed scale = %v, want 3", got)
	}
	if got := (RunConfig{}).PixelScaleFor(10, 10); got != 1 {
		t.Errorf("default scale = %v, want 1", got)
	}
}

func TestRunNeedsEbitenBackend(t *testing.T) {
	if err := Run(NewEngine(&recordingBackend{}), RunConfig{}); err == nil {
		t.Error("Run with a non-ebiten backend returned nil")
	}
}

func TestGameLayoutResizesEngine(t *testing.T) {
	e := NewEngine(NewEbitenBackend())
	g := &game{engine: e, cfg: RunConfig{OptimalWidth: 640, OptimalHeight: 300, OptimalPixelScale: 2}}
	w, h := g.Layout(1280, 600)
	if w != 1280 || h != 600 {
		t.Errorf("Layout = %dx%d", w, h)
	}
	if vw, vh := e.ViewSize(); vw != 1280 || vh != 600 {
		t.Errorf("ViewSize = %dx%d", vw, vh)
	}
	if e.PixelScale() != 4 {
		t.Errorf("PixelScale = %v, want 4", e.PixelScale())
	}
}

func TestFPSMonitor(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	m := fpsMonitor{target: 60}
	for i := 1; i < 60; i++ {
		if m.tick(10, 5) {
			t.Fatalf("tick %d warned before a full second of ticks", i)
		}
	}
	if !m.tick(50.04, 5) {
		t.Error("tick 60 at 50 fps did not warn")
	}
	if !strings.Contains(buf.String(), "fps drop") || !strings.Contains(buf.String(), "sprites=5") {
		t.Errorf("log = %q", buf.String())
	}

	for i := 0; i < 60; i++ {
		if m.tick(55, 0) {
			t.Error("55 fps (above 90% of 60) warned")
		}
	}
}

func TestFPSMonitorDisabled(t *testing.T) {
	m := fpsMonitor{}
	if m.tick(1, 0) {
		t.Error("monitor with zero target warned")
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger is enabled")
	}
}
