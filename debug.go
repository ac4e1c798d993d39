package strata

import (
	"log/slog"
	"time"
)

// frameStats holds per-frame rebuild and draw metrics.
// Only timed when the engine is in debug mode.
type frameStats struct {
	rebuildTime time.Duration
	rebuilt     int
	drawCalls   int
	sprites     int
}

// debugLog reports the frame's stats at debug level.
func (e *Engine) debugLog(stats frameStats) {
	if !e.debug {
		return
	}
	logger().Debug("frame",
		slog.Uint64("frame", e.frame),
		slog.Int("layers_rebuilt", stats.rebuilt),
		slog.Duration("rebuild", stats.rebuildTime),
		slog.Int("draw_calls", stats.drawCalls),
		slog.Int("sprites", stats.sprites),
	)
}

// fpsWarnRatio is the fraction of the target frame rate below which a frame
// rate drop is reported.
const fpsWarnRatio = 0.9

// fpsMonitor samples the frame rate once per target-second of ticks and warns
// when it falls below fpsWarnRatio of the target.
type fpsMonitor struct {
	target int
	ticks  int
}

// tick advances the monitor. It returns true when fps was below target on a
// sampling tick, after logging a warning with the compiled sprite count.
func (m *fpsMonitor) tick(fps float64, sprites int) bool {
	if m.target <= 0 {
		return false
	}
	m.ticks++
	if m.ticks%m.target != 0 {
		return false
	}
	if fps >= fpsWarnRatio*float64(m.target) {
		return false
	}
	logger().Warn("fps drop",
		slog.Float64("fps", float64(int(fps*10+0.5))/10),
		slog.Int("sprites", sprites),
	)
	return true
}
