package telemetry

import "github.com/pthm-cable/snail/field"

// Collector counts frame events within fixed windows of frames and produces
// WindowStats when a window closes.
type Collector struct {
	windowTicks     int32
	windowStartTick int32

	steps          int
	meshRebuilds   int
	textureChanges int

	predator []float64
}

// NewCollector creates a collector that flushes every windowTicks frames.
func NewCollector(windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordStep records one field step.
func (c *Collector) RecordStep() { c.steps++ }

// RecordMeshRebuild records one shell rebuild.
func (c *Collector) RecordMeshRebuild() { c.meshRebuilds++ }

// RecordTextureChange records a switch of the active texture.
func (c *Collector) RecordTextureChange() { c.textureChanges++ }

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces WindowStats for the window ending at currentTick and resets
// the counters. sim may be nil when the dynamic texture was never selected;
// the field columns are then zero.
func (c *Collector) Flush(currentTick int32, sim *field.Simulation) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		StepsInWindow:   c.steps,
		MeshRebuilds:    c.meshRebuilds,
		TextureChanges:  c.textureChanges,
	}

	if sim != nil {
		p := sim.Params()
		g := sim.State()
		stats.Steps = sim.Steps()
		stats.SimTime = float64(sim.Steps()) * p.DeltaT
		stats.Method = sim.Method()
		stats.F = p.F
		stats.K = p.K
		c.predator = g.Channel(p.Roles.Predator, c.predator)
		stats.fill(field.Summarize(g, p.Roles), c.predator)
	}

	c.windowStartTick = currentTick
	c.steps = 0
	c.meshRebuilds = 0
	c.textureChanges = 0
	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int32 { return c.windowTicks }
