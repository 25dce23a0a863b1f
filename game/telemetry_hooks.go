package game

import (
	"log/slog"

	"github.com/pthm-cable/snail/telemetry"
	"github.com/pthm-cable/snail/ui"
)

// flushTelemetry checks if the stats window should be flushed and handles
// bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	sim := g.driver.Simulation()
	if !g.Controls().Dynamic() {
		sim = nil
	}
	stats := g.collector.Flush(g.tick, sim)
	perfStats := g.perfCollector.Stats()

	g.fieldStats = ui.FieldStatsData{
		PreyMean:     stats.PreyMean,
		PredatorMean: stats.PredMean,
		PredatorMax:  stats.PredMax,
		Coverage:     stats.Coverage,
		NonFinite:    stats.NonFinite,
	}

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	if g.bookmarkDetector == nil {
		return
	}
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.opts.LogStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if bm.Type == telemetry.BookmarkPatternOnset || bm.Type == telemetry.BookmarkSteadyPattern {
			name := string(bm.Type) + "-" + g.driver.TextureName()
			if err := g.outputManager.WriteTexture(name, g.driver.Texture()); err != nil {
				slog.Error("failed to write bookmark texture", "error", err)
			}
		}
	}
}
