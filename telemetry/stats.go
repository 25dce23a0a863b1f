package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/snail/field"
)

// WindowStats summarizes the dynamic field at the end of a window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTime         float64 `csv:"sim_time"` // steps × deltaT, field time units
	Steps           int     `csv:"steps"`
	Method          string  `csv:"method"`
	F               float64 `csv:"f"`
	K               float64 `csv:"k"`

	// Activity during the window
	StepsInWindow  int `csv:"window_steps"`
	MeshRebuilds   int `csv:"mesh_rebuilds"`
	TextureChanges int `csv:"texture_changes"`

	PreyMean float64 `csv:"prey_mean"`
	PreyStd  float64 `csv:"prey_std"`
	PreyMin  float64 `csv:"prey_min"`
	PreyMax  float64 `csv:"prey_max"`

	PredMean float64 `csv:"pred_mean"`
	PredStd  float64 `csv:"pred_std"`
	PredMax  float64 `csv:"pred_max"`
	PredP10  float64 `csv:"pred_p10"`
	PredP50  float64 `csv:"pred_p50"`
	PredP90  float64 `csv:"pred_p90"`

	// Fraction of cells where predator exceeds CoverageThreshold
	Coverage  float64 `csv:"coverage"`
	NonFinite int     `csv:"non_finite"`
}

// CoverageThreshold is the predator level counted as "pattern" in Coverage.
const CoverageThreshold = 0.25

// Percentile returns the empirical p-quantile of sorted, the smallest value
// whose cumulative share reaches p. p is clamped to [0, 1]. Returns 0 for an
// empty slice.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ChannelQuantiles returns p10, p50 and p90 of values without modifying it.
func ChannelQuantiles(values []float64) (p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// Coverage returns the fraction of values strictly above threshold.
func Coverage(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	n := 0
	for _, v := range values {
		if v > threshold {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

// fill copies a field summary and predator distribution into s.
func (s *WindowStats) fill(sum field.Summary, predator []float64) {
	s.PreyMean = sum.Prey.Mean
	s.PreyStd = sum.Prey.StdDev
	s.PreyMin = sum.Prey.Min
	s.PreyMax = sum.Prey.Max
	s.PredMean = sum.Predator.Mean
	s.PredStd = sum.Predator.StdDev
	s.PredMax = sum.Predator.Max
	s.PredP10, s.PredP50, s.PredP90 = ChannelQuantiles(predator)
	s.Coverage = Coverage(predator, CoverageThreshold)
	s.NonFinite = sum.NonFinite
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("steps", s.Steps),
		slog.String("method", s.Method),
		slog.Float64("f", s.F),
		slog.Float64("k", s.K),
		slog.Int("window_steps", s.StepsInWindow),
		slog.Int("mesh_rebuilds", s.MeshRebuilds),
		slog.Int("texture_changes", s.TextureChanges),
		slog.Float64("prey_mean", s.PreyMean),
		slog.Float64("prey_std", s.PreyStd),
		slog.Float64("pred_mean", s.PredMean),
		slog.Float64("pred_std", s.PredStd),
		slog.Float64("pred_max", s.PredMax),
		slog.Float64("pred_p50", s.PredP50),
		slog.Float64("pred_p90", s.PredP90),
		slog.Float64("coverage", s.Coverage),
		slog.Int("non_finite", s.NonFinite),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"steps", s.Steps,
		"f", s.F,
		"k", s.K,
		"prey_mean", s.PreyMean,
		"pred_mean", s.PredMean,
		"pred_std", s.PredStd,
		"pred_p90", s.PredP90,
		"coverage", s.Coverage,
		"non_finite", s.NonFinite,
		"mesh_rebuilds", s.MeshRebuilds,
	)
}
