package field

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ChannelSummary describes the distribution of one channel.
type ChannelSummary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Sum    float64
}

// Summary describes a field by role.
type Summary struct {
	Prey      ChannelSummary
	Predator  ChannelSummary
	Dummy     ChannelSummary
	NonFinite int // NaN or Inf values across all channels
}

// Finite reports whether every value in the field is a finite number.
func (s Summary) Finite() bool { return s.NonFinite == 0 }

// Summarize computes per-role statistics of g.
func Summarize(g *Grid, roles Roles) Summary {
	var sum Summary
	for _, v := range g.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			sum.NonFinite++
		}
	}

	buf := make([]float64, g.Cells())
	sum.Prey = summarizeChannel(g.Channel(roles.Prey, buf))
	sum.Predator = summarizeChannel(g.Channel(roles.Predator, buf))
	sum.Dummy = summarizeChannel(g.Channel(roles.Dummy, buf))
	return sum
}

func summarizeChannel(vals []float64) ChannelSummary {
	if len(vals) == 0 {
		return ChannelSummary{}
	}
	mean, std := stat.MeanStdDev(vals, nil)
	return ChannelSummary{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(vals),
		Max:    floats.Max(vals),
		Sum:    floats.Sum(vals),
	}
}

// LogValue implements slog.LogValuer.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("prey_mean", s.Prey.Mean),
		slog.Float64("prey_std", s.Prey.StdDev),
		slog.Float64("pred_mean", s.Predator.Mean),
		slog.Float64("pred_std", s.Predator.StdDev),
		slog.Float64("pred_max", s.Predator.Max),
		slog.Int("non_finite", s.NonFinite),
	)
}
