package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/snail/config"
	"github.com/pthm-cable/snail/field"
	"github.com/pthm-cable/snail/telemetry"
)

// FitnessEvaluator runs headless field simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxSteps    int
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int32 // steps per stats window

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestStats   telemetry.WindowStats
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxSteps int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	window := int32(maxSteps / 20)
	if window < 1 {
		window = 1
	}
	return &FitnessEvaluator{
		params:      params,
		maxSteps:    maxSteps,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: window,
		bestFitness: math.Inf(1),
	}
}

// BestStats returns the final window of the best seed of the best evaluation.
func (fe *FitnessEvaluator) BestStats() telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestStats
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats
	diverged    bool
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	last    telemetry.WindowStats
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Seeds run in parallel; each owns its simulation and stepper.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := computeQuality(result)
			var last telemetry.WindowStats
			if n := len(result.windowStats); n > 0 {
				last = result.windowStats[n-1]
			}
			results[idx] = seedResult{
				fitness: computeFitness(result, quality),
				quality: quality,
				last:    last,
			}
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedStats telemetry.WindowStats

	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedStats = r.last
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestStats = bestSeedStats
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation steps a fresh field for maxSteps, collecting window stats.
// A run that produces NaN or Inf stops at the first window that sees it.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	result := &runResult{}
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		result.diverged = true
		return result
	}

	sim, err := field.New(cfg.Derived.Params, field.WithSeed(seed), field.WithStepper(cfg.Stepper()))
	if err != nil {
		result.diverged = true
		return result
	}

	collector := telemetry.NewCollector(fe.statsWindow)
	for step := int32(1); step <= int32(fe.maxSteps); step++ {
		sim.Step()
		collector.RecordStep()
		if !collector.ShouldFlush(step) {
			continue
		}
		stats := collector.Flush(step, sim)
		result.windowStats = append(result.windowStats, stats)
		if stats.NonFinite > 0 {
			result.diverged = true
			return result
		}
	}
	return result
}

// copyConfig returns a shallow copy of the base config. Slices are shared
// but never written.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// Fitness of a diverged run; worse than any finite run.
const divergedFitness = 1.0

// computeFitness calculates the scalar fitness (lower = better).
func computeFitness(r *runResult, quality float64) float64 {
	if r.diverged {
		return divergedFitness
	}
	return -quality
}

// Quality component weights.
const (
	qualityWeightCoverage  = 0.50
	qualityWeightContrast  = 0.30
	qualityWeightStability = 0.20

	qualityTargetCoverage = 0.30 // share of cells carrying pattern
	qualityCoverageWidth  = 0.20
	qualityCollapseMax    = 0.05 // predator max below this counts as extinct
)

// computeQuality scores pattern formation in [0, 1] from the second half of
// the run's windows. Collapsed or diverged runs score zero.
func computeQuality(r *runResult) float64 {
	if r.diverged || len(r.windowStats) == 0 {
		return 0
	}
	late := r.windowStats[len(r.windowStats)/2:]
	if late[len(late)-1].PredMax < qualityCollapseMax {
		return 0
	}

	var coverageSum, contrastSum float64
	coverages := make([]float64, 0, len(late))
	for _, w := range late {
		d := (w.Coverage - qualityTargetCoverage) / qualityCoverageWidth
		coverageSum += math.Exp(-d * d)
		if w.PredMean > 0 {
			contrastSum += 1 - math.Exp(-w.PredStd/w.PredMean)
		}
		coverages = append(coverages, w.Coverage)
	}
	n := float64(len(late))

	stabilityScore := 1.0
	if len(coverages) >= 2 {
		c := cv(coverages)
		stabilityScore = math.Exp(-c * c)
	}

	quality := qualityWeightCoverage*coverageSum/n +
		qualityWeightContrast*contrastSum/n +
		qualityWeightStability*stabilityScore
	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
