package main

import (
	"testing"

	"github.com/pthm-cable/snail/telemetry"
)

func TestComputeQuality(t *testing.T) {
	patterned := telemetry.WindowStats{PredMean: 0.1, PredStd: 0.15, PredMax: 0.5, Coverage: 0.3}
	collapsed := telemetry.WindowStats{PredMax: 0.01}

	tests := []struct {
		name    string
		result  runResult
		wantMin float64
		wantMax float64
	}{
		{"empty", runResult{}, 0, 0},
		{"diverged", runResult{windowStats: []telemetry.WindowStats{patterned}, diverged: true}, 0, 0},
		{"collapsed", runResult{windowStats: []telemetry.WindowStats{patterned, collapsed}}, 0, 0},
		{"steady pattern", runResult{windowStats: []telemetry.WindowStats{collapsed, patterned, patterned}}, 0.9, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := computeQuality(&tt.result)
			if q < tt.wantMin || q > tt.wantMax {
				t.Errorf("quality = %v, want in [%v, %v]", q, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestComputeFitnessPenalizesDivergence(t *testing.T) {
	if got := computeFitness(&runResult{diverged: true}, 1); got != divergedFitness {
		t.Errorf("diverged fitness = %v, want %v", got, divergedFitness)
	}
	if got := computeFitness(&runResult{}, 0.4); got != -0.4 {
		t.Errorf("fitness = %v, want -0.4", got)
	}
}

func TestEvaluateRunsEverySeed(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Derived.Params.Height, cfg.Derived.Params.Width = 16, 16
	cfg.Derived.Params.SeedProbability = 0.1
	pv := NewParamVector(cfg)

	fe := NewFitnessEvaluator(pv, 40, []int64{1, 2}, cfg)
	r := fe.runSimulation(pv.DefaultVector(), 1)
	if r.diverged {
		t.Fatal("default rates diverged")
	}
	if len(r.windowStats) != 20 {
		t.Fatalf("got %d windows, want 20", len(r.windowStats))
	}
	if last := r.windowStats[len(r.windowStats)-1]; last.Steps != 40 {
		t.Errorf("last window at step %d, want 40", last.Steps)
	}

	fitness := fe.Evaluate(pv.DefaultVector())
	if fitness > 0 || fitness < -1 {
		t.Errorf("fitness = %v, want in [-1, 0]", fitness)
	}
	if q := fe.LastQuality(); q != -fitness {
		t.Errorf("LastQuality() = %v, want %v", q, -fitness)
	}
}
