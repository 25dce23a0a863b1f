package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/snail/config"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	return cfg
}

func TestParamVectorRoundTrip(t *testing.T) {
	cfg := loadDefaults(t)
	pv := NewParamVector(cfg)
	if pv.Dim() != 2 {
		t.Fatalf("Dim() = %d, want 2", pv.Dim())
	}

	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("param %s: round trip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestParamVectorClamp(t *testing.T) {
	cfg := loadDefaults(t)
	pv := NewParamVector(cfg)

	got := pv.Clamp([]float64{-1, 1})
	if got[0] != cfg.Dynamics.FMin {
		t.Errorf("f clamped to %v, want %v", got[0], cfg.Dynamics.FMin)
	}
	if got[1] != cfg.Dynamics.KMax {
		t.Errorf("k clamped to %v, want %v", got[1], cfg.Dynamics.KMax)
	}
}

func TestApplyToConfig(t *testing.T) {
	cfg := loadDefaults(t)
	pv := NewParamVector(cfg)

	if err := pv.ApplyToConfig(cfg, []float64{0.03, 0.055}); err != nil {
		t.Fatalf("ApplyToConfig: %v", err)
	}
	if cfg.Dynamics.F != 0.03 || cfg.Derived.Params.F != 0.03 {
		t.Errorf("f not applied: %v / %v", cfg.Dynamics.F, cfg.Derived.Params.F)
	}
	if cfg.Dynamics.K != 0.055 || cfg.Derived.Params.K != 0.055 {
		t.Errorf("k not applied: %v / %v", cfg.Dynamics.K, cfg.Derived.Params.K)
	}

	got := pv.ExtractFromConfig(cfg)
	if got[0] != 0.03 || got[1] != 0.055 {
		t.Errorf("ExtractFromConfig = %v", got)
	}

	pv.Specs = append(pv.Specs, ParamSpec{Name: "x", Path: "dynamics.x", Max: 1})
	if err := pv.ApplyToConfig(cfg, []float64{0.03, 0.055, 0.5}); err == nil {
		t.Error("expected error for unknown path")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0m00s"},
		{75, "1m15s"},
		{3725, "1h02m05s"},
	}
	for _, tt := range tests {
		if got := formatDuration(time.Duration(tt.secs) * time.Second); got != tt.want {
			t.Errorf("formatDuration(%ds) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
