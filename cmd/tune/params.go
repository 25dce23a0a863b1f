// Package main searches the feed/kill plane for rates that grow a stable
// predator pattern on the dynamic texture.
package main

import (
	"fmt"

	"github.com/pthm-cable/snail/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the feed and kill parameters, bounded by the
// ranges the control panel offers and starting from cfg's rates.
func NewParamVector(cfg *config.Config) *ParamVector {
	d := cfg.Dynamics
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "f", Path: "dynamics.f", Min: d.FMin, Max: d.FMax, Default: d.F},
			{Name: "k", Path: "dynamics.k", Min: d.KMin, Max: d.KMax, Default: d.K},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg, both the YAML
// section and the derived field parameters.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		switch spec.Path {
		case "dynamics.f":
			cfg.Dynamics.F = clamped[i]
			cfg.Derived.Params.F = clamped[i]
		case "dynamics.k":
			cfg.Dynamics.K = clamped[i]
			cfg.Derived.Params.K = clamped[i]
		default:
			return fmt.Errorf("unknown parameter path %q", spec.Path)
		}
	}
	return nil
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		switch spec.Path {
		case "dynamics.f":
			v[i] = cfg.Dynamics.F
		case "dynamics.k":
			v[i] = cfg.Dynamics.K
		}
	}
	return v
}
