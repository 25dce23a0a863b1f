// Package shell builds the snail shell surface: a decaying spiral of rings
// stitched into a closed triangle tube.
package shell

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidGeometry reports geometry that cannot produce a mesh.
	ErrInvalidGeometry = errors.New("shell: invalid geometry")
	// ErrInvalidTexture reports texture placement that cannot be applied.
	ErrInvalidTexture = errors.New("shell: invalid texture parameters")
)

// MaxTangentialOffset bounds TextureParams.TangentialOffset.
const MaxTangentialOffset = 2.0

// Geometry describes the spiral.
type Geometry struct {
	NumTurns         float64 `yaml:"num_turns"`
	NumRingsPer2Pi   int     `yaml:"num_rings_per_2pi"`
	NumPointsPerRing int     `yaml:"num_points_per_ring"`
	Rad0             float64 `yaml:"rad0"`
	RadDecayPer2Pi   float64 `yaml:"rad_decay_per_2pi"` // fraction of radius lost per turn
}

// DefaultGeometry returns a five-turn shell at 16x16 resolution.
func DefaultGeometry() Geometry {
	return Geometry{
		NumTurns:         5,
		NumRingsPer2Pi:   16,
		NumPointsPerRing: 16,
		Rad0:             1.0,
		RadDecayPer2Pi:   0.3,
	}
}

// NumRings is round(NumRingsPer2Pi * NumTurns) + 1.
func (g Geometry) NumRings() int {
	return int(math.Round(float64(g.NumRingsPer2Pi)*g.NumTurns)) + 1
}

// Validate rejects parameters that would divide by zero or yield a
// degenerate or non-finite mesh.
func (g Geometry) Validate() error {
	switch {
	case g.NumRingsPer2Pi <= 1:
		return fmt.Errorf("%w: num_rings_per_2pi must be > 1, got %d", ErrInvalidGeometry, g.NumRingsPer2Pi)
	case g.NumPointsPerRing < 3:
		return fmt.Errorf("%w: num_points_per_ring must be >= 3, got %d", ErrInvalidGeometry, g.NumPointsPerRing)
	case !positiveFinite(g.NumTurns):
		return fmt.Errorf("%w: num_turns must be positive, got %v", ErrInvalidGeometry, g.NumTurns)
	case g.NumRings() < 2:
		return fmt.Errorf("%w: num_turns %v yields %d ring(s), need at least 2", ErrInvalidGeometry, g.NumTurns, g.NumRings())
	case !positiveFinite(g.Rad0):
		return fmt.Errorf("%w: rad0 must be positive, got %v", ErrInvalidGeometry, g.Rad0)
	case !(g.RadDecayPer2Pi > 0 && g.RadDecayPer2Pi < 1):
		return fmt.Errorf("%w: rad_decay_per_2pi must be in (0,1), got %v", ErrInvalidGeometry, g.RadDecayPer2Pi)
	}
	return nil
}

// TextureParams places the active texture on the shell.
type TextureParams struct {
	Name                string  `yaml:"name"`
	RepeatsLongitudinal float64 `yaml:"repeats_longitudinal"`
	RepeatsTangential   int     `yaml:"repeats_tangential"` // even so the mirrored seam closes
	TangentialOffset    float64 `yaml:"tangential_offset"`
}

// DefaultTexture returns the default placement of the first static texture.
func DefaultTexture() TextureParams {
	return TextureParams{
		Name:                "angelfish-1",
		RepeatsLongitudinal: 4.7,
		RepeatsTangential:   2,
		TangentialOffset:    0,
	}
}

// Validate checks the repeat counts and offset.
func (t TextureParams) Validate() error {
	switch {
	case !positiveFinite(t.RepeatsLongitudinal):
		return fmt.Errorf("%w: repeats_longitudinal must be positive, got %v", ErrInvalidTexture, t.RepeatsLongitudinal)
	case t.RepeatsTangential < 2 || t.RepeatsTangential%2 != 0:
		return fmt.Errorf("%w: repeats_tangential must be even and >= 2, got %d", ErrInvalidTexture, t.RepeatsTangential)
	case !(t.TangentialOffset >= 0 && t.TangentialOffset <= MaxTangentialOffset):
		return fmt.Errorf("%w: tangential_offset must be in [0,%v], got %v", ErrInvalidTexture, MaxTangentialOffset, t.TangentialOffset)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
