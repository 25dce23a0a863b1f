package ui

import (
	"math"

	"github.com/pthm-cable/snail/driver"
)

// Range bounds a slider. A positive Step snaps values to Min + n*Step.
type Range struct {
	Min, Max float64
	Step     float64
}

// Clamp restricts v to the range and snaps it to the step grid.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	if v < r.Min {
		v = r.Min
	}
	if v > r.Max {
		v = r.Max
	}
	if r.Step > 0 {
		v = r.Min + math.Round((v-r.Min)/r.Step)*r.Step
		if v > r.Max {
			v -= r.Step
		}
	}
	return v
}

// Ranges holds the limits of every control.
type Ranges struct {
	RadDecay    Range
	Turns       Range
	RepeatsLong Range
	RepeatsTang Range
	Offset      Range
	F           Range
	K           Range
}

// DefaultRanges returns the control limits, with the feed and kill ranges
// supplied by the caller.
func DefaultRanges(f, k Range) Ranges {
	return Ranges{
		RadDecay:    Range{Min: 0.01, Max: 0.99},
		Turns:       Range{Min: 0.1, Max: 10},
		RepeatsLong: Range{Min: 1, Max: 30},
		RepeatsTang: Range{Min: 2, Max: 12, Step: 2},
		Offset:      Range{Min: 0, Max: 2},
		F:           f,
		K:           k,
	}
}

// Slider binds one control value to a range.
type Slider struct {
	Label  string
	Format string
	Range  Range
	Get    func(c *driver.Controls) float64
	Set    func(c *driver.Controls, v float64)
}

// Folder groups sliders under a title.
type Folder struct {
	Title   string
	Sliders []Slider
	// DynamicOnly folders are shown only while the live texture is active.
	DynamicOnly bool
}

// Folders lays out the control panel.
func Folders(r Ranges) []Folder {
	return []Folder{
		{
			Title: "Geometry",
			Sliders: []Slider{
				{
					Label: "Radius decay", Format: "%.2f", Range: r.RadDecay,
					Get: func(c *driver.Controls) float64 { return c.Geometry.RadDecayPer2Pi },
					Set: func(c *driver.Controls, v float64) { c.Geometry.RadDecayPer2Pi = v },
				},
				{
					Label: "Turns", Format: "%.2f", Range: r.Turns,
					Get: func(c *driver.Controls) float64 { return c.Geometry.NumTurns },
					Set: func(c *driver.Controls, v float64) { c.Geometry.NumTurns = v },
				},
			},
		},
		{
			Title: "Texture",
			Sliders: []Slider{
				{
					Label: "Long. repeats", Format: "%.1f", Range: r.RepeatsLong,
					Get: func(c *driver.Controls) float64 { return c.Texture.RepeatsLongitudinal },
					Set: func(c *driver.Controls, v float64) { c.Texture.RepeatsLongitudinal = v },
				},
				{
					Label: "Tang. repeats", Format: "%.0f", Range: r.RepeatsTang,
					Get: func(c *driver.Controls) float64 { return float64(c.Texture.RepeatsTangential) },
					Set: func(c *driver.Controls, v float64) { c.Texture.RepeatsTangential = int(math.Round(v)) },
				},
				{
					Label: "Tang. offset", Format: "%.2f", Range: r.Offset,
					Get: func(c *driver.Controls) float64 { return c.Texture.TangentialOffset },
					Set: func(c *driver.Controls, v float64) { c.Texture.TangentialOffset = v },
				},
			},
		},
		{
			Title:       "Dynamic",
			DynamicOnly: true,
			Sliders: []Slider{
				{
					Label: "f", Format: "%.4f", Range: r.F,
					Get: func(c *driver.Controls) float64 { return c.F },
					Set: func(c *driver.Controls, v float64) { c.F = v },
				},
				{
					Label: "k", Format: "%.4f", Range: r.K,
					Get: func(c *driver.Controls) float64 { return c.K },
					Set: func(c *driver.Controls, v float64) { c.K = v },
				},
			},
		},
	}
}

// ClampControls forces every slider-bound value into its range.
func ClampControls(c driver.Controls, folders []Folder) driver.Controls {
	for _, f := range folders {
		for _, s := range f.Sliders {
			s.Set(&c, s.Range.Clamp(s.Get(&c)))
		}
	}
	return c
}

// TextureIndex returns the position of name in names, or 0 if absent.
func TextureIndex(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}
