// Package field holds the reaction-diffusion concentration field: a flat
// height x width x 3 grid, the diffusion and Gray-Scott reaction terms that
// act on it, and the Simulation that integrates them.
package field

import (
	"errors"
	"fmt"
)

// NumChannels is the number of concentrations stored per cell.
const NumChannels = 3

// ErrShape reports a buffer whose length does not match the grid it is used with.
var ErrShape = errors.New("field: shape mismatch")

// Grid is a height x width field with NumChannels values per cell.
// Data is laid out row by row, then column by column, then channel by channel.
type Grid struct {
	Height, Width int
	Data          []float64
}

// NewGrid allocates a zeroed grid.
func NewGrid(height, width int) *Grid {
	return &Grid{
		Height: height,
		Width:  width,
		Data:   make([]float64, height*width*NumChannels),
	}
}

// GridFrom wraps an existing slice without copying.
func GridFrom(height, width int, data []float64) (*Grid, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: non-positive grid size %dx%d", ErrShape, height, width)
	}
	if want := height * width * NumChannels; len(data) != want {
		return nil, fmt.Errorf("%w: %dx%dx%d grid needs %d values, got %d",
			ErrShape, height, width, NumChannels, want, len(data))
	}
	return &Grid{Height: height, Width: width, Data: data}, nil
}

// Cells returns the number of cells (height * width).
func (g *Grid) Cells() int { return g.Height * g.Width }

// Len returns the number of stored values.
func (g *Grid) Len() int { return len(g.Data) }

// Index returns the flat offset of (row, col, ch). It panics with an
// ErrShape-wrapped error when any coordinate is out of range.
func (g *Grid) Index(row, col, ch int) int {
	if row < 0 || row >= g.Height || col < 0 || col >= g.Width || ch < 0 || ch >= NumChannels {
		panic(fmt.Errorf("%w: index (%d,%d,%d) outside %dx%dx%d",
			ErrShape, row, col, ch, g.Height, g.Width, NumChannels))
	}
	return (row*g.Width+col)*NumChannels + ch
}

// At returns the value at (row, col, ch).
func (g *Grid) At(row, col, ch int) float64 {
	return g.Data[g.Index(row, col, ch)]
}

// Set stores v at (row, col, ch).
func (g *Grid) Set(row, col, ch int, v float64) {
	g.Data[g.Index(row, col, ch)] = v
}

// Channel copies one channel into dst (grown if needed) and returns it.
func (g *Grid) Channel(ch int, dst []float64) []float64 {
	n := g.Cells()
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i := 0; i < n; i++ {
		dst[i] = g.Data[i*NumChannels+ch]
	}
	return dst
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := NewGrid(g.Height, g.Width)
	copy(c.Data, g.Data)
	return c
}
