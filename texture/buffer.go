package texture

import (
	"fmt"
	"image/color"
	"math"

	"github.com/pthm-cable/snail/field"
)

// Buffer is an 8-bit texture with interleaved channels, row-major.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// NewBuffer allocates a zeroed buffer.
func NewBuffer(width, height, channels int) *Buffer {
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]byte, width*height*channels),
	}
}

// FromGrid rasterizes g into a newly allocated 3-channel buffer.
func FromGrid(g *field.Grid, s Sigmoid) *Buffer {
	return &Buffer{
		Width:    g.Width,
		Height:   g.Height,
		Channels: field.NumChannels,
		Pix:      Rasterize(g.Data, s),
	}
}

// Update rasterizes g into b in place. The grid must match b's dimensions.
func (b *Buffer) Update(g *field.Grid, s Sigmoid) error {
	if g.Width != b.Width || g.Height != b.Height || b.Channels != field.NumChannels {
		return fmt.Errorf("%w: buffer %dx%dx%d, grid %dx%dx%d", ErrShape,
			b.Width, b.Height, b.Channels, g.Width, g.Height, field.NumChannels)
	}
	return RasterizeInto(b.Pix, g.Data, s)
}

// Texel returns the channels of the texel at (x, y).
func (b *Buffer) Texel(x, y int) []byte {
	i := (y*b.Width + x) * b.Channels
	return b.Pix[i : i+b.Channels]
}

// RGBA expands the buffer into dst, reusing its capacity. One channel is
// treated as gray, three as RGB with opaque alpha, four as RGBA.
func (b *Buffer) RGBA(dst []color.RGBA) []color.RGBA {
	n := b.Width * b.Height
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]

	switch b.Channels {
	case 1:
		for i := range dst {
			v := b.Pix[i]
			dst[i] = color.RGBA{R: v, G: v, B: v, A: 255}
		}
	case 3:
		for i := range dst {
			p := b.Pix[i*3 : i*3+3]
			dst[i] = color.RGBA{R: p[0], G: p[1], B: p[2], A: 255}
		}
	case 4:
		for i := range dst {
			p := b.Pix[i*4 : i*4+4]
			dst[i] = color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
	default:
		for i := range dst {
			dst[i] = color.RGBA{A: 255}
		}
	}
	return dst
}

// MirroredRepeat folds t into [0, 1] the way a mirrored-repeat sampler
// does: [0,1] maps straight, [1,2] maps back, and so on.
func MirroredRepeat(t float64) float64 {
	f := math.Mod(t, 2)
	if f < 0 {
		f += 2
	}
	if f > 1 {
		f = 2 - f
	}
	return f
}

// Sample returns the nearest texel at (u, v) with mirrored-repeat wrapping
// on both axes.
func (b *Buffer) Sample(u, v float64) []byte {
	x := int(MirroredRepeat(u) * float64(b.Width))
	y := int(MirroredRepeat(v) * float64(b.Height))
	if x >= b.Width {
		x = b.Width - 1
	}
	if y >= b.Height {
		y = b.Height - 1
	}
	return b.Texel(x, y)
}
