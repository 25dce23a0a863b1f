package field

import "fmt"

// Stencil weights. Together with a centre weight of -1 they form the kernel
//
//	0.05 0.20 0.05
//	0.20 -1.0 0.20
//	0.05 0.20 0.05
const (
	EdgeWeight   = 0.20
	CornerWeight = 0.05
)

// Diffuse writes the diffusion term of x into dst.
//
// For each cell and channel c the result is d[c]/delta^2 times the weighted
// sum of (neighbour - centre) over the neighbours that exist. Neighbours
// outside the grid are skipped, which gives a no-flux boundary.
func Diffuse(dst, x []float64, height, width int, d [NumChannels]float64, delta float64) error {
	n := height * width * NumChannels
	if len(x) != n || len(dst) != n {
		return fmt.Errorf("%w: diffusion on %dx%d needs %d values, got x=%d dst=%d",
			ErrShape, height, width, n, len(x), len(dst))
	}

	var scale [NumChannels]float64
	for c := range scale {
		scale[c] = d[c] / (delta * delta)
	}

	rowStride := width * NumChannels
	for r := 0; r < height; r++ {
		up := r > 0
		down := r < height-1
		for col := 0; col < width; col++ {
			left := col > 0
			right := col < width-1
			base := r*rowStride + col*NumChannels

			for c := 0; c < NumChannels; c++ {
				i := base + c
				xi := x[i]
				var acc float64

				if up {
					acc += EdgeWeight * (x[i-rowStride] - xi)
					if left {
						acc += CornerWeight * (x[i-rowStride-NumChannels] - xi)
					}
					if right {
						acc += CornerWeight * (x[i-rowStride+NumChannels] - xi)
					}
				}
				if down {
					acc += EdgeWeight * (x[i+rowStride] - xi)
					if left {
						acc += CornerWeight * (x[i+rowStride-NumChannels] - xi)
					}
					if right {
						acc += CornerWeight * (x[i+rowStride+NumChannels] - xi)
					}
				}
				if left {
					acc += EdgeWeight * (x[i-NumChannels] - xi)
				}
				if right {
					acc += EdgeWeight * (x[i+NumChannels] - xi)
				}

				dst[i] = scale[c] * acc
			}
		}
	}
	return nil
}
