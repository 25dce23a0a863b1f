// Package texture turns reaction-diffusion fields and static images into
// byte buffers ready for upload as textures.
package texture

import (
	"errors"
	"fmt"
	"math"
)

// ErrShape reports a destination buffer whose size does not match its source.
var ErrShape = errors.New("texture: shape mismatch")

// MaxExponent bounds the argument passed to math.Exp so a diverging field
// saturates instead of producing Inf or NaN arithmetic.
const MaxExponent = 40.0

// Default transfer curve.
const (
	DefaultSteepness = 10.0
	DefaultMidpoint  = 0.6
)

// Sigmoid is the logistic transfer curve from field values to bytes.
type Sigmoid struct {
	Steepness float64 `yaml:"steepness"`
	Midpoint  float64 `yaml:"midpoint"`
}

// DefaultSigmoid returns the curve used for the dynamic texture.
func DefaultSigmoid() Sigmoid {
	return Sigmoid{Steepness: DefaultSteepness, Midpoint: DefaultMidpoint}
}

// Byte maps v to floor(255 / (1 + exp(-steepness*(v-midpoint)))).
// NaN maps to 0; infinities saturate.
func (s Sigmoid) Byte(v float64) byte {
	if math.IsNaN(v) {
		return 0
	}
	z := -s.Steepness * (v - s.Midpoint)
	if math.IsNaN(z) {
		// zero steepness times an infinite offset
		z = 0
	}
	if z > MaxExponent {
		z = MaxExponent
	} else if z < -MaxExponent {
		z = -MaxExponent
	}
	return byte(math.Floor(255 / (1 + math.Exp(z))))
}

// Rasterize returns a new byte slice with one byte per value.
func Rasterize(values []float64, s Sigmoid) []byte {
	dst := make([]byte, len(values))
	for i, v := range values {
		dst[i] = s.Byte(v)
	}
	return dst
}

// RasterizeInto overwrites dst with the rasterized values. It never
// allocates and fails if the lengths differ.
func RasterizeInto(dst []byte, values []float64, s Sigmoid) error {
	if len(dst) != len(values) {
		return fmt.Errorf("%w: %d bytes for %d values", ErrShape, len(dst), len(values))
	}
	for i, v := range values {
		dst[i] = s.Byte(v)
	}
	return nil
}
