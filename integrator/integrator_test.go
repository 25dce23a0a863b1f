package integrator

import (
	"errors"
	"math"
	"testing"
)

// decay is dx/dt = -x.
func decay(dst, x []float64) {
	for i := range x {
		dst[i] = -x[i]
	}
}

// oscillator is the unit harmonic oscillator on the pair (x, v).
func oscillator(dst, x []float64) {
	dst[0] = x[1]
	dst[1] = -x[0]
}

func TestSingleStepDecay(t *testing.T) {
	tests := []struct {
		method Method
		want   float64
	}{
		{MethodEuler, 0.9},
		{MethodRK2, 0.905},
		{MethodRK4, 1 - 0.1 + 0.005 - 0.1*0.1*0.1/6 + 0.1*0.1*0.1*0.1/24},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			s, err := New(tt.method)
			if err != nil {
				t.Fatalf("New(%q): %v", tt.method, err)
			}
			x := []float64{1}
			s.Step(decay, x, 0.1)
			if math.Abs(x[0]-tt.want) > 1e-12 {
				t.Errorf("%s step = %.15f, want %.15f", s.Name(), x[0], tt.want)
			}
		})
	}
}

func TestAccuracyOrdering(t *testing.T) {
	// Integrate the oscillator for one period; higher order must land closer.
	const steps = 64
	dt := 2 * math.Pi / steps

	errFor := func(m Method) float64 {
		s, _ := New(m)
		x := []float64{1, 0}
		for i := 0; i < steps; i++ {
			s.Step(oscillator, x, dt)
		}
		return math.Hypot(x[0]-1, x[1])
	}

	euler := errFor(MethodEuler)
	rk2 := errFor(MethodRK2)
	rk4 := errFor(MethodRK4)

	if !(euler > rk2 && rk2 > rk4) {
		t.Errorf("expected euler > rk2 > rk4 error, got %g, %g, %g", euler, rk2, rk4)
	}
	if rk4 > 1e-4 {
		t.Errorf("rk4 error after one period too large: %g", rk4)
	}
}

func TestZeroStepIsIdentity(t *testing.T) {
	for _, m := range []Method{MethodEuler, MethodRK2, MethodRK4} {
		s, _ := New(m)
		x := []float64{0.25, -3, 1e6, 0}
		orig := append([]float64(nil), x...)
		s.Step(oscillatorPairs, x, 0)
		for i := range x {
			if x[i] != orig[i] {
				t.Errorf("%s: x[%d] changed with dt=0: %v -> %v", m, i, orig[i], x[i])
			}
		}
	}
}

// oscillatorPairs applies the oscillator to consecutive (x, v) pairs.
func oscillatorPairs(dst, x []float64) {
	for i := 0; i+1 < len(x); i += 2 {
		oscillator(dst[i:i+2], x[i:i+2])
	}
}

func TestDeterministic(t *testing.T) {
	run := func() []float64 {
		s, _ := New(MethodRK4)
		x := []float64{0.3, 0.7, -1.1, 2.5}
		for i := 0; i < 100; i++ {
			s.Step(oscillatorPairs, x, 0.05)
		}
		return x
	}

	a, b := run(), run()
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			t.Fatalf("run differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestScratchReuse(t *testing.T) {
	s := &RK4{}
	s.Step(decay, make([]float64, 8), 0.1)
	first := &s.k1[0]
	s.Step(decay, make([]float64, 4), 0.1)
	if &s.k1[0] != first {
		t.Error("expected scratch buffer to be reused for a smaller state")
	}
	if len(s.k1) != 4 {
		t.Errorf("expected scratch length 4, got %d", len(s.k1))
	}
}

func TestUnknownMethod(t *testing.T) {
	_, err := New("leapfrog")
	if !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}

	s, err := New("")
	if err != nil || s.Name() != string(DefaultMethod) {
		t.Errorf("empty method should default to %s, got %v, %v", DefaultMethod, s, err)
	}
}
