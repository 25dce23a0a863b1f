// Package integrator provides fixed-step explicit ODE steppers that advance a
// flattened state vector in place.
package integrator

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrUnknownMethod is returned by New for an unrecognised method name.
var ErrUnknownMethod = errors.New("integrator: unknown method")

// Derivative writes dx/dt evaluated at x into dst.
// dst and x always have the same length. Any parameters the system needs
// are captured by the closure; there is no explicit time dependence.
type Derivative func(dst, x []float64)

// Stepper advances x by one step of size dt using f.
type Stepper interface {
	Step(f Derivative, x []float64, dt float64)
	Name() string
}

// Method names a stepping policy.
type Method string

const (
	MethodEuler Method = "euler"
	MethodRK2   Method = "rk2"
	MethodRK4   Method = "rk4"
)

// DefaultMethod is used when no method is configured.
const DefaultMethod = MethodRK4

// New returns a fresh stepper for the given method.
func New(m Method) (Stepper, error) {
	switch m {
	case MethodEuler:
		return &Euler{}, nil
	case MethodRK2:
		return &RK2{}, nil
	case MethodRK4, "":
		return &RK4{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, m)
	}
}

// Euler is the forward Euler (RK1) method.
type Euler struct {
	k1 []float64
}

// Name implements Stepper.
func (e *Euler) Name() string { return string(MethodEuler) }

// Step implements Stepper.
func (e *Euler) Step(f Derivative, x []float64, dt float64) {
	e.k1 = resize(e.k1, len(x))
	f(e.k1, x)
	floats.AddScaled(x, dt, e.k1)
}

// RK2 is the explicit midpoint method.
type RK2 struct {
	k1, k2, mid []float64
}

// Name implements Stepper.
func (r *RK2) Name() string { return string(MethodRK2) }

// Step implements Stepper.
func (r *RK2) Step(f Derivative, x []float64, dt float64) {
	n := len(x)
	r.k1 = resize(r.k1, n)
	r.k2 = resize(r.k2, n)
	r.mid = resize(r.mid, n)

	f(r.k1, x)
	floats.AddScaledTo(r.mid, x, 0.5*dt, r.k1)
	f(r.k2, r.mid)
	floats.AddScaled(x, dt, r.k2)
}

// RK4 is the classic four-stage Runge-Kutta method.
type RK4 struct {
	k1, k2, k3, k4, tmp []float64
}

// Name implements Stepper.
func (r *RK4) Name() string { return string(MethodRK4) }

// Step implements Stepper.
func (r *RK4) Step(f Derivative, x []float64, dt float64) {
	n := len(x)
	r.k1 = resize(r.k1, n)
	r.k2 = resize(r.k2, n)
	r.k3 = resize(r.k3, n)
	r.k4 = resize(r.k4, n)
	r.tmp = resize(r.tmp, n)

	f(r.k1, x)

	floats.AddScaledTo(r.tmp, x, 0.5*dt, r.k1)
	f(r.k2, r.tmp)

	floats.AddScaledTo(r.tmp, x, 0.5*dt, r.k2)
	f(r.k3, r.tmp)

	floats.AddScaledTo(r.tmp, x, dt, r.k3)
	f(r.k4, r.tmp)

	// x += dt/6 * (k1 + 2k2 + 2k3 + k4)
	floats.AddScaled(x, dt/6, r.k1)
	floats.AddScaled(x, dt/3, r.k2)
	floats.AddScaled(x, dt/3, r.k3)
	floats.AddScaled(x, dt/6, r.k4)
}

// resize returns buf with length n, reusing its backing array when possible.
func resize(buf []float64, n int) []float64 {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}
