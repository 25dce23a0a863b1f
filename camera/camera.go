// Package camera provides an orbit camera for viewing the shell.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MaxPitch keeps the camera just short of the poles so the up vector
// stays well defined.
const MaxPitch = 89 * math.Pi / 180

// Orbit circles a target point at a given distance.
// Yaw is measured in the XZ plane from +X towards +Z; pitch lifts the
// camera above that plane.
type Orbit struct {
	Target   r3.Vec
	Yaw      float64
	Pitch    float64
	Distance float64

	// Vertical field of view in degrees
	Fovy float64

	// Distance constraints
	MinDistance, MaxDistance float64

	home pose
}

// pose is the state restored by Reset.
type pose struct {
	target               r3.Vec
	yaw, pitch, distance float64
}

// New creates an orbit camera at position looking at target.
func New(position, target r3.Vec, fovy float64) *Orbit {
	o := &Orbit{
		Target:      target,
		Fovy:        fovy,
		MinDistance: 0.5,
		MaxDistance: 100,
	}
	off := r3.Sub(position, target)
	o.Distance = r3.Norm(off)
	if o.Distance > 0 {
		o.Pitch = math.Asin(clamp(off.Y/o.Distance, -1, 1))
		o.Yaw = math.Atan2(off.Z, off.X)
	}
	o.Pitch = clamp(o.Pitch, -MaxPitch, MaxPitch)
	o.Distance = clamp(o.Distance, o.MinDistance, o.MaxDistance)
	o.home = pose{target: o.Target, yaw: o.Yaw, pitch: o.Pitch, distance: o.Distance}
	return o
}

// Position returns the eye position in world coordinates.
func (o *Orbit) Position() r3.Vec {
	return r3.Add(o.Target, r3.Scale(o.Distance, o.offsetDir()))
}

// Forward returns the unit view direction, from eye to target.
func (o *Orbit) Forward() r3.Vec {
	return r3.Scale(-1, o.offsetDir())
}

// Right returns the unit vector pointing to the right of the view.
func (o *Orbit) Right() r3.Vec {
	return r3.Unit(r3.Cross(o.Forward(), r3.Vec{Y: 1}))
}

// Up returns the unit camera up vector, orthogonal to Forward and Right.
func (o *Orbit) Up() r3.Vec {
	return r3.Cross(o.Right(), o.Forward())
}

func (o *Orbit) offsetDir() r3.Vec {
	cp := math.Cos(o.Pitch)
	return r3.Vec{
		X: cp * math.Cos(o.Yaw),
		Y: math.Sin(o.Pitch),
		Z: cp * math.Sin(o.Yaw),
	}
}

// Rotate orbits by the given yaw and pitch deltas in radians.
func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.Yaw = math.Remainder(o.Yaw+dYaw, 2*math.Pi)
	o.Pitch = clamp(o.Pitch+dPitch, -MaxPitch, MaxPitch)
}

// Pan moves the target in the view plane. dx and dy are fractions of the
// current distance; positive dx moves right, positive dy moves up.
func (o *Orbit) Pan(dx, dy float64) {
	move := r3.Add(r3.Scale(dx*o.Distance, o.Right()), r3.Scale(dy*o.Distance, o.Up()))
	o.Target = r3.Add(o.Target, move)
}

// SetDistance sets the distance, clamped to min/max.
func (o *Orbit) SetDistance(d float64) {
	o.Distance = clamp(d, o.MinDistance, o.MaxDistance)
}

// ZoomBy multiplies the current distance by factor. Factors below one move
// the camera closer.
func (o *Orbit) ZoomBy(factor float64) {
	o.SetDistance(o.Distance * factor)
}

// Reset returns the camera to the pose it was created with.
func (o *Orbit) Reset() {
	o.Target = o.home.target
	o.Yaw = o.home.yaw
	o.Pitch = o.home.pitch
	o.Distance = o.home.distance
}

// Frame points the camera at the centre of box and backs off far enough
// for the whole box to fit the vertical field of view.
func (o *Orbit) Frame(box r3.Box) {
	o.Target = r3.Scale(0.5, r3.Add(box.Min, box.Max))
	radius := 0.5 * r3.Norm(r3.Sub(box.Max, box.Min))
	half := o.Fovy * math.Pi / 360
	if half <= 0 || radius == 0 {
		return
	}
	o.SetDistance(radius / math.Sin(half))
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
