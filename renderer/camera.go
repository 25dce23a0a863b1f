package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/snail/camera"
)

// Camera3D converts an orbit camera to raylib's perspective camera.
func Camera3D(o *camera.Orbit) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(o.Position()),
		Target:     vec3(o.Target),
		Up:         vec3(o.Up()),
		Fovy:       float32(o.Fovy),
		Projection: rl.CameraPerspective,
	}
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}
