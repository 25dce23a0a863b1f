package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/snail/scene"
)

// DrawAxes draws axis helpers as thin cylinders from the origin. Must be
// called inside BeginMode3D.
func DrawAxes(axes []scene.AxisLine) {
	origin := rl.Vector3{}
	for _, a := range axes {
		end := rl.NewVector3(a.End[0], a.End[1], a.End[2])
		c := rl.Color{R: a.Color.R, G: a.Color.G, B: a.Color.B, A: a.Color.A}
		rl.DrawCylinderEx(origin, end, a.Radius, a.Radius, 8, c)
	}
}
