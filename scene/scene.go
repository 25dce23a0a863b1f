// Package scene keeps the entities around the shell (the shell itself,
// lights and axis helpers) in an ECS world.
package scene

import (
	"image/color"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/snail/components"
	"github.com/pthm-cable/snail/config"
)

// Light is a directional light ready for shader upload.
type Light struct {
	Direction [3]float32 // unit, pointing from the light towards the origin
	Color     [3]float32 // linear, premultiplied by intensity
}

// Lighting collects all lights in the scene.
type Lighting struct {
	Ambient     [3]float32
	Directional []Light
}

// AxisLine is an axis helper in drawable form.
type AxisLine struct {
	End    [3]float32
	Radius float32
	Color  color.RGBA
}

// World owns the scene entities.
type World struct {
	world *ecs.World

	shellMapper *ecs.Map3[components.Position, components.ShellMesh, components.Label]
	lightMapper *ecs.Map3[components.Position, components.DirectionalLight, components.Tint]
	ambMapper   *ecs.Map2[components.AmbientLight, components.Tint]
	axisMapper  *ecs.Map3[components.Axis, components.Tint, components.Label]

	lightFilter *ecs.Filter3[components.Position, components.DirectionalLight, components.Tint]
	ambFilter   *ecs.Filter2[components.AmbientLight, components.Tint]
	axisFilter  *ecs.Filter2[components.Axis, components.Tint]

	shellMap *ecs.Map1[components.ShellMesh]
	shell    ecs.Entity
}

// New builds the scene described by cfg: one shell at the origin, an ambient
// light, the configured directional lights and the X, Y and Z axes.
func New(cfg config.SceneConfig) *World {
	world := ecs.NewWorld()

	w := &World{
		world:       world,
		shellMapper: ecs.NewMap3[components.Position, components.ShellMesh, components.Label](world),
		lightMapper: ecs.NewMap3[components.Position, components.DirectionalLight, components.Tint](world),
		ambMapper:   ecs.NewMap2[components.AmbientLight, components.Tint](world),
		axisMapper:  ecs.NewMap3[components.Axis, components.Tint, components.Label](world),
		lightFilter: ecs.NewFilter3[components.Position, components.DirectionalLight, components.Tint](world),
		ambFilter:   ecs.NewFilter2[components.AmbientLight, components.Tint](world),
		axisFilter:  ecs.NewFilter2[components.Axis, components.Tint](world),
		shellMap:    ecs.NewMap1[components.ShellMesh](world),
	}

	w.shell = w.shellMapper.NewEntity(
		&components.Position{},
		&components.ShellMesh{Visible: true},
		&components.Label{Name: "shell"},
	)

	w.ambMapper.NewEntity(
		&components.AmbientLight{Intensity: 1},
		&components.Tint{Color: rgba(cfg.Ambient)},
	)
	for _, l := range cfg.Lights {
		w.lightMapper.NewEntity(
			&components.Position{X: float32(l.Position[0]), Y: float32(l.Position[1]), Z: float32(l.Position[2])},
			&components.DirectionalLight{Intensity: float32(l.Intensity)},
			&components.Tint{Color: rgba(l.Color)},
		)
	}

	length := float32(cfg.AxesLength)
	axes := []struct {
		name string
		dir  [3]float32
		tint color.RGBA
	}{
		// X red, Z green, Y blue
		{"x", [3]float32{1, 0, 0}, color.RGBA{R: 255, A: 255}},
		{"y", [3]float32{0, 1, 0}, color.RGBA{B: 255, A: 255}},
		{"z", [3]float32{0, 0, 1}, color.RGBA{G: 255, A: 255}},
	}
	for _, a := range axes {
		w.axisMapper.NewEntity(
			&components.Axis{Direction: a.dir, Length: length, Radius: length * 0.002, Visible: cfg.ShowAxes},
			&components.Tint{Color: a.tint},
			&components.Label{Name: a.name},
		)
	}
	return w
}

func rgba(c [3]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

// UpdateShell records a new mesh build on the shell entity.
func (w *World) UpdateShell(revision, vertices, triangles int, textureName string) {
	s := w.shellMap.Get(w.shell)
	s.Revision = revision
	s.Vertices = vertices
	s.Triangles = triangles
	s.Texture = textureName
}

// Shell returns the shell component.
func (w *World) Shell() components.ShellMesh {
	return *w.shellMap.Get(w.shell)
}

// Lighting gathers every light into shader-ready form.
func (w *World) Lighting() Lighting {
	var out Lighting

	aq := w.ambFilter.Query()
	for aq.Next() {
		amb, tint := aq.Get()
		c := linear(tint.Color, amb.Intensity)
		for i := range out.Ambient {
			out.Ambient[i] += c[i]
		}
	}

	lq := w.lightFilter.Query()
	for lq.Next() {
		pos, light, tint := lq.Get()
		n := float32(math.Sqrt(float64(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)))
		if n == 0 {
			continue
		}
		out.Directional = append(out.Directional, Light{
			Direction: [3]float32{-pos.X / n, -pos.Y / n, -pos.Z / n},
			Color:     linear(tint.Color, light.Intensity),
		})
	}
	return out
}

func linear(c color.RGBA, intensity float32) [3]float32 {
	return [3]float32{
		float32(c.R) / 255 * intensity,
		float32(c.G) / 255 * intensity,
		float32(c.B) / 255 * intensity,
	}
}

// Axes returns the visible axis helpers.
func (w *World) Axes() []AxisLine {
	var out []AxisLine
	q := w.axisFilter.Query()
	for q.Next() {
		axis, tint := q.Get()
		if !axis.Visible {
			continue
		}
		out = append(out, AxisLine{
			End: [3]float32{
				axis.Direction[0] * axis.Length,
				axis.Direction[1] * axis.Length,
				axis.Direction[2] * axis.Length,
			},
			Radius: axis.Radius,
			Color:  tint.Color,
		})
	}
	return out
}

// ToggleAxes flips axis visibility and returns the new state.
func (w *World) ToggleAxes() bool {
	visible := false
	q := w.axisFilter.Query()
	for q.Next() {
		axis, _ := q.Get()
		axis.Visible = !axis.Visible
		visible = axis.Visible
	}
	return visible
}
