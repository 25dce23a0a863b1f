// Package components defines ECS components for the scene.
package components

import "image/color"

// Position represents an entity's world position.
type Position struct {
	X, Y, Z float32
}

// Tint is the color an entity emits or is drawn with.
type Tint struct {
	Color color.RGBA
}

// Label names an entity for the HUD and logs.
type Label struct {
	Name string
}

// ShellMesh marks the shell entity and records which mesh build it shows.
type ShellMesh struct {
	Revision  int
	Vertices  int
	Triangles int
	Texture   string
	Visible   bool
}

// DirectionalLight shines from its Position towards the origin.
type DirectionalLight struct {
	Intensity float32
}

// AmbientLight lights every surface uniformly.
type AmbientLight struct {
	Intensity float32
}

// Axis is a helper line from the origin along Direction.
type Axis struct {
	Direction [3]float32 // unit
	Length    float32
	Radius    float32
	Visible   bool
}
