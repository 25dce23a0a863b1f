package shell

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vertex is a surface point with its shading normal.
type Vertex struct {
	Position r3.Vec
	Normal   r3.Vec
}

// Face holds three vertex indices, counter-clockwise seen from outside.
type Face [3]int

// UV is a texture coordinate before repeats and offset are applied.
type UV struct {
	U, V float64
}

// FaceUV holds the coordinates of a face's three corners.
type FaceUV [3]UV

// Mesh is the triangulated shell. Faces and UVs are parallel slices.
type Mesh struct {
	Vertices      []Vertex
	Faces         []Face
	UVs           []FaceUV
	Centers       []r3.Vec  // one per ring
	Radii         []float64 // one per ring
	Rings         int
	PointsPerRing int
}

// Build computes the shell for geo. All arrays are sized up front; the
// result depends only on geo.
func Build(geo Geometry) (*Mesh, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}

	n := geo.NumRingsPer2Pi
	np := geo.NumPointsPerRing
	rings := geo.NumRings()

	m := &Mesh{
		Vertices:      make([]Vertex, rings*np),
		Faces:         make([]Face, 0, 2*np*(rings-1)),
		UVs:           make([]FaceUV, 0, 2*np*(rings-1)),
		Centers:       make([]r3.Vec, rings),
		Radii:         make([]float64, rings),
		Rings:         rings,
		PointsPerRing: np,
	}
	m.placeRings(geo)
	m.stitch(n)
	return m, nil
}

// placeRings lays out ring centres along the spiral and the vertices of each
// ring on a circle in the plane spanned by the radial direction and Y.
func (m *Mesh) placeRings(geo Geometry) {
	n := geo.NumRingsPer2Pi
	np := geo.NumPointsPerRing

	f2pi := 1 - geo.RadDecayPer2Pi
	df := math.Pow(f2pi, 1/float64(n))
	var risePer2Pi float64
	for i := 0; i < n; i++ {
		risePer2Pi += math.Pow(f2pi, float64(i)/float64(n-1))
	}
	dh := 2 * math.Sqrt(f2pi) / risePer2Pi

	up := r3.Vec{Y: 1}
	rad := geo.Rad0
	height := 0.0
	for r := 0; r < m.Rings; r++ {
		rad *= df
		height += dh * rad
		angle := 2 * math.Pi / float64(n) * float64(r)
		cosA, sinA := math.Cos(angle), math.Sin(angle)

		center := r3.Vec{X: rad * cosA, Y: height, Z: rad * sinA}
		radial := r3.Vec{X: cosA, Z: sinA}
		m.Centers[r] = center
		m.Radii[r] = rad

		for p := 0; p < np; p++ {
			t := 2 * math.Pi / float64(np) * float64(p)
			offset := r3.Add(r3.Scale(rad*math.Cos(t), radial), r3.Scale(rad*math.Sin(t), up))
			pos := r3.Add(center, offset)
			m.Vertices[r*np+p] = Vertex{
				Position: pos,
				Normal:   r3.Unit(r3.Sub(pos, center)),
			}
		}
	}
}

// stitch emits two triangles per point between consecutive rings, closing
// each ring by wrapping its last point to its first.
func (m *Mesh) stitch(ringsPer2Pi int) {
	np := m.PointsPerRing
	hu := 1 / float64(ringsPer2Pi)
	hv := 1 / float64(np)

	for r := 0; r < m.Rings-1; r++ {
		u0, u1 := float64(r)*hu, float64(r+1)*hu
		for p := 0; p < np; p++ {
			v := r*np + p
			v0, v1 := float64(p)*hv, float64(p+1)*hv

			if p < np-1 {
				m.Faces = append(m.Faces,
					Face{v, v + np, v + np + 1},
					Face{v, v + np + 1, v + 1})
			} else {
				m.Faces = append(m.Faces,
					Face{v, v + np, v + 1},
					Face{v, v + 1, v + 1 - np})
			}
			m.UVs = append(m.UVs,
				FaceUV{{u0, v0}, {u1, v0}, {u1, v1}},
				FaceUV{{u0, v0}, {u1, v1}, {u0, v1}})
		}
	}
}

// Bounds returns the axis-aligned box around all vertices.
func (m *Mesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}
	b := r3.Box{Min: m.Vertices[0].Position, Max: m.Vertices[0].Position}
	for _, v := range m.Vertices[1:] {
		p := v.Position
		b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	}
	return b
}
