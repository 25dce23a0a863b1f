package shell

// GPUBuffers are flat, non-indexed vertex attributes: three corners per
// face, in face order. Texcoords already include repeats and offset; the
// sampler is expected to wrap with mirrored repeat.
type GPUBuffers struct {
	Positions []float32 // xyz
	Normals   []float32 // xyz
	Texcoords []float32 // uv
}

// VertexCount is the number of corners in the buffers.
func (b GPUBuffers) VertexCount() int { return len(b.Positions) / 3 }

// Buffers expands the mesh for upload, applying
// u' = u*RepeatsLongitudinal and v' = v*RepeatsTangential + TangentialOffset.
func (m *Mesh) Buffers(tex TextureParams) GPUBuffers {
	corners := len(m.Faces) * 3
	b := GPUBuffers{
		Positions: make([]float32, 0, corners*3),
		Normals:   make([]float32, 0, corners*3),
		Texcoords: make([]float32, 0, corners*2),
	}

	su := tex.RepeatsLongitudinal
	sv := float64(tex.RepeatsTangential)
	for i, f := range m.Faces {
		uv := m.UVs[i]
		for c, idx := range f {
			v := m.Vertices[idx]
			b.Positions = append(b.Positions,
				float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z))
			b.Normals = append(b.Normals,
				float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z))
			b.Texcoords = append(b.Texcoords,
				float32(uv[c].U*su), float32(uv[c].V*sv+tex.TangentialOffset))
		}
	}
	return b
}
