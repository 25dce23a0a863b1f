package shell

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestDefaultCounts(t *testing.T) {
	geo := DefaultGeometry()
	if got := geo.NumRings(); got != 81 {
		t.Fatalf("NumRings() = %d, want 81", got)
	}

	m, err := Build(geo)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 1296 {
		t.Errorf("vertices = %d, want 1296", len(m.Vertices))
	}
	// 2 * 16 * (81-1)
	if len(m.Faces) != 2560 {
		t.Errorf("faces = %d, want 2560", len(m.Faces))
	}
	if len(m.UVs) != len(m.Faces) {
		t.Errorf("uvs = %d, faces = %d", len(m.UVs), len(m.Faces))
	}
	if len(m.Centers) != 81 || len(m.Radii) != 81 {
		t.Errorf("ring arrays: centers=%d radii=%d", len(m.Centers), len(m.Radii))
	}
}

func TestCountsFormula(t *testing.T) {
	tests := []Geometry{
		{NumTurns: 1, NumRingsPer2Pi: 2, NumPointsPerRing: 3, Rad0: 1, RadDecayPer2Pi: 0.5},
		{NumTurns: 2.3, NumRingsPer2Pi: 7, NumPointsPerRing: 5, Rad0: 0.5, RadDecayPer2Pi: 0.1},
		{NumTurns: 0.1, NumRingsPer2Pi: 32, NumPointsPerRing: 24, Rad0: 2, RadDecayPer2Pi: 0.9},
		{NumTurns: 0.3, NumRingsPer2Pi: 4, NumPointsPerRing: 4, Rad0: 1, RadDecayPer2Pi: 0.3},
	}
	for _, geo := range tests {
		m, err := Build(geo)
		if err != nil {
			t.Fatalf("%+v: %v", geo, err)
		}
		rings := geo.NumRings()
		np := geo.NumPointsPerRing
		if len(m.Vertices) != rings*np {
			t.Errorf("%+v: vertices = %d, want %d", geo, len(m.Vertices), rings*np)
		}
		if len(m.Faces) != 2*np*(rings-1) {
			t.Errorf("%+v: faces = %d, want %d", geo, len(m.Faces), 2*np*(rings-1))
		}
		for i, f := range m.Faces {
			for _, idx := range f {
				if idx < 0 || idx >= len(m.Vertices) {
					t.Fatalf("%+v: face %d index %d out of range", geo, i, idx)
				}
			}
		}
	}
}

func TestFaceIndices(t *testing.T) {
	m, err := Build(DefaultGeometry())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		i    int
		want Face
	}{
		{0, Face{0, 16, 17}},
		{1, Face{0, 17, 1}},
		{30, Face{15, 31, 16}},
		{31, Face{15, 16, 0}},
		{32, Face{16, 32, 33}},
	}
	for _, tt := range tests {
		if m.Faces[tt.i] != tt.want {
			t.Errorf("face %d = %v, want %v", tt.i, m.Faces[tt.i], tt.want)
		}
	}
}

func TestFaceUVs(t *testing.T) {
	m, err := Build(DefaultGeometry())
	if err != nil {
		t.Fatal(err)
	}
	hu, hv := 1.0/16, 1.0/16

	// ring 1, point 2
	i := 2 * (1*16 + 2)
	want1 := FaceUV{{hu, 2 * hv}, {2 * hu, 2 * hv}, {2 * hu, 3 * hv}}
	want2 := FaceUV{{hu, 2 * hv}, {2 * hu, 3 * hv}, {hu, 3 * hv}}
	if m.UVs[i] != want1 {
		t.Errorf("first triangle uv = %v, want %v", m.UVs[i], want1)
	}
	if m.UVs[i+1] != want2 {
		t.Errorf("second triangle uv = %v, want %v", m.UVs[i+1], want2)
	}

	// the seam closes at v = 1
	last := m.UVs[31]
	if last[1].V != 1 {
		t.Errorf("wrap triangle reaches v = %v, want 1", last[1].V)
	}
}

func TestDeterministic(t *testing.T) {
	geo := Geometry{NumTurns: 3.7, NumRingsPer2Pi: 13, NumPointsPerRing: 9, Rad0: 1.3, RadDecayPer2Pi: 0.42}
	a, err := Build(geo)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(geo)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Vertices {
		if a.Vertices[i] != b.Vertices[i] {
			t.Fatalf("vertex %d differs", i)
		}
	}
	for i := range a.UVs {
		if a.UVs[i] != b.UVs[i] {
			t.Fatalf("uv %d differs", i)
		}
	}

	tex := DefaultTexture()
	ba, bb := a.Buffers(tex), b.Buffers(tex)
	for i := range ba.Texcoords {
		if math.Float32bits(ba.Texcoords[i]) != math.Float32bits(bb.Texcoords[i]) {
			t.Fatalf("texcoord %d differs", i)
		}
	}
}

func TestNormalsPointAwayFromRingCenter(t *testing.T) {
	m, err := Build(DefaultGeometry())
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range m.Vertices {
		if n := r3.Norm(v.Normal); math.Abs(n-1) > 1e-12 {
			t.Fatalf("vertex %d normal has length %v", i, n)
		}
		ring := i / m.PointsPerRing
		d := r3.Sub(v.Position, m.Centers[ring])
		if math.Abs(r3.Norm(d)-m.Radii[ring]) > 1e-12 {
			t.Fatalf("vertex %d is %v from its centre, radius %v", i, r3.Norm(d), m.Radii[ring])
		}
		if r3.Dot(d, v.Normal) <= 0 {
			t.Fatalf("vertex %d normal points inward", i)
		}
	}
}

func TestSpiralShape(t *testing.T) {
	geo := DefaultGeometry()
	m, err := Build(geo)
	if err != nil {
		t.Fatal(err)
	}

	// Radius shrinks by exactly 1-decay over one turn.
	n := geo.NumRingsPer2Pi
	ratio := m.Radii[n] / m.Radii[0]
	if math.Abs(ratio-(1-geo.RadDecayPer2Pi)) > 1e-12 {
		t.Errorf("radius ratio over a turn = %v, want %v", ratio, 1-geo.RadDecayPer2Pi)
	}
	for r := 1; r < m.Rings; r++ {
		if m.Centers[r].Y <= m.Centers[r-1].Y {
			t.Fatalf("ring %d does not rise above ring %d", r, r-1)
		}
	}

	// First ring sits on the +X axis.
	if c := m.Centers[0]; math.Abs(c.Z) > 1e-15 || c.X <= 0 {
		t.Errorf("first centre = %v", c)
	}
}

func TestValidateGeometry(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Geometry)
	}{
		{"one ring per turn", func(g *Geometry) { g.NumRingsPer2Pi = 1 }},
		{"two points", func(g *Geometry) { g.NumPointsPerRing = 2 }},
		{"zero turns", func(g *Geometry) { g.NumTurns = 0 }},
		{"nan turns", func(g *Geometry) { g.NumTurns = math.NaN() }},
		{"single ring", func(g *Geometry) { g.NumTurns = 0.01 }},
		{"rounds to one ring", func(g *Geometry) { g.NumRingsPer2Pi = 4; g.NumTurns = 0.1 }},
		{"negative radius", func(g *Geometry) { g.Rad0 = -1 }},
		{"infinite radius", func(g *Geometry) { g.Rad0 = math.Inf(1) }},
		{"no decay", func(g *Geometry) { g.RadDecayPer2Pi = 0 }},
		{"full decay", func(g *Geometry) { g.RadDecayPer2Pi = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := DefaultGeometry()
			tt.modify(&geo)
			m, err := Build(geo)
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
			if m != nil {
				t.Error("invalid geometry produced a mesh")
			}
		})
	}
}

func TestValidateTexture(t *testing.T) {
	if err := DefaultTexture().Validate(); err != nil {
		t.Fatalf("default texture invalid: %v", err)
	}
	tests := []struct {
		name   string
		modify func(*TextureParams)
	}{
		{"zero long repeats", func(p *TextureParams) { p.RepeatsLongitudinal = 0 }},
		{"odd tang repeats", func(p *TextureParams) { p.RepeatsTangential = 3 }},
		{"zero tang repeats", func(p *TextureParams) { p.RepeatsTangential = 0 }},
		{"negative offset", func(p *TextureParams) { p.TangentialOffset = -0.1 }},
		{"large offset", func(p *TextureParams) { p.TangentialOffset = 2.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultTexture()
			tt.modify(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidTexture) {
				t.Errorf("expected ErrInvalidTexture, got %v", err)
			}
		})
	}
}

func TestBuffers(t *testing.T) {
	geo := Geometry{NumTurns: 1, NumRingsPer2Pi: 4, NumPointsPerRing: 3, Rad0: 1, RadDecayPer2Pi: 0.2}
	m, err := Build(geo)
	if err != nil {
		t.Fatal(err)
	}
	tex := TextureParams{RepeatsLongitudinal: 3, RepeatsTangential: 4, TangentialOffset: 0.5}
	b := m.Buffers(tex)

	if b.VertexCount() != len(m.Faces)*3 {
		t.Fatalf("corners = %d, want %d", b.VertexCount(), len(m.Faces)*3)
	}
	if len(b.Normals) != len(b.Positions) || len(b.Texcoords) != b.VertexCount()*2 {
		t.Fatalf("attribute lengths disagree: pos=%d nrm=%d uv=%d", len(b.Positions), len(b.Normals), len(b.Texcoords))
	}

	// face 0 corner 1 is vertex NumPointsPerRing with uv (hu, 0)
	p := m.Vertices[m.Faces[0][1]].Position
	if b.Positions[3] != float32(p.X) || b.Positions[4] != float32(p.Y) || b.Positions[5] != float32(p.Z) {
		t.Errorf("corner position mismatch")
	}
	wantU := float32(0.25 * 3)
	wantV := float32(0*4 + 0.5)
	if b.Texcoords[2] != wantU || b.Texcoords[3] != wantV {
		t.Errorf("corner uv = (%v, %v), want (%v, %v)", b.Texcoords[2], b.Texcoords[3], wantU, wantV)
	}
}

func TestBounds(t *testing.T) {
	m, err := Build(DefaultGeometry())
	if err != nil {
		t.Fatal(err)
	}
	box := m.Bounds()
	for _, v := range m.Vertices {
		p := v.Position
		if p.X < box.Min.X || p.Y < box.Min.Y || p.Z < box.Min.Z ||
			p.X > box.Max.X || p.Y > box.Max.Y || p.Z > box.Max.Z {
			t.Fatalf("vertex %v outside %v", p, box)
		}
	}
}
