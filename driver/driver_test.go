package driver

import (
	"errors"
	"image/color"
	"testing"

	"github.com/pthm-cable/snail/field"
	"github.com/pthm-cable/snail/shell"
	"github.com/pthm-cable/snail/texture"
)

type fakeStatics struct {
	requested []string
}

func (f *fakeStatics) Get(name string) *texture.Buffer {
	f.requested = append(f.requested, name)
	return texture.Checker(4, 4, 2, color.RGBA{A: 255}, color.RGBA{R: 255, G: 255, B: 255, A: 255})
}

type recordingTimer struct {
	phases []string
}

func (r *recordingTimer) StartPhase(phase string) { r.phases = append(r.phases, phase) }

func smallParams() field.Params {
	p := field.DefaultParams()
	p.Height, p.Width = 8, 8
	p.SeedProbability = 0.1
	return p
}

func controls(name string) Controls {
	tex := shell.DefaultTexture()
	tex.Name = name
	return Controls{
		Geometry: shell.DefaultGeometry(),
		Texture:  tex,
		F:        0.014,
		K:        0.045,
	}
}

func newDriver(t *testing.T, opts ...Option) (*Driver, *fakeStatics) {
	t.Helper()
	statics := &fakeStatics{}
	opts = append([]Option{WithFieldOptions(field.WithSeed(5))}, opts...)
	d, err := New(smallParams(), texture.DefaultSigmoid(), statics, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return d, statics
}

func TestFirstFrameBuildsMesh(t *testing.T) {
	d, statics := newDriver(t)
	res, err := d.Frame(0, controls("angelfish-1"))
	if err != nil {
		t.Fatal(err)
	}
	if !res.MeshChanged || !res.TextureChanged || !res.TextureSelected || res.Stepped {
		t.Errorf("first frame result = %+v", res)
	}
	if d.Mesh() == nil || len(d.Mesh().Vertices) != 1296 {
		t.Fatal("mesh not built with default geometry")
	}
	if d.Buffers().VertexCount() != 3*len(d.Mesh().Faces) {
		t.Errorf("buffers hold %d vertices, want %d", d.Buffers().VertexCount(), 3*len(d.Mesh().Faces))
	}
	if d.MeshRevision() != 1 {
		t.Errorf("revision = %d, want 1", d.MeshRevision())
	}
	if len(statics.requested) != 1 || statics.requested[0] != "angelfish-1" {
		t.Errorf("static lookups = %v", statics.requested)
	}
	if d.Simulation() != nil {
		t.Error("static texture should not start the simulation")
	}

	// Nothing changes on an identical frame.
	res, err = d.Frame(1, controls("angelfish-1"))
	if err != nil {
		t.Fatal(err)
	}
	if res != (Result{}) {
		t.Errorf("idle frame result = %+v", res)
	}
	if len(statics.requested) != 1 {
		t.Error("static texture reloaded on idle frame")
	}
}

func TestStepCadence(t *testing.T) {
	d, _ := newDriver(t)
	c := controls(texture.Dynamic)

	if _, err := d.Frame(0, c); err != nil {
		t.Fatal(err)
	}
	if d.Simulation() == nil {
		t.Fatal("dynamic texture did not start the simulation")
	}

	tests := []struct {
		name    string
		elapsed float64
		stepped bool
		steps   int
	}{
		{"under interval", StepInterval / 2, false, 0},
		{"accumulates past interval", StepInterval, true, 1},
		{"reset after step", StepInterval / 2, false, 1},
		{"long stall steps once", 10, true, 2},
		{"backlog dropped", StepInterval / 2, false, 2},
	}
	for _, tt := range tests {
		res, err := d.Frame(tt.elapsed, c)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if res.Stepped != tt.stepped {
			t.Errorf("%s: stepped = %v, want %v", tt.name, res.Stepped, tt.stepped)
		}
		if res.Stepped && !res.TextureChanged {
			t.Errorf("%s: step did not mark the texture changed", tt.name)
		}
		if got := d.Simulation().Steps(); got != tt.steps {
			t.Errorf("%s: steps = %d, want %d", tt.name, got, tt.steps)
		}
	}
}

func TestStaticTextureNeverSteps(t *testing.T) {
	d, _ := newDriver(t)
	c := controls("pred-prey-1")
	for i := 0; i < 5; i++ {
		res, err := d.Frame(1, c)
		if err != nil {
			t.Fatal(err)
		}
		if res.Stepped {
			t.Fatal("static texture stepped the field")
		}
	}
}

func TestDynamicSwitchReseeds(t *testing.T) {
	d, _ := newDriver(t)
	dyn := controls(texture.Dynamic)

	if _, err := d.Frame(0, dyn); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Frame(1, dyn); err != nil {
		t.Fatal(err)
	}
	if d.Simulation().Steps() != 1 {
		t.Fatalf("steps = %d, want 1", d.Simulation().Steps())
	}

	res, err := d.Frame(0, controls("angelfish-2"))
	if err != nil {
		t.Fatal(err)
	}
	if !res.TextureChanged || d.TextureName() != "angelfish-2" {
		t.Errorf("switch to static: %+v name=%q", res, d.TextureName())
	}

	if _, err := d.Frame(0, dyn); err != nil {
		t.Fatal(err)
	}
	if d.Simulation().Steps() != 0 {
		t.Errorf("returning to dynamic did not reseed: steps = %d", d.Simulation().Steps())
	}
	if d.Texture() == nil || d.Texture().Width != 8 || d.Texture().Channels != field.NumChannels {
		t.Errorf("dynamic texture shape wrong: %+v", d.Texture())
	}
}

func TestRatesFollowControls(t *testing.T) {
	d, _ := newDriver(t)
	c := controls(texture.Dynamic)
	c.F, c.K = 0.03, 0.06
	if _, err := d.Frame(0, c); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Frame(1, c); err != nil {
		t.Fatal(err)
	}
	if p := d.Simulation().Params(); p.F != 0.03 || p.K != 0.06 {
		t.Errorf("rates = (%v, %v), want (0.03, 0.06)", p.F, p.K)
	}
}

func TestGeometryChangeRebuilds(t *testing.T) {
	d, _ := newDriver(t)
	c := controls("angelfish-1")
	if _, err := d.Frame(0, c); err != nil {
		t.Fatal(err)
	}

	c.Geometry.NumTurns = 2
	res, err := d.Frame(0, c)
	if err != nil {
		t.Fatal(err)
	}
	if !res.MeshChanged {
		t.Fatal("geometry change did not rebuild")
	}
	if got := len(d.Mesh().Vertices); got != 33*16 {
		t.Errorf("vertices = %d, want %d", got, 33*16)
	}

	c.Texture.TangentialOffset = 0.5
	res, err = d.Frame(0, c)
	if err != nil {
		t.Fatal(err)
	}
	if !res.MeshChanged || d.MeshRevision() != 3 {
		t.Errorf("texture transform change: %+v revision=%d", res, d.MeshRevision())
	}
}

func TestInvalidGeometryKeepsMesh(t *testing.T) {
	d, _ := newDriver(t)
	c := controls("angelfish-1")
	if _, err := d.Frame(0, c); err != nil {
		t.Fatal(err)
	}
	before := d.Mesh()

	c.Geometry.NumPointsPerRing = 2
	_, err := d.Frame(0, c)
	if !errors.Is(err, shell.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
	if d.Mesh() != before || d.MeshRevision() != 1 {
		t.Error("failed rebuild replaced the mesh")
	}

	c.Texture.RepeatsTangential = 3
	c.Geometry = shell.DefaultGeometry()
	if _, err := d.Frame(0, c); !errors.Is(err, shell.ErrInvalidTexture) {
		t.Errorf("expected ErrInvalidTexture, got %v", err)
	}
}

func TestReconfigureResizes(t *testing.T) {
	d, _ := newDriver(t)
	p := smallParams()

	// Before the field exists only the stored params change.
	p.F = 0.02
	if err := d.Reconfigure(p); err != nil {
		t.Fatal(err)
	}
	if d.Params().F != 0.02 {
		t.Error("params not stored")
	}

	c := controls(texture.Dynamic)
	if _, err := d.Frame(0, c); err != nil {
		t.Fatal(err)
	}
	p.Height, p.Width = 6, 10
	if err := d.Reconfigure(p); err != nil {
		t.Fatal(err)
	}
	if tex := d.Texture(); tex.Width != 10 || tex.Height != 6 {
		t.Errorf("texture is %dx%d, want 10x6", tex.Width, tex.Height)
	}

	p.Delta = -1
	if err := d.Reconfigure(p); !errors.Is(err, field.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestResetField(t *testing.T) {
	d, _ := newDriver(t)
	if err := d.ResetField(); err != nil {
		t.Errorf("reset before start: %v", err)
	}
	c := controls(texture.Dynamic)
	d.Frame(0, c)
	d.Frame(1, c)
	if err := d.ResetField(); err != nil {
		t.Fatal(err)
	}
	if d.Simulation().Steps() != 0 {
		t.Error("ResetField did not reseed")
	}
}

func TestPhaseTimer(t *testing.T) {
	timer := &recordingTimer{}
	d, _ := newDriver(t, WithPhaseTimer(timer))
	c := controls(texture.Dynamic)
	d.Frame(0, c)
	d.Frame(1, c)

	want := []string{"mesh", "simulate", "rasterize"}
	if len(timer.phases) != len(want) {
		t.Fatalf("phases = %v, want %v", timer.phases, want)
	}
	for i := range want {
		if timer.phases[i] != want[i] {
			t.Errorf("phase %d = %q, want %q", i, timer.phases[i], want[i])
		}
	}
}

func TestNewRejectsBadParams(t *testing.T) {
	p := smallParams()
	p.Width = 0
	if _, err := New(p, texture.DefaultSigmoid(), nil); !errors.Is(err, field.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}
