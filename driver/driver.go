// Package driver runs the per-frame contract between the numeric core and
// the presentation layer: advance the dynamic texture at a fixed cadence and
// rebuild the shell when its parameters change.
package driver

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/snail/field"
	"github.com/pthm-cable/snail/shell"
	"github.com/pthm-cable/snail/telemetry"
	"github.com/pthm-cable/snail/texture"
)

// StepInterval is the minimum accumulated time between simulation steps.
const StepInterval = 1.0 / 30.0

// Controls is the control-panel state read once per frame.
type Controls struct {
	Geometry shell.Geometry
	Texture  shell.TextureParams
	F, K     float64
}

// Dynamic reports whether the live field is the active texture.
func (c Controls) Dynamic() bool { return c.Texture.Name == texture.Dynamic }

// Result reports what changed during a frame.
type Result struct {
	Stepped         bool
	TextureSelected bool // a different texture became active
	TextureChanged  bool // pixels or active texture changed
	MeshChanged     bool
}

// StaticTextures resolves static texture names to buffers.
type StaticTextures interface {
	Get(name string) *texture.Buffer
}

// PhaseTimer receives phase boundaries for profiling.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Option configures a Driver.
type Option func(*Driver)

// WithFieldOptions forwards options to the simulation when it is created.
func WithFieldOptions(opts ...field.Option) Option {
	return func(d *Driver) { d.fieldOpts = append(d.fieldOpts, opts...) }
}

// WithPhaseTimer reports simulate, rasterize and mesh phases to t.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(d *Driver) { d.timer = t }
}

// Driver owns the field simulation, the dynamic texture buffer and the
// current shell mesh. It is not safe for concurrent use.
type Driver struct {
	params    field.Params
	sigmoid   texture.Sigmoid
	statics   StaticTextures
	fieldOpts []field.Option
	timer     PhaseTimer

	sim     *field.Simulation
	dynamic *texture.Buffer
	elapsed float64

	active     *texture.Buffer
	activeName string

	mesh     *shell.Mesh
	buffers  shell.GPUBuffers
	built    bool
	last     Controls
	revision int
}

// New returns a driver. The simulation is created lazily the first time the
// dynamic texture is selected.
func New(p field.Params, s texture.Sigmoid, statics StaticTextures, opts ...Option) (*Driver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{params: p, sigmoid: s, statics: statics}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Frame advances the driver by elapsed seconds. At most one simulation step
// runs per call, followed by at most one mesh rebuild. If the rebuild fails
// the previous mesh stays current and the error is returned.
func (d *Driver) Frame(elapsed float64, c Controls) (Result, error) {
	var res Result

	changed, err := d.selectTexture(c)
	if err != nil {
		return res, err
	}
	res.TextureSelected = changed
	res.TextureChanged = changed

	if c.Dynamic() {
		d.elapsed += elapsed
		if d.elapsed > StepInterval {
			// Drop the backlog: a slow frame never queues catch-up steps.
			d.elapsed = 0
			if err := d.step(c.F, c.K); err != nil {
				return res, err
			}
			res.Stepped = true
			res.TextureChanged = true
		}
	}

	if !d.built || c.Geometry != d.last.Geometry || c.Texture != d.last.Texture {
		d.phase(telemetry.PhaseMesh)
		if err := d.rebuild(c); err != nil {
			return res, err
		}
		res.MeshChanged = true
	}
	return res, nil
}

// selectTexture switches the active buffer when the texture name changes.
// Entering the dynamic texture reseeds the field.
func (d *Driver) selectTexture(c Controls) (bool, error) {
	if c.Texture.Name == d.activeName && d.active != nil {
		return false, nil
	}

	if c.Dynamic() {
		if err := d.startField(); err != nil {
			return false, err
		}
		d.active = d.dynamic
	} else {
		if d.statics == nil {
			return false, fmt.Errorf("no static texture source for %q", c.Texture.Name)
		}
		d.active = d.statics.Get(c.Texture.Name)
	}
	d.activeName = c.Texture.Name
	d.elapsed = 0
	slog.Debug("texture selected", "name", d.activeName)
	return true, nil
}

func (d *Driver) startField() error {
	if d.sim == nil {
		sim, err := field.New(d.params, d.fieldOpts...)
		if err != nil {
			return err
		}
		d.sim = sim
	} else {
		d.sim.Reset()
	}

	grid := d.sim.State()
	if d.dynamic == nil || d.dynamic.Width != grid.Width || d.dynamic.Height != grid.Height {
		d.dynamic = texture.FromGrid(grid, d.sigmoid)
		return nil
	}
	return d.dynamic.Update(grid, d.sigmoid)
}

func (d *Driver) step(f, k float64) error {
	d.phase(telemetry.PhaseSimulate)
	d.sim.SetRates(f, k)
	d.sim.Step()

	d.phase(telemetry.PhaseRasterize)
	return d.dynamic.Update(d.sim.State(), d.sigmoid)
}

func (d *Driver) rebuild(c Controls) error {
	if err := c.Texture.Validate(); err != nil {
		return err
	}
	m, err := shell.Build(c.Geometry)
	if err != nil {
		return err
	}
	d.mesh = m
	d.buffers = m.Buffers(c.Texture)
	d.last = c
	d.built = true
	d.revision++
	return nil
}

func (d *Driver) phase(name string) {
	if d.timer != nil {
		d.timer.StartPhase(name)
	}
}

// Reconfigure applies new field parameters. A live field keeps its state
// unless the grid size changes, in which case the dynamic buffer is resized.
func (d *Driver) Reconfigure(p field.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	d.params = p
	if d.sim == nil {
		return nil
	}
	if err := d.sim.Reconfigure(p); err != nil {
		return err
	}
	grid := d.sim.State()
	if d.dynamic.Width != grid.Width || d.dynamic.Height != grid.Height {
		d.dynamic = texture.FromGrid(grid, d.sigmoid)
		if d.activeName == texture.Dynamic {
			d.active = d.dynamic
		}
	}
	return nil
}

// ResetField reseeds the live field, if any.
func (d *Driver) ResetField() error {
	if d.sim == nil {
		return nil
	}
	d.sim.Reset()
	return d.dynamic.Update(d.sim.State(), d.sigmoid)
}

// Texture returns the active texture buffer, or nil before the first frame.
func (d *Driver) Texture() *texture.Buffer { return d.active }

// TextureName returns the name of the active texture.
func (d *Driver) TextureName() string { return d.activeName }

// Mesh returns the current shell mesh, or nil before the first frame.
func (d *Driver) Mesh() *shell.Mesh { return d.mesh }

// Buffers returns the GPU-ready expansion of the current mesh.
func (d *Driver) Buffers() shell.GPUBuffers { return d.buffers }

// MeshRevision increments on every successful rebuild.
func (d *Driver) MeshRevision() int { return d.revision }

// Simulation returns the live field simulation, or nil if the dynamic
// texture has never been selected.
func (d *Driver) Simulation() *field.Simulation { return d.sim }

// Params returns the field parameters used for new or resized fields.
func (d *Driver) Params() field.Params { return d.params }
