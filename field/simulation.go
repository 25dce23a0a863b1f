package field

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/snail/integrator"
)

// ErrInvalidParams reports simulation parameters that cannot be used.
var ErrInvalidParams = errors.New("field: invalid parameters")

// Initial concentrations.
const (
	InitPrey       = 1.0
	InitPredator   = 0.0
	InitDummy      = 0.5
	SeededPredator = 1.0

	// DefaultSeedProbability is the per-cell chance of starting with predator.
	DefaultSeedProbability = 1.0 / 1000.0
)

// Params configures a Gray-Scott simulation.
type Params struct {
	F      float64              // prey growth (feed) rate
	K      float64              // predator decay (kill) rate
	D      [NumChannels]float64 // diffusion coefficient per channel slot
	Delta  float64              // texel size in physical units
	Height int
	Width  int
	DeltaT float64 // integration time step
	Roles  Roles

	SeedProbability float64
}

// DefaultParams returns the parameters of the shipped demo.
func DefaultParams() Params {
	return Params{
		F:               0.0140,
		K:               0.0450,
		D:               [NumChannels]float64{2.0, 0.5, 2.0},
		Delta:           2.5,
		Height:          128,
		Width:           128,
		DeltaT:          2.0,
		Roles:           DefaultRoles(),
		SeedProbability: DefaultSeedProbability,
	}
}

// Validate checks the parameters once so the hot path never has to.
func (p Params) Validate() error {
	if p.Height <= 0 || p.Width <= 0 {
		return fmt.Errorf("%w: grid size must be positive, got %dx%d", ErrInvalidParams, p.Height, p.Width)
	}
	if !(p.Delta > 0) || math.IsInf(p.Delta, 0) {
		return fmt.Errorf("%w: delta must be positive and finite, got %v", ErrInvalidParams, p.Delta)
	}
	if !(p.DeltaT > 0) || math.IsInf(p.DeltaT, 0) {
		return fmt.Errorf("%w: deltaT must be positive and finite, got %v", ErrInvalidParams, p.DeltaT)
	}
	if p.SeedProbability < 0 || p.SeedProbability > 1 {
		return fmt.Errorf("%w: seed probability must be in [0,1], got %v", ErrInvalidParams, p.SeedProbability)
	}
	for c, d := range p.D {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("%w: diffusion coefficient %d is not finite", ErrInvalidParams, c)
		}
	}
	return p.Roles.Validate()
}

// Initialize builds a seeded field: prey everywhere, no predator, dummy at
// one half, and predator set in cells whose uniform draw falls below
// p.SeedProbability. One draw is taken per cell in layout order.
func Initialize(p Params, rng *rand.Rand) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g := NewGrid(p.Height, p.Width)
	seed(g, p, rng)
	return g, nil
}

func seed(g *Grid, p Params, rng *rand.Rand) {
	r := p.Roles
	for s := 0; s < len(g.Data); s += NumChannels {
		g.Data[s+r.Prey] = InitPrey
		g.Data[s+r.Predator] = InitPredator
		g.Data[s+r.Dummy] = InitDummy

		if rng.Float64() < p.SeedProbability {
			g.Data[s+r.Predator] = SeededPredator
		}
	}
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithStepper selects the integration method.
func WithStepper(st integrator.Stepper) Option {
	return func(s *Simulation) { s.stepper = st }
}

// WithRand sets the random source used for seeding.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulation) { s.rng = rng }
}

// WithSeed seeds a private random source.
func WithSeed(seed int64) Option {
	return func(s *Simulation) { s.rng = rand.New(rand.NewSource(seed)) }
}

// Simulation owns a field, its parameters and the stepper that advances it.
// It is not safe for concurrent use.
type Simulation struct {
	params  Params
	grid    *Grid
	stepper integrator.Stepper
	rng     *rand.Rand
	steps   int

	reaction []float64
	deriv    integrator.Derivative
}

// New validates p, seeds a fresh field and returns the simulation.
func New(p Params, opts ...Option) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{params: p}
	for _, opt := range opts {
		opt(s)
	}
	if s.stepper == nil {
		s.stepper = &integrator.RK4{}
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s.deriv = func(dst, x []float64) {
		if err := s.Derivative(dst, x); err != nil {
			// The grid shape is fixed by New/Reconfigure; a mismatch here is a bug.
			panic(err)
		}
	}
	s.Reset()
	return s, nil
}

// Derivative writes diffusion(x) + reaction(x) into dst.
func (s *Simulation) Derivative(dst, x []float64) error {
	p := s.params
	if err := Diffuse(dst, x, p.Height, p.Width, p.D, p.Delta); err != nil {
		return err
	}
	if len(s.reaction) != len(x) {
		s.reaction = make([]float64, len(x))
	}
	if err := GrayScott(s.reaction, x, p.F, p.K, p.Roles); err != nil {
		return err
	}
	floats.Add(dst, s.reaction)
	return nil
}

// Step advances the field by one DeltaT in place.
func (s *Simulation) Step() {
	s.stepper.Step(s.deriv, s.grid.Data, s.params.DeltaT)
	s.steps++
}

// Reconfigure applies new parameters. Rates, diffusion, spacing and time
// step take effect on the next Step; a new grid size reseeds the field.
func (s *Simulation) Reconfigure(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	resize := p.Height != s.params.Height || p.Width != s.params.Width
	s.params = p
	if resize {
		s.Reset()
	}
	return nil
}

// SetRates updates the feed and kill rates only.
func (s *Simulation) SetRates(f, k float64) {
	s.params.F = f
	s.params.K = k
}

// Reset reseeds the field with the current parameters.
func (s *Simulation) Reset() {
	p := s.params
	if s.grid == nil || s.grid.Height != p.Height || s.grid.Width != p.Width {
		s.grid = NewGrid(p.Height, p.Width)
		s.reaction = make([]float64, s.grid.Len())
	}
	seed(s.grid, p, s.rng)
	s.steps = 0
}

// State returns the live field. Callers must not resize Data.
func (s *Simulation) State() *Grid { return s.grid }

// Params returns the active parameters.
func (s *Simulation) Params() Params { return s.params }

// Steps returns the number of steps since the last reset.
func (s *Simulation) Steps() int { return s.steps }

// Method returns the stepper name.
func (s *Simulation) Method() string { return s.stepper.Name() }
