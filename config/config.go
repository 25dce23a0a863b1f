// Package config provides configuration loading and access for the demo.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/snail/field"
	"github.com/pthm-cable/snail/integrator"
	"github.com/pthm-cable/snail/shell"
	"github.com/pthm-cable/snail/texture"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Geometry  shell.Geometry  `yaml:"geometry"`
	Texture   TextureConfig   `yaml:"texture"`
	Dynamics  DynamicsConfig  `yaml:"dynamics"`
	Scene     SceneConfig     `yaml:"scene"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// TextureConfig holds texture placement, the static image directory and
// the transfer curve of the dynamic texture.
type TextureConfig struct {
	shell.TextureParams `yaml:",inline"`

	Dir     string          `yaml:"dir"` // static images, <dir>/<name>.png
	Sigmoid texture.Sigmoid `yaml:"sigmoid"`
}

// DynamicsConfig holds the Gray-Scott field parameters.
type DynamicsConfig struct {
	F               float64     `yaml:"f"`
	K               float64     `yaml:"k"`
	D               []float64   `yaml:"d"` // per channel slot
	Delta           float64     `yaml:"delta"`
	Height          int         `yaml:"height"`
	Width           int         `yaml:"width"`
	DeltaT          float64     `yaml:"delta_t"`
	Method          string      `yaml:"method"` // euler, rk2 or rk4
	Roles           field.Roles `yaml:"roles"`
	SeedProbability float64     `yaml:"seed_probability"`
	FMin            float64     `yaml:"f_min"` // control panel range
	FMax            float64     `yaml:"f_max"`
	KMin            float64     `yaml:"k_min"`
	KMax            float64     `yaml:"k_max"`
}

// SceneConfig holds camera, lighting and helper geometry.
type SceneConfig struct {
	Fovy       float64       `yaml:"fovy"`
	Position   [3]float64    `yaml:"position"`
	Target     [3]float64    `yaml:"target"`
	Background [3]uint8      `yaml:"background"`
	Ambient    [3]uint8      `yaml:"ambient"`
	Lights     []LightConfig `yaml:"lights"`
	AxesLength float64       `yaml:"axes_length"`
	ShowAxes   bool          `yaml:"show_axes"`
	ShaderDir  string        `yaml:"shader_dir"`
}

// LightConfig is one directional light. Position is the point the light
// shines from towards the origin.
type LightConfig struct {
	Position  [3]float64 `yaml:"position"`
	Color     [3]uint8   `yaml:"color"`
	Intensity float64    `yaml:"intensity"`
}

// TelemetryConfig holds stats and output settings.
type TelemetryConfig struct {
	StatsWindow int32 `yaml:"stats_window"` // frames per stats window
	PerfWindow  int   `yaml:"perf_window"`  // frames in the rolling perf window
	Bookmarks   bool  `yaml:"bookmarks"`
}

// DerivedConfig holds values computed from the loaded configuration.
type DerivedConfig struct {
	ScreenW32 float32
	ScreenH32 float32
	Method    integrator.Method
	Params    field.Params
}

var global *Config

// Init loads configuration and stores it globally.
// If path is empty, uses embedded defaults only.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads the embedded defaults, merges the user file at path over them
// when path is non-empty, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	c.Derived.Method = integrator.Method(c.Dynamics.Method)
	if c.Derived.Method == "" {
		c.Derived.Method = integrator.DefaultMethod
	}

	d := c.Dynamics
	if len(d.D) != field.NumChannels {
		return fmt.Errorf("config: dynamics.d needs %d coefficients, got %d", field.NumChannels, len(d.D))
	}
	p := field.Params{
		F:               d.F,
		K:               d.K,
		Delta:           d.Delta,
		Height:          d.Height,
		Width:           d.Width,
		DeltaT:          d.DeltaT,
		Roles:           d.Roles,
		SeedProbability: d.SeedProbability,
	}
	copy(p.D[:], d.D)
	c.Derived.Params = p
	return nil
}

// Validate checks every section the core consumes.
func (c *Config) Validate() error {
	if err := c.Geometry.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Texture.TextureParams.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Derived.Params.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := integrator.New(c.Derived.Method); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Stepper returns a fresh stepper for the configured method.
func (c *Config) Stepper() integrator.Stepper {
	st, err := integrator.New(c.Derived.Method)
	if err != nil {
		// Validate already accepted the method.
		panic(err)
	}
	return st
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
