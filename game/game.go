// Package game wires the shell, the dynamic texture, the camera and the UI
// into a frame loop.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/snail/camera"
	"github.com/pthm-cable/snail/config"
	"github.com/pthm-cable/snail/driver"
	"github.com/pthm-cable/snail/field"
	"github.com/pthm-cable/snail/renderer"
	"github.com/pthm-cable/snail/scene"
	"github.com/pthm-cable/snail/telemetry"
	"github.com/pthm-cable/snail/texture"
	"github.com/pthm-cable/snail/ui"
)

// HeadlessFrameTime is the elapsed time fed to the driver per headless
// frame, long enough for every frame to run one field step.
const HeadlessFrameTime = 2 * driver.StepInterval

// Options configures a game instance.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string
	Headless  bool
	Texture   string // overrides the configured texture name when set
}

// Game holds the complete demo state.
type Game struct {
	cfg  *config.Config
	opts Options

	driver   *driver.Driver
	scene    *scene.World
	camera   *camera.Orbit
	controls driver.Controls // used when there is no control panel

	// Rendering (nil in headless mode)
	background    *renderer.BackgroundRenderer
	shellRenderer *renderer.ShellRenderer
	panel         *ui.ControlPanel
	hud           *ui.HUD
	fieldPanel    *ui.FieldPanel
	perfPanel     *ui.PerfPanel
	overlays      *ui.OverlayRegistry

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)

	// State
	tick         int32
	paused       bool
	textureDirty bool
	lastErr      string
	fieldStats   ui.FieldStatsData

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game from cfg. In windowed mode the raylib
// window must already be open.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	g := &Game{
		cfg:           cfg,
		opts:          opts,
		scene:         scene.New(cfg.Scene),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		screenWidth:   cfg.Derived.ScreenW32,
		screenHeight:  cfg.Derived.ScreenH32,
	}
	if cfg.Telemetry.Bookmarks {
		g.bookmarkDetector = telemetry.NewBookmarkDetector()
	}

	statics := texture.NewLibrary(cfg.Texture.Dir)
	d, err := driver.New(cfg.Derived.Params, cfg.Texture.Sigmoid, statics,
		driver.WithFieldOptions(field.WithSeed(opts.Seed), field.WithStepper(cfg.Stepper())),
		driver.WithPhaseTimer(g.perfCollector),
	)
	if err != nil {
		return nil, err
	}
	g.driver = d

	sc := cfg.Scene
	g.camera = camera.New(
		r3.Vec{X: sc.Position[0], Y: sc.Position[1], Z: sc.Position[2]},
		r3.Vec{X: sc.Target[0], Y: sc.Target[1], Z: sc.Target[2]},
		sc.Fovy,
	)

	g.controls = driver.Controls{
		Geometry: cfg.Geometry,
		Texture:  cfg.Texture.TextureParams,
		F:        cfg.Dynamics.F,
		K:        cfg.Dynamics.K,
	}
	if opts.Texture != "" {
		g.controls.Texture.Name = opts.Texture
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if !opts.Headless {
		if err := g.initGraphics(); err != nil {
			om.Close()
			return nil, err
		}
	}

	slog.Info("game initialized",
		"texture", g.controls.Texture.Name,
		"method", cfg.Derived.Method,
		"field", cfg.Derived.Params.Width,
		"headless", opts.Headless,
	)
	return g, nil
}

func (g *Game) initGraphics() error {
	g.background = renderer.NewBackgroundRenderer(int32(g.screenWidth), int32(g.screenHeight), g.cfg.Scene.Background)
	if err := g.background.Init(g.cfg.Scene.ShaderDir); err != nil {
		// Draw falls back to a flat clear.
		slog.Warn("background shader unavailable", "error", err)
	}

	g.shellRenderer = renderer.NewShellRenderer()
	if err := g.shellRenderer.Init(g.cfg.Scene.ShaderDir); err != nil {
		return err
	}
	g.shellRenderer.SetLighting(g.scene.Lighting())

	dyn := g.cfg.Dynamics
	ranges := ui.DefaultRanges(
		ui.Range{Min: dyn.FMin, Max: dyn.FMax},
		ui.Range{Min: dyn.KMin, Max: dyn.KMax},
	)
	const panelWidth = 280
	g.panel = ui.NewControlPanel(int32(g.screenWidth)-panelWidth-10, 10, panelWidth, g.controls, texture.Names(), ranges)
	g.hud = ui.NewHUD()
	g.fieldPanel = ui.NewFieldPanel(10, 120, 220)
	g.perfPanel = ui.NewPerfPanel(10, int32(g.screenHeight)-200)
	g.overlays = ui.NewOverlayRegistry()
	g.overlays.SetEnabled(ui.OverlayAxes, g.cfg.Scene.ShowAxes)
	return nil
}

// Controls returns the control values the next frame will use.
func (g *Game) Controls() driver.Controls {
	if g.panel != nil {
		return g.panel.Controls()
	}
	return g.controls
}

// SetControls replaces the control values in headless mode.
func (g *Game) SetControls(c driver.Controls) { g.controls = c }

// Update runs one windowed frame: input, field step, mesh rebuild and GPU
// upload.
func (g *Game) Update() {
	g.perfCollector.BeginFrame()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.handleInput()

	elapsed := float64(rl.GetFrameTime())
	if g.paused {
		elapsed = 0
	}
	g.advance(elapsed)

	g.perfCollector.StartPhase(telemetry.PhaseUpload)
	g.upload()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndFrame()
}

// UpdateHeadless runs one frame without graphics.
func (g *Game) UpdateHeadless() {
	g.perfCollector.BeginFrame()
	g.advance(HeadlessFrameTime)
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perfCollector.EndFrame()
}

// advance drives one frame of the core and records what changed.
func (g *Game) advance(elapsed float64) {
	res, err := g.driver.Frame(elapsed, g.Controls())
	g.reportError(err)

	if res.Stepped {
		g.collector.RecordStep()
	}
	if res.TextureChanged {
		g.textureDirty = true
	}
	if res.MeshChanged {
		g.collector.RecordMeshRebuild()
		m := g.driver.Mesh()
		g.scene.UpdateShell(g.driver.MeshRevision(), len(m.Vertices), len(m.Faces), g.driver.TextureName())
	}
	if res.TextureSelected {
		g.collector.RecordTextureChange()
		g.bookmarkDetector.Reset()
	}
	g.tick++
}

// reportError logs a frame error once until it changes or clears.
func (g *Game) reportError(err error) {
	if err == nil {
		g.lastErr = ""
		return
	}
	if msg := err.Error(); msg != g.lastErr {
		g.lastErr = msg
		slog.Warn("frame rejected", "error", err)
	}
}

// ResetField reseeds the dynamic texture.
func (g *Game) ResetField() {
	if err := g.driver.ResetField(); err != nil {
		slog.Error("failed to reset field", "error", err)
		return
	}
	g.textureDirty = true
	g.bookmarkDetector.Reset()
}

// Driver returns the frame driver.
func (g *Game) Driver() *driver.Driver { return g.driver }

// Tick returns the number of frames run.
func (g *Game) Tick() int32 { return g.tick }

// SetStatsCallback registers a function called with every flushed window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) { g.statsCallback = fn }

// Unload frees resources and closes output files.
func (g *Game) Unload() {
	if g.shellRenderer != nil {
		g.shellRenderer.Unload()
	}
	if g.background != nil {
		g.background.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
