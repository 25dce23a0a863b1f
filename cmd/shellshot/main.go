// Shell snapshot tool - renders the shell offscreen to a PNG file.
//
// Usage: go run ./cmd/shellshot -texture dynamic -steps 500 -out shell.png
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/snail/camera"
	"github.com/pthm-cable/snail/config"
	"github.com/pthm-cable/snail/driver"
	"github.com/pthm-cable/snail/field"
	"github.com/pthm-cable/snail/renderer"
	"github.com/pthm-cable/snail/scene"
	"github.com/pthm-cable/snail/texture"
)

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	textureName := flag.String("texture", "", "Texture name (empty = use config)")
	outPath := flag.String("out", "shell.png", "Output PNG path")
	width := flag.Int("width", 1024, "Render width")
	height := flag.Int("height", 768, "Render height")
	steps := flag.Int("steps", 0, "Field steps before rendering (dynamic texture only)")
	seed := flag.Int64("seed", 1, "RNG seed for field seeding")
	frame := flag.Bool("frame", false, "Fit the camera to the mesh bounds")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("failed to load config", err)
	}

	controls := driver.Controls{
		Geometry: cfg.Geometry,
		Texture:  cfg.Texture.TextureParams,
		F:        cfg.Dynamics.F,
		K:        cfg.Dynamics.K,
	}
	if *textureName != "" {
		controls.Texture.Name = *textureName
	}

	d, err := driver.New(cfg.Derived.Params, cfg.Texture.Sigmoid, texture.NewLibrary(cfg.Texture.Dir),
		driver.WithFieldOptions(field.WithSeed(*seed), field.WithStepper(cfg.Stepper())),
	)
	if err != nil {
		fatal("failed to create driver", err)
	}

	// Each frame is long enough for exactly one step.
	if _, err := d.Frame(0, controls); err != nil {
		fatal("failed to build shell", err)
	}
	if controls.Dynamic() {
		for i := 0; i < *steps; i++ {
			if _, err := d.Frame(2*driver.StepInterval, controls); err != nil {
				fatal("failed to step field", err)
			}
		}
	}

	sc := scene.New(cfg.Scene)
	sc.UpdateShell(d.MeshRevision(), d.Buffers().VertexCount(), len(d.Mesh().Faces), d.TextureName())

	orbit := camera.New(
		r3.Vec{X: cfg.Scene.Position[0], Y: cfg.Scene.Position[1], Z: cfg.Scene.Position[2]},
		r3.Vec{X: cfg.Scene.Target[0], Y: cfg.Scene.Target[1], Z: cfg.Scene.Target[2]},
		cfg.Scene.Fovy,
	)
	if *frame {
		orbit.Frame(d.Mesh().Bounds())
	}

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(*width), int32(*height), "Shell Snapshot")
	defer rl.CloseWindow()

	sr := renderer.NewShellRenderer()
	if err := sr.Init(cfg.Scene.ShaderDir); err != nil {
		fatal("failed to load shader", err)
	}
	defer sr.Unload()
	sr.SetLighting(sc.Lighting())
	sr.Texture().Upload(d.Texture())
	sr.UploadMesh(d.Buffers(), d.MeshRevision())

	target := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(target)

	bg := cfg.Scene.Background
	cam := renderer.Camera3D(orbit)
	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Color{R: bg[0], G: bg[1], B: bg[2], A: 255})
	rl.BeginMode3D(cam)
	sr.Draw(cam)
	renderer.DrawAxes(sc.Axes())
	rl.EndMode3D()
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if !success {
		fatal("failed to export image", fmt.Errorf("export %s", *outPath))
	}
	fmt.Printf("Shell rendered to: %s (%dx%d, texture %s)\n", *outPath, *width, *height, d.TextureName())
}
