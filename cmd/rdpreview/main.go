// Reaction-diffusion preview tool - steps the dynamic texture in 2D with
// sliders for the rates and the transfer curve.
//
// Usage: go run ./cmd/rdpreview -config config.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/snail/config"
	"github.com/pthm-cable/snail/field"
	"github.com/pthm-cable/snail/renderer"
	"github.com/pthm-cable/snail/texture"
	"github.com/pthm-cable/snail/ui"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	previewX     = 10
	previewY     = 10
)

// PreviewParams holds the tunable values.
type PreviewParams struct {
	F             float64         `yaml:"f"`
	K             float64         `yaml:"k"`
	Sigmoid       texture.Sigmoid `yaml:"sigmoid"`
	StepsPerFrame int             `yaml:"-"`
}

// slider draws a labelled slider and returns the new value.
func slider(x, y float32, label, format string, value float64, r ui.Range) float64 {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		float32(value), float32(r.Min), float32(r.Max),
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(y+2), 16, rl.DarkGray)
	if float64(next) == float64(float32(value)) {
		return value
	}
	return r.Clamp(float64(next))
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 1, "RNG seed for field seeding")
	tiles := flag.Int("tiles", 2, "Texture repeats per preview side (mirrored)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	defaults := PreviewParams{
		F:             cfg.Dynamics.F,
		K:             cfg.Dynamics.K,
		Sigmoid:       cfg.Texture.Sigmoid,
		StepsPerFrame: 1,
	}
	params := defaults

	fRange := ui.Range{Min: cfg.Dynamics.FMin, Max: cfg.Dynamics.FMax}
	kRange := ui.Range{Min: cfg.Dynamics.KMin, Max: cfg.Dynamics.KMax}
	steepRange := ui.Range{Min: 1, Max: 40}
	midRange := ui.Range{Min: 0, Max: 1}
	stepsRange := ui.Range{Min: 1, Max: 20, Step: 1}

	sim, err := field.New(cfg.Derived.Params, field.WithSeed(*seed), field.WithStepper(cfg.Stepper()))
	if err != nil {
		slog.Error("failed to create field", "error", err)
		os.Exit(1)
	}
	p := sim.Params()
	buf := texture.NewBuffer(p.Width, p.Height, field.NumChannels)

	rl.InitWindow(windowWidth, windowHeight, "Reaction-Diffusion Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	uploader := renderer.NewTextureUploader()
	defer uploader.Unload()

	running := true
	needsUpload := true

	for !rl.WindowShouldClose() {
		if running {
			for i := 0; i < params.StepsPerFrame; i++ {
				sim.Step()
			}
			needsUpload = true
		}

		if needsUpload {
			if err := buf.Update(sim.State(), params.Sigmoid); err != nil {
				slog.Error("rasterize failed", "error", err)
			}
			uploader.Upload(buf)
			needsUpload = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Source rect larger than the texture tiles it with mirrored repeat
		n := float32(*tiles)
		rl.DrawTexturePro(
			uploader.Texture(),
			rl.Rectangle{X: 0, Y: 0, Width: float32(p.Width) * n, Height: float32(p.Height) * n},
			rl.Rectangle{X: previewX, Y: previewY, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(previewX, previewY, previewSize, previewSize, rl.DarkGray)

		sum := field.Summarize(sim.State(), p.Roles)
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Prey: %.3f +/- %.3f  Predator: %.3f +/- %.3f",
			sum.Prey.Mean, sum.Prey.StdDev, sum.Predator.Mean, sum.Predator.StdDev), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Steps: %d  Method: %s  Non-finite: %d", sim.Steps(), sim.Method(), sum.NonFinite), 15, statsY+20, 16, rl.DarkGray)
		mouse := rl.GetMousePosition()
		if u, v, ok := previewUV(mouse.X, mouse.Y, *tiles); ok {
			rl.DrawText(texelReadout(buf, u, v), 15, statsY+40, 16, rl.DarkGray)
		}

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Reaction-Diffusion", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if f := slider(panelX, panelY, "Feed rate f", "%.4f", params.F, fRange); f != params.F {
			params.F = f
			sim.SetRates(params.F, params.K)
		}
		panelY += 45
		if k := slider(panelX, panelY, "Kill rate k", "%.4f", params.K, kRange); k != params.K {
			params.K = k
			sim.SetRates(params.F, params.K)
		}
		panelY += 45

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15
		rl.DrawText("Transfer curve", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25

		if s := slider(panelX, panelY, "Steepness", "%.1f", params.Sigmoid.Steepness, steepRange); s != params.Sigmoid.Steepness {
			params.Sigmoid.Steepness = s
			needsUpload = true
		}
		panelY += 45
		if m := slider(panelX, panelY, "Midpoint", "%.2f", params.Sigmoid.Midpoint, midRange); m != params.Sigmoid.Midpoint {
			params.Sigmoid.Midpoint = m
			needsUpload = true
		}
		panelY += 45
		params.StepsPerFrame = int(slider(panelX, panelY, "Steps per frame", "%.0f", float64(params.StepsPerFrame), stepsRange))
		panelY += 55

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(running, "Pause", "Run")) {
			running = !running
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Step") {
			sim.Step()
			needsUpload = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reseed") {
			sim.Reset()
			needsUpload = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			sim.SetRates(params.F, params.K)
			sim.Reset()
			needsUpload = true
		}
		panelY += 55

		// Output YAML
		yamlText := previewYAML(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(yamlText, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yamlText)
		}
		if rl.IsKeyPressed(rl.KeySpace) {
			running = !running
		}

		rl.EndDrawing()
	}
}

// previewYAML renders params as the dynamics and texture config snippet.
func previewYAML(p PreviewParams) string {
	snippet := struct {
		Dynamics struct {
			F float64 `yaml:"f"`
			K float64 `yaml:"k"`
		} `yaml:"dynamics"`
		Texture struct {
			Sigmoid texture.Sigmoid `yaml:"sigmoid"`
		} `yaml:"texture"`
	}{}
	snippet.Dynamics.F = p.F
	snippet.Dynamics.K = p.K
	snippet.Texture.Sigmoid = p.Sigmoid

	out, err := yaml.Marshal(snippet)
	if err != nil {
		return err.Error()
	}
	return string(out)
}

// previewUV maps a window position over the tiled preview to texture
// coordinates in repeat units, so u and v run from 0 to tiles.
func previewUV(mx, my float32, tiles int) (u, v float64, ok bool) {
	x, y := mx-previewX, my-previewY
	if x < 0 || y < 0 || x >= previewSize || y >= previewSize || tiles < 1 {
		return 0, 0, false
	}
	n := float64(tiles)
	return float64(x) / previewSize * n, float64(y) / previewSize * n, true
}

// texelReadout describes the rasterized texel under (u, v), folded the
// same way the GPU sampler folds it.
func texelReadout(buf *texture.Buffer, u, v float64) string {
	t := buf.Sample(u, v)
	return fmt.Sprintf("Texel (%.3f, %.3f): %v",
		texture.MirroredRepeat(u), texture.MirroredRepeat(v), t)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
