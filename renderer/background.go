package renderer

import (
	"fmt"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BackgroundShade darkens the bottom of the backdrop relative to the top.
const BackgroundShade = 0.55

// BackgroundRenderer fills the screen with a vertical gradient from the
// configured background color down to a darker shade of it.
type BackgroundRenderer struct {
	shader        rl.Shader
	resolutionLoc int32
	topColorLoc   int32
	bottomLoc     int32

	screenW, screenH float32
	top, bottom      [3]float32
	initialized      bool
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(screenW, screenH int32, base [3]uint8) *BackgroundRenderer {
	b := &BackgroundRenderer{
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
	for i, c := range base {
		b.top[i] = float32(c) / 255.0
		b.bottom[i] = b.top[i] * BackgroundShade
	}
	return b
}

// Init loads the gradient shader (must be called after raylib window is created).
func (b *BackgroundRenderer) Init(shaderDir string) error {
	if b.initialized {
		return nil
	}

	b.shader = rl.LoadShader("", filepath.Join(shaderDir, "background.fs"))
	if b.shader.ID == 0 {
		return fmt.Errorf("loading background shader from %s", shaderDir)
	}
	b.resolutionLoc = rl.GetShaderLocation(b.shader, "resolution")
	b.topColorLoc = rl.GetShaderLocation(b.shader, "topColor")
	b.bottomLoc = rl.GetShaderLocation(b.shader, "bottomColor")

	rl.SetShaderValue(b.shader, b.topColorLoc, b.top[:], rl.ShaderUniformVec3)
	rl.SetShaderValue(b.shader, b.bottomLoc, b.bottom[:], rl.ShaderUniformVec3)
	b.initialized = true
	b.Resize(int32(b.screenW), int32(b.screenH))
	return nil
}

// Resize updates the fullscreen quad after a window resize.
func (b *BackgroundRenderer) Resize(screenW, screenH int32) {
	b.screenW, b.screenH = float32(screenW), float32(screenH)
	if b.initialized {
		rl.SetShaderValue(b.shader, b.resolutionLoc, []float32{b.screenW, b.screenH}, rl.ShaderUniformVec2)
	}
}

// Draw renders the gradient. Falls back to a flat clear if the shader
// never loaded.
func (b *BackgroundRenderer) Draw() {
	if !b.initialized {
		rl.ClearBackground(rl.Color{
			R: uint8(b.top[0] * 255), G: uint8(b.top[1] * 255), B: uint8(b.top[2] * 255), A: 255,
		})
		return
	}

	rl.BeginShaderMode(b.shader)
	rl.DrawRectangle(0, 0, int32(b.screenW), int32(b.screenH), rl.White)
	rl.EndShaderMode()
}

// Unload frees resources.
func (b *BackgroundRenderer) Unload() {
	if b.initialized {
		rl.UnloadShader(b.shader)
		b.initialized = false
	}
}
