package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/snail/ui"
)

// Camera input sensitivities.
const (
	rotateSpeed = 0.005 // radians per pixel
	panSpeed    = 0.002 // distance fractions per pixel
	zoomStep    = 0.1   // per wheel notch
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.ResetField()
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		g.panel.CycleTexture(1)
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		g.panel.CycleTexture(-1)
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.saveTexture()
	}

	g.handleOverlayKeys()
	g.handleCameraInput()
}

// handleOverlayKeys toggles overlays and applies side effects.
func (g *Game) handleOverlayKeys() {
	key := rl.GetKeyPressed()
	for key != 0 {
		if id, state, ok := g.overlays.HandleKeyPress(key); ok {
			switch id {
			case ui.OverlayAxes:
				g.scene.ToggleAxes()
			case ui.OverlayControls:
				g.panel.Toggle()
			}
			slog.Debug("overlay toggled", "overlay", id, "enabled", state)
		}
		key = rl.GetKeyPressed()
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.perfPanel.SetPosition(10, int32(h)-200)
	g.background.Resize(int32(w), int32(h))
}

// handleCameraInput orbits with the left mouse button, pans with the right
// or middle button and zooms with the wheel.
func (g *Game) handleCameraInput() {
	mouse := rl.GetMousePosition()
	if g.panel.Contains(mouse) {
		return
	}

	delta := rl.GetMouseDelta()
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		g.camera.Rotate(float64(delta.X)*rotateSpeed, float64(delta.Y)*rotateSpeed)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) || rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		g.camera.Pan(-float64(delta.X)*panSpeed, float64(delta.Y)*panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 - float64(wheel)*zoomStep)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		if m := g.driver.Mesh(); m != nil {
			g.camera.Frame(m.Bounds())
		}
	}
}

// saveTexture writes the active texture to the output directory.
func (g *Game) saveTexture() {
	if g.outputManager == nil {
		slog.Warn("texture not saved, no output directory")
		return
	}
	name := fmt.Sprintf("%s-%06d", g.driver.TextureName(), g.tick)
	if err := g.outputManager.WriteTexture(name, g.driver.Texture()); err != nil {
		slog.Error("failed to save texture", "error", err)
		return
	}
	slog.Info("texture saved", "dir", g.outputManager.Dir(), "name", name)
}
