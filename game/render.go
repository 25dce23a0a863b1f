package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/snail/renderer"
	"github.com/pthm-cable/snail/telemetry"
	"github.com/pthm-cable/snail/ui"
)

// upload pushes a changed texture or mesh to the GPU.
func (g *Game) upload() {
	if g.textureDirty {
		g.shellRenderer.Texture().Upload(g.driver.Texture())
		g.textureDirty = false
	}
	g.shellRenderer.UploadMesh(g.driver.Buffers(), g.driver.MeshRevision())
}

// Draw renders the frame.
func (g *Game) Draw() {
	g.perfCollector.RecordPresent()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	g.background.Draw()

	cam := renderer.Camera3D(g.camera)
	rl.BeginMode3D(cam)
	g.shellRenderer.Draw(cam)
	renderer.DrawAxes(g.scene.Axes())
	rl.EndMode3D()

	g.drawUI()

	rl.EndDrawing()
}

// drawUI renders panels on top of the scene.
func (g *Game) drawUI() {
	if g.overlays.IsEnabled(ui.OverlayHUD) {
		shell := g.scene.Shell()
		data := ui.HUDData{
			Title:     g.cfg.Screen.Title,
			Texture:   shell.Texture,
			Vertices:  shell.Vertices,
			Triangles: shell.Triangles,
			Tick:      g.tick,
			FPS:       rl.GetFPS(),
			Paused:    g.paused,
		}
		if sim := g.driver.Simulation(); sim != nil && g.Controls().Dynamic() {
			p := sim.Params()
			data.Steps = sim.Steps()
			data.Method = sim.Method()
			data.F, data.K = p.F, p.K
		}
		g.hud.Draw(data)
		g.hud.DrawControls(int32(g.screenHeight),
			"[Space] Pause | [R] Reset field | [ ] Texture | [C] Frame | [Home] Camera | [S] Save | "+g.overlays.Legend())
	}

	if g.overlays.IsEnabled(ui.OverlayFieldStats) && g.Controls().Dynamic() {
		g.fieldPanel.Draw(g.fieldStats)
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		stats := g.perfCollector.Stats()
		g.perfPanel.Draw(ui.PerfPanelData{
			PhaseTimes: stats.PhaseAvg,
			Total:      stats.AvgUpdate,
		}, telemetry.Phases[:])
	}

	actions := g.panel.Draw()
	if actions.ResetField {
		g.ResetField()
	}
	if actions.ResetCamera {
		g.camera.Reset()
	}
}
